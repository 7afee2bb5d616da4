// Package tui is the bubbletea front end over an app.App.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"focuspad/internal/app"
	"focuspad/internal/audio"
	"focuspad/internal/notify"
	"focuspad/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
)

// TimerMsg carries one timer event into the update loop.
type TimerMsg struct {
	Event timer.Event
}

// NoticeMsg shows a transient notification.
type NoticeMsg notify.Notice

type noticeExpiredMsg struct {
	seq int
}

type Options struct {
	Events  <-chan timer.Event
	Notices <-chan notify.Notice
	// Bell receives the terminal bell on timer alerts. Defaults to stdout.
	Bell io.Writer
}

type Model struct {
	app     *app.App
	ctx     context.Context
	events  <-chan timer.Event
	notices <-chan notify.Notice
	bell    io.Writer

	Editing bool

	ShowDurationForm bool
	WorkInput        string
	BreakInput       string
	InputFocus       int
	FormErr          error
	// minutes shown when the form opened
	shownWork  int
	shownBreak int

	ShowClearConfirm bool

	SelectedTrack int

	Notice    string
	noticeSeq int

	styles styles
}

func NewModel(ctx context.Context, a *app.App, opts Options) *Model {
	if opts.Bell == nil {
		opts.Bell = os.Stdout
	}

	m := &Model{
		app:     a,
		ctx:     ctx,
		events:  opts.Events,
		notices: opts.Notices,
		bell:    opts.Bell,
		styles:  newStyles(a.Theme()),
	}
	if current, ok := a.Audio.Current(); ok {
		m.SelectedTrack = trackIndex(a.Audio.Tracks(), current.ID)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.waitForNotice())
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return TimerMsg{Event: ev}
	}
}

func (m *Model) waitForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-m.notices
		if !ok {
			return nil
		}
		return NoticeMsg(n)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimerMsg:
		if msg.Event.Type == timer.EventAlert {
			return m, tea.Batch(m.waitForEvent(), m.ring())
		}
		return m, m.waitForEvent()
	case NoticeMsg:
		return m, tea.Batch(m.waitForNotice(), m.showNotice(notify.Notice(msg)))
	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.Notice = ""
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.ShowClearConfirm {
		return m.clearConfirmView()
	}

	if m.ShowDurationForm {
		return m.durationFormView()
	}

	return m.mainView()
}

func (m *Model) showNotice(n notify.Notice) tea.Cmd {
	m.noticeSeq++
	m.Notice = n.Message
	seq := m.noticeSeq
	d := n.Duration
	if d <= 0 {
		d = notify.DefaultDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m *Model) ring() tea.Cmd {
	w := m.bell
	return func() tea.Msg {
		fmt.Fprint(w, "\a")
		return nil
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowClearConfirm {
		return m.handleClearConfirm(msg)
	}

	if m.ShowDurationForm {
		return m.handleFormInput(msg)
	}

	if m.Editing {
		return m.handleEditorInput(msg)
	}

	tracks := m.app.Audio.Tracks()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case " ", "space":
		m.app.Timer.Toggle()
	case "r":
		m.app.Timer.Reset()
	case "e":
		work, brk := m.app.Timer.Durations()
		m.shownWork, m.shownBreak = work/60, brk/60
		m.WorkInput = fmt.Sprintf("%d", m.shownWork)
		m.BreakInput = fmt.Sprintf("%d", m.shownBreak)
		m.InputFocus = 0
		m.FormErr = nil
		m.ShowDurationForm = true
	case "tab", "i":
		m.Editing = true
	case "ctrl+s":
		m.app.Notes.SaveNow(m.ctx)
	case "ctrl+d":
		m.ShowClearConfirm = m.app.Notes.RequestClear()
	case "x":
		m.app.ExportNotes("")
	case "t":
		m.app.ToggleTheme(m.ctx)
		m.styles = newStyles(m.app.Theme())
	case "m":
		m.app.Audio.TogglePlayback()
	case "up", "k":
		if m.SelectedTrack > 0 {
			m.SelectedTrack--
		}
	case "down", "j":
		if m.SelectedTrack < len(tracks)-1 {
			m.SelectedTrack++
		}
	case "enter":
		if m.SelectedTrack >= 0 && m.SelectedTrack < len(tracks) {
			m.app.Audio.Toggle(tracks[m.SelectedTrack])
		}
	case ",":
		m.app.Audio.CyclePrevious()
		m.followCurrentTrack()
	case ".":
		m.app.Audio.CycleNext()
		m.followCurrentTrack()
	case "[":
		m.app.Audio.StepVolume(m.ctx, -audio.VolumeStep)
	case "]":
		m.app.Audio.StepVolume(m.ctx, audio.VolumeStep)
	}
	return m, nil
}

func (m *Model) followCurrentTrack() {
	if current, ok := m.app.Audio.Current(); ok {
		m.SelectedTrack = trackIndex(m.app.Audio.Tracks(), current.ID)
	}
}

func (m *Model) handleEditorInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	text := m.app.Notes.Text()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "tab":
		m.Editing = false
	case "ctrl+s":
		m.app.Notes.SaveNow(m.ctx)
	case "ctrl+d":
		m.ShowClearConfirm = m.app.Notes.RequestClear()
	case "enter":
		m.app.Notes.SetText(text + "\n")
	case " ", "space":
		m.app.Notes.SetText(text + " ")
	case "backspace":
		if text != "" {
			_, size := utf8.DecodeLastRuneInString(text)
			m.app.Notes.SetText(text[:len(text)-size])
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.app.Notes.SetText(text + string(msg.Runes))
		}
	}
	return m, nil
}

func (m *Model) handleClearConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.app.Notes.ConfirmClear(m.ctx)
		m.ShowClearConfirm = false
	case "n", "N", "esc", "ctrl+c":
		m.ShowClearConfirm = false
	}
	return m, nil
}

func (m *Model) handleFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.ShowDurationForm = false
		m.FormErr = nil
	case "enter":
		if m.InputFocus == 0 {
			m.InputFocus = 1
			break
		}
		if err := m.applyDurations(); err != nil {
			m.FormErr = err
			break
		}
		m.ShowDurationForm = false
		m.FormErr = nil
	case "backspace":
		field := m.focusedInput()
		if len(*field) > 0 {
			*field = (*field)[:len(*field)-1]
		}
	case "tab", "shift+tab":
		m.InputFocus = 1 - m.InputFocus
	default:
		runes := []rune(msg.String())
		if len(runes) == 1 && runes[0] >= '0' && runes[0] <= '9' {
			field := m.focusedInput()
			*field += string(runes[0])
		}
	}
	return m, nil
}

func (m *Model) focusedInput() *string {
	if m.InputFocus == 0 {
		return &m.WorkInput
	}
	return &m.BreakInput
}

// applyDurations validates both fields before changing either. Only edited
// fields reach the timer, so an unchanged form keeps a paused session.
func (m *Model) applyDurations() error {
	work, err := timer.ParseMinutes(m.WorkInput)
	if err != nil {
		return fmt.Errorf("work: %w", err)
	}
	brk, err := timer.ParseMinutes(m.BreakInput)
	if err != nil {
		return fmt.Errorf("break: %w", err)
	}

	if work != m.shownWork {
		if err := m.app.Timer.SetWorkDuration(work); err != nil {
			return err
		}
		m.shownWork = work
	}
	if brk != m.shownBreak {
		if err := m.app.Timer.SetBreakDuration(brk); err != nil {
			return err
		}
		m.shownBreak = brk
	}
	return nil
}

func trackIndex(tracks []audio.Track, id int) int {
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return 0
}

func lastLines(text string, n int) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
