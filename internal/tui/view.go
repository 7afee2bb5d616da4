package tui

import (
	"fmt"
	"strings"

	"focuspad/internal/notes"
	"focuspad/internal/theme"
	"focuspad/internal/timer"

	"github.com/charmbracelet/lipgloss"
)

const (
	screenWidth   = 80
	screenHeight  = 24
	panelHeight   = 12
	progressWidth = 30
	notesLines    = 8
)

type palette struct {
	accent, highlight, selectedBg, muted, border, running, timer, brk string
}

var palettes = map[theme.Theme]palette{
	theme.Dark: {
		accent: "86", highlight: "170", selectedBg: "235", muted: "241",
		border: "240", running: "82", timer: "69", brk: "214",
	},
	theme.Light: {
		accent: "30", highlight: "127", selectedBg: "254", muted: "245",
		border: "250", running: "28", timer: "25", brk: "166",
	},
}

type styles struct {
	title         lipgloss.Style
	box           lipgloss.Style
	help          lipgloss.Style
	timer         lipgloss.Style
	timerRunning  lipgloss.Style
	work          lipgloss.Style
	brk           lipgloss.Style
	inactive      lipgloss.Style
	running       lipgloss.Style
	item          lipgloss.Style
	itemSelected  lipgloss.Style
	input         lipgloss.Style
	inputInactive lipgloss.Style
	notice        lipgloss.Style
	bar           lipgloss.Style
	barEmpty      lipgloss.Style
}

func newStyles(t theme.Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[theme.Dark]
	}

	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accent)).
			Bold(true).
			Align(lipgloss.Center),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		help:          lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		timer:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.timer)).Bold(true),
		timerRunning:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.running)).Bold(true),
		work:          lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)).Bold(true),
		brk:           lipgloss.NewStyle().Foreground(lipgloss.Color(p.brk)).Bold(true),
		inactive:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.border)),
		running:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.running)).Bold(true),
		item:          lipgloss.NewStyle().Padding(0, 1),
		itemSelected:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.highlight)).Background(lipgloss.Color(p.selectedBg)).Padding(0, 1),
		input:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.highlight)),
		inputInactive: lipgloss.NewStyle().Foreground(lipgloss.Color(p.border)),
		notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.highlight)).
			Bold(true).
			Align(lipgloss.Center),
		bar:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.running)),
		barEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color(p.border)),
	}
}

func progressBar(s styles, pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return s.bar.Render(strings.Repeat("█", filled)) +
		s.barEmpty.Render(strings.Repeat("░", width-filled))
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(m.styles.title.Width(screenWidth).Render("focuspad"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.notice.Width(screenWidth).Render(m.Notice))
	sb.WriteString("\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.timerView(),
		" ",
		m.tracksView(),
	)
	sb.WriteString(top)
	sb.WriteString("\n")
	sb.WriteString(m.notesView())
	sb.WriteString("\n")

	if m.Editing {
		sb.WriteString(m.styles.help.Render("Editing notes | Done: Esc/Tab | Save: Ctrl+S | Clear: Ctrl+D"))
	} else {
		sb.WriteString(m.styles.help.Render("Timer: Space | Reset: r | Durations: e | Notes: Tab | Save: Ctrl+S | Clear: Ctrl+D | Export: x"))
		sb.WriteString("\n")
		sb.WriteString(m.styles.help.Render("Music: m | Track: Up/Down Enter | Cycle: , . | Volume: [ ] | Theme: t | Quit: q"))
	}

	return sb.String()
}

func (m *Model) timerView() string {
	snap := m.app.Timer.Snapshot()
	s := m.styles

	kindStyle := s.work
	if snap.Kind == timer.Break {
		kindStyle = s.brk
	}

	timeStr := s.timer.Render(snap.Formatted)
	status := s.inactive.Render("Paused")
	if snap.Running {
		timeStr = s.timerRunning.Render(snap.Formatted)
		status = s.running.Render("Running")
	}

	work, brk := m.app.Timer.Durations()

	var sb strings.Builder
	sb.WriteString(kindStyle.Render(snap.Kind.Label()))
	sb.WriteString("\n\n")
	sb.WriteString(timeStr)
	sb.WriteString("  ")
	sb.WriteString(status)
	sb.WriteString("\n\n")
	sb.WriteString(progressBar(s, snap.Progress, progressWidth))
	sb.WriteString(fmt.Sprintf(" %3.0f%%\n\n", snap.Progress))
	sb.WriteString(s.help.Render(fmt.Sprintf("Work %s | Break %s",
		timer.FormatTime(work), timer.FormatTime(brk))))

	return s.box.Width(40).Height(panelHeight - 4).Render(sb.String())
}

func (m *Model) tracksView() string {
	s := m.styles
	playback := m.app.Audio.Snapshot()

	var sb strings.Builder
	sb.WriteString("Sounds\n\n")

	for i, t := range m.app.Audio.Tracks() {
		marker := " "
		if t.ID == playback.CurrentID {
			marker = "♪"
		}
		line := fmt.Sprintf("%s %s %s", marker, t.Icon, t.Name)

		if i == m.SelectedTrack {
			sb.WriteString(s.itemSelected.Render(line))
		} else {
			sb.WriteString(s.item.Render(s.inactive.Render(line)))
		}
		sb.WriteString("\n")
	}

	state := s.inactive.Render("Off")
	if playback.Playing {
		state = s.running.Render("On")
	}
	sb.WriteString(fmt.Sprintf("\n%s  Vol %s %3.0f%%",
		state, progressBar(s, playback.Volume*100, 10), playback.Volume*100))

	return s.box.Width(35).Height(panelHeight - 4).Render(sb.String())
}

func (m *Model) notesView() string {
	s := m.styles
	text := m.app.Notes.Text()

	header := "Notes"
	if m.Editing {
		header = s.input.Render("Notes (editing)")
	}

	body := strings.Join(lastLines(text, notesLines), "\n")
	if m.Editing {
		body += s.input.Render("█")
	} else if text == "" {
		body = s.inactive.Render("Press Tab to start writing.")
	}

	counts := s.help.Render(fmt.Sprintf("%d chars | %d words",
		m.app.Notes.CharCount(), m.app.Notes.WordCount()))

	return s.box.Width(screenWidth - 3).Render(header + "\n\n" + body + "\n\n" + counts)
}

func (m *Model) durationFormView() string {
	s := m.styles

	label := func(focus int, name string) string {
		marker := "  "
		if m.InputFocus == focus {
			marker = "→ "
			return s.input.Render(marker + name)
		}
		return s.inputInactive.Render(marker + name)
	}
	value := func(focus int, v string) string {
		if m.InputFocus == focus {
			return s.input.Render(v + "█")
		}
		return v
	}

	form := fmt.Sprintf("%s%s\n\n%s%s",
		label(0, "Work (min): "), value(0, m.WorkInput),
		label(1, "Break (min): "), value(1, m.BreakInput),
	)
	if m.FormErr != nil {
		form += "\n\n" + s.brk.Render(m.FormErr.Error())
	}
	form += "\n\n" + s.help.Render("Tab: Switch | Enter: Save | Esc: Cancel")

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		s.title.Width(50).Render("Session Durations")+"\n\n"+s.box.Width(50).Render(form),
	)
}

func (m *Model) clearConfirmView() string {
	s := m.styles
	body := fmt.Sprintf("%s\n\n%s\n\n%s",
		s.input.Render(notes.ClearPrompt),
		s.help.Render(fmt.Sprintf("%d chars will be removed", m.app.Notes.CharCount())),
		s.help.Render("y: Delete | n/Esc: Keep"),
	)

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		s.box.Width(50).Render(body),
	)
}
