package timer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"focuspad/internal/clock"
	"focuspad/internal/metrics"
	"focuspad/internal/notify"
	"focuspad/internal/timelog"

	"github.com/rs/zerolog"
)

const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5

	// almostDoneAt is the remaining second count that triggers the warning alert.
	almostDoneAt = 10

	WorkMessage  = "⏰ Worktime! Focus!"
	BreakMessage = "🎉 Break! Time to chill"
)

// ErrInvalidDuration is returned for durations that are not a positive whole
// number of minutes. The timer keeps its previous duration.
var ErrInvalidDuration = errors.New("timer: duration must be a positive number of minutes")

// Config wires a Timer to its collaborators. Zero values get defaults.
type Config struct {
	WorkMinutes  int
	BreakMinutes int
	Scheduler    clock.Scheduler
	Sink         notify.Sink
	Recorder     timelog.Recorder
	Logger       zerolog.Logger
}

// Timer is the work/break countdown state machine. States are the product of
// Kind and the running flag; reaching zero flips the kind and keeps the flag.
type Timer struct {
	mu            sync.Mutex
	kind          Kind
	remaining     int
	workDuration  int
	breakDuration int
	running       bool
	gen           uint64
	handle        clock.Handle

	sched    clock.Scheduler
	sink     notify.Sink
	recorder timelog.Recorder
	logger   zerolog.Logger
	events   []chan Event
}

func New(cfg Config) *Timer {
	if cfg.WorkMinutes <= 0 {
		cfg.WorkMinutes = DefaultWorkMinutes
	}
	if cfg.BreakMinutes <= 0 {
		cfg.BreakMinutes = DefaultBreakMinutes
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = clock.Real{}
	}
	logger := cfg.Logger.With().Str("component", "timer").Logger()

	t := &Timer{
		kind:          Work,
		workDuration:  cfg.WorkMinutes * 60,
		breakDuration: cfg.BreakMinutes * 60,
		sched:         cfg.Scheduler,
		sink:          notify.Or(cfg.Sink, logger),
		recorder:      cfg.Recorder,
		logger:        logger,
	}
	t.remaining = t.workDuration
	return t
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (t *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	t.mu.Lock()
	t.events = append(t.events, ch)
	t.mu.Unlock()
	return ch
}

func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}

	t.running = true
	t.gen++
	gen := t.gen
	t.handle = t.sched.Every(time.Second, func() { t.scheduledTick(gen) })
	t.logger.Debug().Str("kind", t.kind.String()).Int("remaining", t.remaining).Msg("Timer started")

	t.emitLocked(Event{Type: EventStateChange})
}

func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.stopLocked()
	t.logger.Debug().Int("remaining", t.remaining).Msg("Timer paused")

	t.emitLocked(Event{Type: EventStateChange})
}

// Toggle starts a stopped timer and pauses a running one.
func (t *Timer) Toggle() {
	if t.Running() {
		t.Pause()
	} else {
		t.Start()
	}
}

// Reset stops the timer and returns to a full work session.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.kind = Work
	t.remaining = t.workDuration
	t.logger.Debug().Msg("Timer reset")

	t.emitLocked(Event{Type: EventStateChange})
}

// Tick advances the countdown by one second. It is normally driven by the
// scheduler while running.
func (t *Timer) Tick() {
	t.mu.Lock()
	completed, message := t.tickLocked()
	t.mu.Unlock()

	t.afterTick(completed, message)
}

func (t *Timer) scheduledTick(gen uint64) {
	t.mu.Lock()
	if !t.running || gen != t.gen {
		t.mu.Unlock()
		return
	}
	completed, message := t.tickLocked()
	t.mu.Unlock()

	t.afterTick(completed, message)
}

func (t *Timer) tickLocked() (*timelog.TimeLog, string) {
	metrics.TimerTicks.Inc()

	if t.remaining > 0 {
		t.remaining--
		t.emitLocked(Event{Type: EventTick})
		if t.remaining == almostDoneAt {
			t.emitLocked(Event{Type: EventAlert, Alert: AlertAlmostDone})
		}
		return nil, ""
	}

	t.emitLocked(Event{Type: EventAlert, Alert: AlertComplete})

	finished := t.kind
	log := timelog.New(finished.String(), time.Duration(t.durationLocked())*time.Second, t.sched.Now())
	metrics.SessionsCompleted.WithLabelValues(finished.String()).Inc()

	if t.kind == Work {
		t.kind = Break
	} else {
		t.kind = Work
	}
	t.remaining = t.durationLocked()

	message := WorkMessage
	if t.kind == Break {
		message = BreakMessage
	}
	t.logger.Info().Str("from", finished.String()).Str("to", t.kind.String()).Msg("Session switched")
	t.emitLocked(Event{Type: EventSessionChange, Message: message})

	return &log, message
}

func (t *Timer) afterTick(completed *timelog.TimeLog, message string) {
	if completed == nil {
		return
	}

	t.sink.Notify(message, notify.DefaultDuration)

	if t.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := t.recorder.CreateLog(ctx, *completed); err != nil {
		metrics.StorageErrors.WithLabelValues("timer").Inc()
		t.logger.Warn().Err(err).Msg("Failed to record session")
	}
}

// SetWorkDuration changes the work length. A stopped work session restarts
// its countdown at the new length, discarding partial progress.
func (t *Timer) SetWorkDuration(minutes int) error {
	return t.setDuration(Work, minutes)
}

// SetBreakDuration is the Break counterpart of SetWorkDuration.
func (t *Timer) SetBreakDuration(minutes int) error {
	return t.setDuration(Break, minutes)
}

func (t *Timer) setDuration(kind Kind, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, minutes)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if kind == Work {
		t.workDuration = minutes * 60
	} else {
		t.breakDuration = minutes * 60
	}
	if !t.running && t.kind == kind {
		t.remaining = t.durationLocked()
	}

	t.emitLocked(Event{Type: EventStateChange})
	return nil
}

// ParseMinutes validates user input for a duration field.
func ParseMinutes(input string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
	}
	return minutes, nil
}

// ProgressPercentage reports how much of the current session has elapsed.
func (t *Timer) ProgressPercentage() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progressLocked()
}

func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) Kind() Kind {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.kind
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Durations returns the configured work and break lengths in seconds.
func (t *Timer) Durations() (work, brk int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.workDuration, t.breakDuration
}

// Close stops the timer and closes every observer channel.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	for _, ch := range t.events {
		close(ch)
	}
	t.events = nil
}

func (t *Timer) stopLocked() {
	t.running = false
	t.gen++
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
}

func (t *Timer) durationLocked() int {
	if t.kind == Break {
		return t.breakDuration
	}
	return t.workDuration
}

func (t *Timer) progressLocked() float64 {
	total := t.durationLocked()
	if total <= 0 {
		return 0
	}
	return float64(total-t.remaining) / float64(total) * 100
}

func (t *Timer) snapshotLocked() Snapshot {
	return Snapshot{
		Kind:      t.kind,
		Remaining: t.remaining,
		Duration:  t.durationLocked(),
		Running:   t.running,
		Progress:  t.progressLocked(),
		Formatted: FormatTime(t.remaining),
	}
}

func (t *Timer) emitLocked(event Event) {
	event.Snapshot = t.snapshotLocked()
	event.At = t.sched.Now()
	for _, ch := range t.events {
		select {
		case ch <- event:
		default:
		}
	}
}
