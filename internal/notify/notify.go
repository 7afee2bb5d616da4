// Package notify carries user-visible notices from components to whatever
// surface is able to show them.
package notify

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultDuration is how long a notice stays visible unless a component
	// asks otherwise.
	DefaultDuration = 3 * time.Second

	// ShortDuration is used for audio notices.
	ShortDuration = 2 * time.Second
)

// Sink shows a message to the user for roughly duration.
type Sink interface {
	Notify(message string, duration time.Duration)
}

// Notice is a single message delivered to a Sink.
type Notice struct {
	Message  string
	Duration time.Duration
	At       time.Time
}

// Func adapts a function to Sink.
type Func func(message string, duration time.Duration)

func (f Func) Notify(message string, duration time.Duration) {
	f(message, duration)
}

// Log writes notices to a logger. It is the fallback when no surface is
// attached.
type Log struct {
	Logger zerolog.Logger
}

func (l Log) Notify(message string, duration time.Duration) {
	l.Logger.Info().Dur("duration", duration).Msg(message)
}

// Or returns sink, or a Log sink on logger when sink is nil.
func Or(sink Sink, logger zerolog.Logger) Sink {
	if sink == nil {
		return Log{Logger: logger}
	}
	return sink
}

// Chan forwards notices to a buffered channel. Notices are dropped when the
// reader falls behind.
type Chan struct {
	ch chan Notice
}

// NewChan creates a Chan with the given buffer size.
func NewChan(buffer int) *Chan {
	if buffer <= 0 {
		buffer = 1
	}
	return &Chan{ch: make(chan Notice, buffer)}
}

func (c *Chan) Notify(message string, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultDuration
	}
	select {
	case c.ch <- Notice{Message: message, Duration: duration, At: time.Now()}:
	default:
	}
}

// C returns the receive side of the channel.
func (c *Chan) C() <-chan Notice {
	return c.ch
}

// Recorder keeps every notice in memory. Tests use it to assert on messages.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Notify(message string, duration time.Duration) {
	r.Notices = append(r.Notices, Notice{Message: message, Duration: duration})
}

// Last returns the most recent message, or "" if none was recorded.
func (r *Recorder) Last() string {
	if len(r.Notices) == 0 {
		return ""
	}
	return r.Notices[len(r.Notices)-1].Message
}

// Messages returns all recorded messages in order.
func (r *Recorder) Messages() []string {
	out := make([]string, len(r.Notices))
	for i, n := range r.Notices {
		out[i] = n.Message
	}
	return out
}
