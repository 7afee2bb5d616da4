package timer

import (
	"fmt"
	"time"
)

// Kind is the phase of the current session.
type Kind int

const (
	Work Kind = iota
	Break
)

func (k Kind) String() string {
	if k == Break {
		return "break"
	}
	return "work"
}

// Label is the display name of the kind.
func (k Kind) Label() string {
	if k == Break {
		return "Break"
	}
	return "Work"
}

// EventType defines the type of Timer event.
type EventType string

const (
	EventStateChange   EventType = "state_change"
	EventTick          EventType = "tick"
	EventAlert         EventType = "alert"
	EventSessionChange EventType = "session_change"
)

// Alert names the sound the alert collaborator should play.
type Alert string

const (
	AlertAlmostDone Alert = "almost"
	AlertComplete   Alert = "complete"
)

// Snapshot is a read-only view of the timer for display.
type Snapshot struct {
	Kind      Kind
	Remaining int
	Duration  int
	Running   bool
	Progress  float64
	Formatted string
}

// Event represents a Timer update for observers.
type Event struct {
	Type     EventType
	Alert    Alert
	Message  string
	Snapshot Snapshot
	At       time.Time
}

// FormatTime renders seconds as MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
