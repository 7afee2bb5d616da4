// Package clock provides cancellable time-based scheduling so components can
// run against the wall clock in production and a virtual clock in tests.
package clock

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Stop prevents any further invocation of the callback. It is safe to
	// call more than once.
	Stop()
}

// Scheduler schedules repeating and one-shot callbacks.
type Scheduler interface {
	Now() time.Time
	Every(interval time.Duration, fn func()) Handle
	After(delay time.Duration, fn func()) Handle
}

// Real schedules callbacks on the system clock. Callbacks run on their own
// goroutine.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) Every(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{stopChan: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return h
}

func (Real) After(delay time.Duration, fn func()) Handle {
	return &timerHandle{t: time.AfterFunc(delay, fn)}
}

type tickerHandle struct {
	once     sync.Once
	stopChan chan struct{}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() { close(h.stopChan) })
}

type timerHandle struct {
	t *time.Timer
}

func (h *timerHandle) Stop() {
	h.t.Stop()
}
