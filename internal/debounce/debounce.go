// Package debounce coalesces bursts of updates into a single delayed write.
package debounce

import (
	"sync"
	"time"

	"focuspad/internal/clock"
)

// DefaultDelay is the quiet period used by notes autosave.
const DefaultDelay = time.Second

// Writer delivers the latest value passed to Notify once no further Notify
// has arrived for the quiet period. Writes run on the scheduler's goroutine.
type Writer[T any] struct {
	mu      sync.Mutex
	sched   clock.Scheduler
	delay   time.Duration
	write   func(T)
	value   T
	seq     uint64
	pending bool
	handle  clock.Handle
}

func New[T any](sched clock.Scheduler, delay time.Duration, write func(T)) *Writer[T] {
	if sched == nil {
		sched = clock.Real{}
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Writer[T]{sched: sched, delay: delay, write: write}
}

// Notify replaces the pending value and restarts the quiet period.
func (w *Writer[T]) Notify(value T) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handle != nil {
		w.handle.Stop()
	}
	w.value = value
	w.pending = true
	w.seq++
	seq := w.seq
	w.handle = w.sched.After(w.delay, func() { w.fire(seq) })
}

// Flush writes the pending value now, if any.
func (w *Writer[T]) Flush() {
	w.mu.Lock()
	value, ok := w.takeLocked()
	w.mu.Unlock()

	if ok {
		w.write(value)
	}
}

// Cancel drops the pending value without writing it.
func (w *Writer[T]) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.takeLocked()
}

// Pending reports whether a write is scheduled.
func (w *Writer[T]) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

func (w *Writer[T]) fire(seq uint64) {
	w.mu.Lock()
	if seq != w.seq || !w.pending {
		w.mu.Unlock()
		return
	}
	value, _ := w.takeLocked()
	w.mu.Unlock()

	w.write(value)
}

func (w *Writer[T]) takeLocked() (T, bool) {
	var zero T
	if !w.pending {
		return zero, false
	}
	value := w.value
	w.value = zero
	w.pending = false
	w.seq++
	if w.handle != nil {
		w.handle.Stop()
		w.handle = nil
	}
	return value, true
}
