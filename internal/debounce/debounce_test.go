package debounce

import (
	"sync"
	"testing"
	"time"

	"focuspad/internal/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	value string
	at    time.Duration
}

func setup() (*clock.Fake, *[]write, func(string)) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := clock.NewFake(start)
	var writes []write
	fn := func(v string) {
		writes = append(writes, write{value: v, at: fake.Now().Sub(start)})
	}
	return fake, &writes, fn
}

func TestCoalescesBurstIntoOneWrite(t *testing.T) {
	fake, writes, fn := setup()
	w := New(fake, time.Second, fn)

	w.Notify("a")
	fake.Advance(200 * time.Millisecond)
	w.Notify("ab")
	fake.Advance(200 * time.Millisecond)
	w.Notify("abc")

	fake.Advance(999 * time.Millisecond)
	assert.Empty(t, *writes)

	fake.Advance(time.Millisecond)
	require.Len(t, *writes, 1)
	assert.Equal(t, "abc", (*writes)[0].value)
	assert.Equal(t, 1400*time.Millisecond, (*writes)[0].at)

	fake.Advance(10 * time.Second)
	assert.Len(t, *writes, 1)
	assert.False(t, w.Pending())
}

func TestSeparateQuietPeriodsWriteSeparately(t *testing.T) {
	fake, writes, fn := setup()
	w := New(fake, time.Second, fn)

	w.Notify("first")
	fake.Advance(2 * time.Second)
	w.Notify("second")
	fake.Advance(2 * time.Second)

	require.Len(t, *writes, 2)
	assert.Equal(t, "first", (*writes)[0].value)
	assert.Equal(t, "second", (*writes)[1].value)
}

func TestFlushWritesImmediatelyOnce(t *testing.T) {
	fake, writes, fn := setup()
	w := New(fake, time.Second, fn)

	w.Notify("draft")
	assert.True(t, w.Pending())
	w.Flush()
	fake.Advance(5 * time.Second)

	require.Len(t, *writes, 1)
	assert.Equal(t, time.Duration(0), (*writes)[0].at)

	w.Flush()
	assert.Len(t, *writes, 1)
}

func TestCancelDropsPendingValue(t *testing.T) {
	fake, writes, fn := setup()
	w := New(fake, time.Second, fn)

	w.Notify("discard me")
	w.Cancel()
	fake.Advance(5 * time.Second)

	assert.Empty(t, *writes)
	assert.Equal(t, 0, fake.Pending())
}

func TestDefaultsApplied(t *testing.T) {
	w := New[int](nil, 0, func(int) {})
	assert.Equal(t, DefaultDelay, w.delay)
	assert.IsType(t, clock.Real{}, w.sched)
}

func TestRealSchedulerWritesLatest(t *testing.T) {
	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	w := New(clock.Real{}, 20*time.Millisecond, func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		close(done)
	})

	for i := 1; i <= 5; i++ {
		w.Notify(i)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced write never happened")
	}

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{5}, got)
}
