package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrFallsBackToLog(t *testing.T) {
	var buf bytes.Buffer
	sink := Or(nil, zerolog.New(&buf))

	sink.Notify("hello", time.Second)

	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestOrKeepsSink(t *testing.T) {
	rec := &Recorder{}
	sink := Or(rec, zerolog.Nop())

	sink.Notify("kept", DefaultDuration)

	assert.Equal(t, "kept", rec.Last())
}

func TestChanDropsWhenFull(t *testing.T) {
	c := NewChan(1)
	c.Notify("first", 0)
	c.Notify("second", time.Second)

	n := <-c.C()
	assert.Equal(t, "first", n.Message)
	assert.Equal(t, DefaultDuration, n.Duration)

	select {
	case extra := <-c.C():
		require.Failf(t, "unexpected notice", "got %q", extra.Message)
	default:
	}
}
