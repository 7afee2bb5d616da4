package timelog

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStampsSortableID(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := New("work", 25*time.Minute, at)
	second := New("break", 5*time.Minute, at.Add(5*time.Minute))

	id, err := ulid.ParseStrict(first.ID)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), id.Time())
	assert.Less(t, first.ID, second.ID)
	assert.Equal(t, "work", first.Kind)
	assert.Equal(t, 25*time.Minute, first.Duration)
}
