package audio

import (
	"context"
	"errors"
	"math"
	"testing"

	"focuspad/internal/notify"
	"focuspad/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	playing string
	volume  float64
	plays   int
	pauses  int
	fail    error
}

func (p *fakePlayer) Play(track Track, volume float64) error {
	if p.fail != nil {
		return p.fail
	}
	p.plays++
	p.playing = track.Name
	p.volume = volume
	return nil
}

func (p *fakePlayer) Pause() {
	p.pauses++
	p.playing = ""
}

func (p *fakePlayer) SetVolume(volume float64) {
	p.volume = volume
}

type failingStore struct {
	*store.Memory
}

func (f failingStore) Set(_ context.Context, key, _ string) error {
	return store.Wrap("set", key, errors.New("quota exceeded"))
}

type fixture struct {
	sel    *Selector
	player *fakePlayer
	store  *store.Memory
	sink   *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		player: &fakePlayer{},
		store:  store.NewMemory(),
		sink:   &notify.Recorder{},
	}
	f.sel = NewSelector(Config{
		Player: f.player,
		Store:  f.store,
		Sink:   f.sink,
		Logger: zerolog.Nop(),
	})
	return f
}

func track(id int) Track {
	return DefaultTracks()[id-1]
}

func TestSelectAudioTrack(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sel.Select(track(2)))

	p := f.sel.Snapshot()
	assert.Equal(t, 2, p.CurrentID)
	assert.False(t, p.Playing)
	assert.Equal(t, 0, f.player.plays)
	assert.Equal(t, "🎵 Now playing: Rain", f.sink.Last())
}

func TestSelectSilentTrackStopsPlayback(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sel.Toggle(track(2)))
	require.True(t, f.sel.Snapshot().Playing)

	require.NoError(t, f.sel.Select(track(5)))

	p := f.sel.Snapshot()
	assert.Equal(t, 5, p.CurrentID)
	assert.False(t, p.Playing)
	assert.Equal(t, "", f.player.playing)
	msgs := f.sink.Messages()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, []string{"⏸️ Music off", "🔇 Silence"}, msgs[len(msgs)-2:])
}

func TestSelectWhilePlayingSwitchesTrack(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sel.Toggle(track(2)))

	require.NoError(t, f.sel.Select(track(3)))

	assert.True(t, f.sel.Snapshot().Playing)
	assert.Equal(t, "Coffee shop", f.player.playing)
}

func TestSelectUnknownTrack(t *testing.T) {
	f := newFixture(t)
	err := f.sel.Select(Track{ID: 42})
	assert.ErrorIs(t, err, ErrUnknownTrack)
	err = f.sel.Toggle(Track{ID: 42})
	assert.ErrorIs(t, err, ErrUnknownTrack)
}

func TestToggle(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sel.Toggle(track(3)))
	assert.True(t, f.sel.Snapshot().Playing)
	assert.Equal(t, []string{"🎵 Now playing: Coffee shop", "▶️ Music on"}, f.sink.Messages())

	require.NoError(t, f.sel.Toggle(track(3)))
	assert.False(t, f.sel.Snapshot().Playing)
	assert.Equal(t, "⏸️ Music off", f.sink.Last())

	require.NoError(t, f.sel.Toggle(track(3)))
	assert.True(t, f.sel.Snapshot().Playing)
	assert.Equal(t, 2, f.player.plays)
}

func TestToggleSilentTrackNeverPlays(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sel.Toggle(track(5)))

	assert.False(t, f.sel.Snapshot().Playing)
	assert.Equal(t, 0, f.player.plays)
}

func TestPlaybackFailure(t *testing.T) {
	f := newFixture(t)
	f.player.fail = errors.New("no output device")

	require.NoError(t, f.sel.Toggle(track(2)))

	assert.False(t, f.sel.Snapshot().Playing)
	assert.Equal(t, "❌ Failed to play music", f.sink.Last())
}

func TestTogglePlayback(t *testing.T) {
	f := newFixture(t)

	f.sel.TogglePlayback()
	assert.False(t, f.sel.Snapshot().Playing)

	require.NoError(t, f.sel.Select(track(4)))
	f.sel.TogglePlayback()
	assert.True(t, f.sel.Snapshot().Playing)
	f.sel.TogglePlayback()
	assert.False(t, f.sel.Snapshot().Playing)
}

func TestCycleWraps(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sel.Select(track(5)))

	f.sel.CycleNext()
	assert.Equal(t, 1, f.sel.Snapshot().CurrentID)

	f.sel.CyclePrevious()
	assert.Equal(t, 5, f.sel.Snapshot().CurrentID)

	f.sel.CyclePrevious()
	assert.Equal(t, 4, f.sel.Snapshot().CurrentID)
}

func TestCycleWithoutSelection(t *testing.T) {
	f := newFixture(t)
	f.sel.CycleNext()
	assert.Equal(t, 1, f.sel.Snapshot().CurrentID)

	g := newFixture(t)
	g.sel.CyclePrevious()
	assert.Equal(t, 5, g.sel.Snapshot().CurrentID)
}

func TestSetVolumeClampsAndPersists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var seen []Playback
	f.sel.OnChange(func(p Playback) { seen = append(seen, p) })

	require.NoError(t, f.sel.SetVolume(ctx, 1.5))
	assert.Equal(t, 1.0, f.sel.Snapshot().Volume)
	v, err := f.store.Get(ctx, store.KeyVolume)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, f.sel.SetVolume(ctx, -0.2))
	assert.Equal(t, 0.0, f.sel.Snapshot().Volume)
	assert.Equal(t, 0.0, f.player.volume)

	require.Len(t, seen, 2)
	assert.Equal(t, 0.0, seen[1].Volume)
}

func TestSetVolumeRejectsNaN(t *testing.T) {
	f := newFixture(t)
	err := f.sel.SetVolume(context.Background(), math.NaN())
	assert.ErrorIs(t, err, ErrInvalidVolume)
	assert.Equal(t, DefaultVolume, f.sel.Snapshot().Volume)
}

func TestSetVolumeStorageFailure(t *testing.T) {
	sink := &notify.Recorder{}
	sel := NewSelector(Config{
		Store:  failingStore{Memory: store.NewMemory()},
		Sink:   sink,
		Player: &fakePlayer{},
		Logger: zerolog.Nop(),
	})

	err := sel.SetVolume(context.Background(), 0.8)

	assert.ErrorIs(t, err, store.ErrStorage)
	assert.Equal(t, 0.8, sel.Snapshot().Volume)
	assert.Equal(t, "❌ failed to save volume", sink.Last())
}

func TestStepVolume(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.sel.StepVolume(ctx, VolumeStep))
	}
	assert.Equal(t, 0.6, f.sel.Snapshot().Volume)

	for i := 0; i < 10; i++ {
		require.NoError(t, f.sel.StepVolume(ctx, -VolumeStep))
	}
	assert.Equal(t, 0.0, f.sel.Snapshot().Volume)
}

func TestLoadVolume(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	f.sel.LoadVolume(ctx)
	assert.Equal(t, DefaultVolume, f.sel.Snapshot().Volume)

	require.NoError(t, f.store.Set(ctx, store.KeyVolume, "0.75"))
	f.sel.LoadVolume(ctx)
	assert.Equal(t, 0.75, f.sel.Snapshot().Volume)

	require.NoError(t, f.store.Set(ctx, store.KeyVolume, "loud"))
	f.sel.LoadVolume(ctx)
	assert.Equal(t, 0.75, f.sel.Snapshot().Volume)

	require.NoError(t, f.store.Set(ctx, store.KeyVolume, "7"))
	f.sel.LoadVolume(ctx)
	assert.Equal(t, 1.0, f.sel.Snapshot().Volume)
}

func TestDefaultTracksHaveUniqueIDs(t *testing.T) {
	seen := map[int]bool{}
	for _, tr := range DefaultTracks() {
		assert.Positive(t, tr.ID)
		assert.False(t, seen[tr.ID])
		seen[tr.ID] = true
		assert.Equal(t, tr.HasAudio, tr.Resource != "")
	}
}
