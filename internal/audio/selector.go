// Package audio selects background tracks and tracks playback state and
// volume. Producing sound is delegated to a Player.
package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"focuspad/internal/metrics"
	"focuspad/internal/notify"
	"focuspad/internal/store"

	"github.com/rs/zerolog"
)

const (
	DefaultVolume = 0.3
	VolumeStep    = 0.1
)

var (
	ErrUnknownTrack  = errors.New("audio: unknown track")
	ErrInvalidVolume = errors.New("audio: volume is not a number")
)

// Playback is a snapshot of the selection.
type Playback struct {
	CurrentID int
	Volume    float64
	Playing   bool
}

type Config struct {
	Tracks []Track
	// DefaultVolume applies until a saved volume is loaded. Values outside
	// (0,1] fall back to the package default.
	DefaultVolume float64
	Player        Player
	Store         store.Store
	Sink          notify.Sink
	Logger        zerolog.Logger
}

// Selector owns the current track, play state and volume. Playing is never
// true while the current track has no audio.
type Selector struct {
	mu       sync.Mutex
	tracks   []Track
	current  int
	volume   float64
	playing  bool
	player   Player
	store    store.Store
	sink     notify.Sink
	logger   zerolog.Logger
	onChange func(Playback)
}

func NewSelector(cfg Config) *Selector {
	if len(cfg.Tracks) == 0 {
		cfg.Tracks = DefaultTracks()
	}
	logger := cfg.Logger.With().Str("component", "audio").Logger()
	if cfg.Player == nil {
		cfg.Player = LogPlayer{Logger: logger}
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemory()
	}
	if cfg.DefaultVolume <= 0 || cfg.DefaultVolume > 1 {
		cfg.DefaultVolume = DefaultVolume
	}

	return &Selector{
		tracks:  append([]Track(nil), cfg.Tracks...),
		current: -1,
		volume:  cfg.DefaultVolume,
		player:  cfg.Player,
		store:   cfg.Store,
		sink:    notify.Or(cfg.Sink, logger),
		logger:  logger,
	}
}

// OnChange registers a display hook called after every volume change.
func (s *Selector) OnChange(fn func(Playback)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Selector) Tracks() []Track {
	return append([]Track(nil), s.tracks...)
}

// Current returns the selected track, if any.
func (s *Selector) Current() (Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 {
		return Track{}, false
	}
	return s.tracks[s.current], true
}

func (s *Selector) Snapshot() Playback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Select makes track current. Tracks without audio stop playback.
func (s *Selector) Select(track Track) error {
	s.mu.Lock()
	idx := s.indexLocked(track.ID)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownTrack, track.ID)
	}
	notices := s.selectLocked(idx)
	s.mu.Unlock()

	s.notify(notices...)
	return nil
}

// Toggle pauses track if it is current and playing, otherwise selects it and
// starts playback.
func (s *Selector) Toggle(track Track) error {
	s.mu.Lock()
	idx := s.indexLocked(track.ID)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownTrack, track.ID)
	}

	var notices []string
	if idx == s.current && s.playing {
		notices = s.pauseLocked()
	} else {
		if idx != s.current {
			notices = s.selectLocked(idx)
		}
		notices = append(notices, s.playLocked()...)
	}
	s.mu.Unlock()

	s.notify(notices...)
	return nil
}

func (s *Selector) Play() {
	s.mu.Lock()
	notices := s.playLocked()
	s.mu.Unlock()
	s.notify(notices...)
}

func (s *Selector) Pause() {
	s.mu.Lock()
	notices := s.pauseLocked()
	s.mu.Unlock()
	s.notify(notices...)
}

func (s *Selector) TogglePlayback() {
	s.mu.Lock()
	var notices []string
	if s.playing {
		notices = s.pauseLocked()
	} else {
		notices = s.playLocked()
	}
	s.mu.Unlock()
	s.notify(notices...)
}

// CycleNext selects the next track in list order, wrapping to the first.
func (s *Selector) CycleNext() {
	s.cycle(1)
}

// CyclePrevious selects the previous track, wrapping to the last.
func (s *Selector) CyclePrevious() {
	s.cycle(-1)
}

func (s *Selector) cycle(step int) {
	s.mu.Lock()
	n := len(s.tracks)
	var idx int
	switch {
	case s.current < 0 && step > 0:
		idx = 0
	case s.current < 0:
		idx = n - 1
	default:
		idx = ((s.current+step)%n + n) % n
	}
	notices := s.selectLocked(idx)
	s.mu.Unlock()

	s.notify(notices...)
}

// SetVolume clamps v to [0,1] and persists it immediately.
func (s *Selector) SetVolume(ctx context.Context, v float64) error {
	if math.IsNaN(v) {
		return ErrInvalidVolume
	}
	v = math.Max(0, math.Min(1, v))

	s.mu.Lock()
	s.volume = v
	s.player.SetVolume(v)
	snapshot := s.snapshotLocked()
	onChange := s.onChange
	s.mu.Unlock()

	metrics.Volume.Set(v)
	if onChange != nil {
		onChange(snapshot)
	}

	if err := s.store.Set(ctx, store.KeyVolume, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
		metrics.StorageErrors.WithLabelValues("audio").Inc()
		s.logger.Error().Err(err).Float64("volume", v).Msg("Failed to save volume")
		s.sink.Notify("❌ failed to save volume", notify.ShortDuration)
		return err
	}
	return nil
}

// StepVolume changes the volume by delta.
func (s *Selector) StepVolume(ctx context.Context, delta float64) error {
	s.mu.Lock()
	v := s.volume + delta
	s.mu.Unlock()

	// Round away float drift from repeated 0.1 steps.
	return s.SetVolume(ctx, math.Round(v*100)/100)
}

// LoadVolume restores the persisted volume. Missing or unparsable values
// keep the current volume.
func (s *Selector) LoadVolume(ctx context.Context) {
	raw, err := s.store.Get(ctx, store.KeyVolume)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		metrics.StorageErrors.WithLabelValues("audio").Inc()
		s.logger.Warn().Err(err).Msg("Failed to load volume")
		return
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		s.logger.Warn().Str("value", raw).Msg("Ignoring invalid saved volume")
		return
	}
	_ = s.SetVolume(ctx, v)
}

func (s *Selector) selectLocked(idx int) []string {
	s.current = idx
	track := s.tracks[idx]
	s.logger.Debug().Str("track", track.Name).Msg("Track selected")

	if !track.HasAudio {
		return append(s.pauseLocked(), fmt.Sprintf("%s %s", track.Icon, track.Name))
	}

	notices := []string{fmt.Sprintf("🎵 Now playing: %s", track.Name)}
	if s.playing {
		if err := s.player.Play(track, s.volume); err != nil {
			s.playing = false
			s.logger.Error().Err(err).Str("track", track.Name).Msg("Playback failed")
			notices = append(notices, "❌ Failed to play music")
		}
	}
	return notices
}

func (s *Selector) playLocked() []string {
	if s.current < 0 || !s.tracks[s.current].HasAudio {
		s.logger.Debug().Msg("There is no track to play")
		return nil
	}

	track := s.tracks[s.current]
	if err := s.player.Play(track, s.volume); err != nil {
		s.playing = false
		s.logger.Error().Err(err).Str("track", track.Name).Msg("Playback failed")
		return []string{"❌ Failed to play music"}
	}
	s.playing = true
	return []string{"▶️ Music on"}
}

func (s *Selector) pauseLocked() []string {
	s.player.Pause()
	s.playing = false
	return []string{"⏸️ Music off"}
}

func (s *Selector) indexLocked(id int) int {
	for i, t := range s.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Selector) snapshotLocked() Playback {
	p := Playback{Volume: s.volume, Playing: s.playing}
	if s.current >= 0 {
		p.CurrentID = s.tracks[s.current].ID
	}
	return p
}

func (s *Selector) notify(messages ...string) {
	for _, m := range messages {
		s.sink.Notify(m, notify.ShortDuration)
	}
}
