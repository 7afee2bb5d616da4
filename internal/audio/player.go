package audio

import "github.com/rs/zerolog"

// Player produces sound for a track. Decoding and output live outside this
// package; the selector only tells the player what to do.
type Player interface {
	Play(track Track, volume float64) error
	Pause()
	SetVolume(volume float64)
}

// LogPlayer is a silent Player that records its instructions in the log.
type LogPlayer struct {
	Logger zerolog.Logger
}

func (p LogPlayer) Play(track Track, volume float64) error {
	p.Logger.Debug().Str("track", track.Name).Str("resource", track.Resource).Float64("volume", volume).Msg("play")
	return nil
}

func (p LogPlayer) Pause() {
	p.Logger.Debug().Msg("pause")
}

func (p LogPlayer) SetVolume(volume float64) {
	p.Logger.Debug().Float64("volume", volume).Msg("volume")
}
