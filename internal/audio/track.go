package audio

// Track is an immutable background sound descriptor.
type Track struct {
	ID          int
	Name        string
	Icon        string
	Description string
	HasAudio    bool
	Resource    string
}

// DefaultTracks is the built-in track list, in cycling order.
func DefaultTracks() []Track {
	return []Track{
		{
			ID:          1,
			Name:        "Lo-Fi beat",
			Icon:        "🎵",
			Description: "Calm background music",
			HasAudio:    true,
			Resource:    "tone://sine/200",
		},
		{
			ID:          2,
			Name:        "Rain",
			Icon:        "🌧️",
			Description: "Rain sounds for focus",
			HasAudio:    true,
			Resource:    "https://assets.mixkit.co/sfx/preview/mixkit-rain-loop-1245.mp3",
		},
		{
			ID:          3,
			Name:        "Coffee shop",
			Icon:        "☕",
			Description: "Cafe background noise",
			HasAudio:    true,
			Resource:    "https://assets.mixkit.co/sfx/preview/mixkit-busy-coffee-shop-1012.mp3",
		},
		{
			ID:          4,
			Name:        "White noise",
			Icon:        "📻",
			Description: "Monotone background sound",
			HasAudio:    true,
			Resource:    "https://assets.mixkit.co/sfx/preview/mixkit-white-noise-1044.mp3",
		},
		{
			ID:          5,
			Name:        "Silence",
			Icon:        "🔇",
			Description: "No sound",
		},
	}
}
