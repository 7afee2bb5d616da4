// Package theme persists the dark/light preference.
package theme

import (
	"context"

	"focuspad/internal/notify"
	"focuspad/internal/store"
)

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Load returns the saved theme, defaulting to Dark.
func Load(ctx context.Context, s store.Store) Theme {
	v, err := s.Get(ctx, store.KeyTheme)
	if err != nil || Theme(v) != Light {
		return Dark
	}
	return Light
}

// Toggle flips current, persists the result and announces it. The new theme
// is returned even when saving fails.
func Toggle(ctx context.Context, s store.Store, sink notify.Sink, current Theme) (Theme, error) {
	next := Light
	if current == Light {
		next = Dark
	}

	err := s.Set(ctx, store.KeyTheme, string(next))
	if sink != nil {
		sink.Notify("Theme changed to "+string(next), notify.DefaultDuration)
	}
	return next, err
}
