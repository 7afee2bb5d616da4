// Package app is the composition root: it builds every component from
// configuration and owns their lifetimes.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"focuspad/internal/audio"
	"focuspad/internal/clock"
	"focuspad/internal/config"
	"focuspad/internal/notes"
	"focuspad/internal/notify"
	"focuspad/internal/store"
	"focuspad/internal/store/redis"
	"focuspad/internal/store/sqlite"
	"focuspad/internal/theme"
	"focuspad/internal/timelog"
	"focuspad/internal/timer"

	"github.com/rs/zerolog"
)

const ReadyMessage = "🎯 Ready! Space - timer, M - music, Ctrl+S - save notes"

// History reads and writes completed sessions.
type History interface {
	timelog.Recorder
	timelog.Lister
}

// Options overrides collaborators. Nil fields are built from Config.
type Options struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Sink      notify.Sink
	Player    audio.Player
	Scheduler clock.Scheduler
	Store     store.Store
}

type App struct {
	Timer *timer.Timer
	Notes *notes.Buffer
	Audio *audio.Selector
	Store store.Store

	exportDir string
	history   History
	theme     theme.Theme
	sink      notify.Sink
	logger    zerolog.Logger
}

// New builds the application. A backend that cannot be opened is replaced
// by an in-memory store and the user is told their data will not persist.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	cfg := opts.Config
	logger := opts.Logger
	sink := notify.Or(opts.Sink, logger)

	st := opts.Store
	if st == nil {
		opened, err := OpenStore(cfg.Storage)
		if err != nil {
			logger.Warn().Err(err).Str("type", cfg.Storage.Type).Msg("Storage unavailable, using memory")
			sink.Notify("⚠️ Storage unavailable, changes are kept in memory only", notify.DefaultDuration)
			opened = store.NewMemory()
		}
		st = opened
	}

	history := historyOf(st)

	a := &App{
		Store:     st,
		exportDir: cfg.Notes.ExportDir,
		history:   history,
		sink:      sink,
		logger:    logger,
	}

	a.Timer = timer.New(timer.Config{
		WorkMinutes:  cfg.Timer.WorkMinutes,
		BreakMinutes: cfg.Timer.BreakMinutes,
		Scheduler:    opts.Scheduler,
		Sink:         sink,
		Recorder:     history,
		Logger:       logger,
	})

	a.Notes = notes.New(notes.Config{
		Store:         st,
		Sink:          sink,
		Scheduler:     opts.Scheduler,
		AutosaveDelay: config.ParseDuration(cfg.Notes.AutosaveDelay, time.Second),
		Logger:        logger,
	})
	a.Notes.Load(ctx)

	a.Audio = audio.NewSelector(audio.Config{
		DefaultVolume: cfg.Audio.DefaultVolume,
		Player:        opts.Player,
		Store:         st,
		Sink:          sink,
		Logger:        logger,
	})
	a.Audio.LoadVolume(ctx)
	if tracks := a.Audio.Tracks(); len(tracks) > 0 {
		_ = a.Audio.Select(tracks[0])
	}

	a.theme = theme.Load(ctx, st)

	logger.Info().
		Str("storage", cfg.Storage.Type).
		Int("work_minutes", cfg.Timer.WorkMinutes).
		Int("break_minutes", cfg.Timer.BreakMinutes).
		Msg("focuspad initialized")

	return a, nil
}

// OpenStore opens the configured backend, wrapped in an LRU when a cache
// size is configured.
func OpenStore(cfg config.StorageConfig) (store.Store, error) {
	var backend store.Store
	switch cfg.Type {
	case "memory":
		backend = store.NewMemory()
	case "redis":
		r, err := redis.Open(redis.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			Prefix:       cfg.Redis.Prefix,
			DialTimeout:  config.ParseDuration(cfg.Redis.DialTimeout, 5*time.Second),
			ReadTimeout:  config.ParseDuration(cfg.Redis.ReadTimeout, 3*time.Second),
			WriteTimeout: config.ParseDuration(cfg.Redis.WriteTimeout, 3*time.Second),
		})
		if err != nil {
			return nil, err
		}
		backend = r
	default:
		repo, err := sqlite.NewRepository(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		backend = repo
	}

	if cfg.CacheSize <= 0 {
		return backend, nil
	}
	cached, err := store.NewCached(backend, cfg.CacheSize)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return cached, nil
}

func historyOf(st store.Store) History {
	if c, ok := st.(*store.Cached); ok {
		st = c.Unwrap()
	}
	if h, ok := st.(History); ok {
		return h
	}
	return nil
}

// Greet sends the startup notice.
func (a *App) Greet() {
	a.sink.Notify(ReadyMessage, notify.DefaultDuration)
}

// Notify forwards a message to the notification sink.
func (a *App) Notify(message string, duration time.Duration) {
	a.sink.Notify(message, duration)
}

// ExportNotes writes the notes file into dir, or the configured export
// directory when dir is empty.
func (a *App) ExportNotes(dir string) (string, error) {
	if dir == "" {
		dir = a.exportDir
	}
	path, err := a.Notes.ExportTo(dir)
	if err != nil {
		a.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to export notes")
		a.sink.Notify("❌ failed to export notes", notify.DefaultDuration)
		return "", err
	}
	a.sink.Notify("📄 Notes exported: "+filepath.Base(path), notify.DefaultDuration)
	return path, nil
}

func (a *App) Theme() theme.Theme {
	return a.theme
}

func (a *App) ToggleTheme(ctx context.Context) {
	next, err := theme.Toggle(ctx, a.Store, a.sink, a.theme)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Failed to save theme")
	}
	a.theme = next
}

// RecentSessions lists completed sessions, newest first. It returns nil when
// the backend keeps no history.
func (a *App) RecentSessions(ctx context.Context, limit int) ([]timelog.TimeLog, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.RecentLogs(ctx, limit)
}

// Close flushes pending writes and releases the store.
func (a *App) Close() error {
	a.Notes.Close()
	a.Timer.Close()
	return a.Store.Close()
}
