// Package notes holds the plain-text notes pad: an in-memory document with
// debounced autosave, explicit saves, two-phase clearing and export.
package notes

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"focuspad/internal/clock"
	"focuspad/internal/debounce"
	"focuspad/internal/metrics"
	"focuspad/internal/notify"
	"focuspad/internal/store"

	"github.com/rs/zerolog"
)

const (
	ClearPrompt = "Delete all notes?"

	msgCleared      = "Notes cleared"
	msgSaved        = "Notes saved"
	msgGreat        = "Great notes! 💡"
	msgAlreadyEmpty = "Notes are already empty"
	msgDeleted      = "Notes deleted"
	msgSaveFailed   = "❌ failed to save notes"
	msgClearFailed  = "❌ failed to clear notes"
	msgLoadFailed   = "❌ failed to load notes"

	writeTimeout = 2 * time.Second
)

type Config struct {
	Store         store.Store
	Sink          notify.Sink
	Scheduler     clock.Scheduler
	AutosaveDelay time.Duration
	Logger        zerolog.Logger
}

// Buffer owns the note document.
type Buffer struct {
	mu   sync.Mutex
	text string

	// saveMu orders every write to the store so an older autosave can
	// never land after a newer save or a clear.
	saveMu sync.Mutex

	store    store.Store
	sink     notify.Sink
	sched    clock.Scheduler
	autosave *debounce.Writer[string]
	logger   zerolog.Logger
}

func New(cfg Config) *Buffer {
	if cfg.Scheduler == nil {
		cfg.Scheduler = clock.Real{}
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemory()
	}
	logger := cfg.Logger.With().Str("component", "notes").Logger()

	b := &Buffer{
		store:  cfg.Store,
		sink:   notify.Or(cfg.Sink, logger),
		sched:  cfg.Scheduler,
		logger: logger,
	}
	b.autosave = debounce.New(cfg.Scheduler, cfg.AutosaveDelay, b.autosaveWrite)
	return b
}

// Load replaces the buffer with the persisted notes. A read failure leaves
// the buffer empty and is reported to the sink.
func (b *Buffer) Load(ctx context.Context) {
	text, err := b.store.Get(ctx, store.KeyNotes)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		metrics.StorageErrors.WithLabelValues("notes").Inc()
		b.logger.Warn().Err(err).Msg("Failed to load notes")
		b.sink.Notify(msgLoadFailed, notify.DefaultDuration)
		text = ""
	}

	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
}

// SetText updates the document and schedules an autosave.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()

	b.autosave.Notify(text)
}

// SaveNow persists the document immediately and reports the outcome.
func (b *Buffer) SaveNow(ctx context.Context) {
	b.autosave.Cancel()

	b.saveMu.Lock()
	defer b.saveMu.Unlock()

	text := b.Text()
	if err := b.persist(ctx, text, "manual"); err != nil {
		b.sink.Notify(msgSaveFailed, notify.DefaultDuration)
		return
	}
	b.sink.Notify(SaveMessage(utf8.RuneCountInString(text)), notify.DefaultDuration)
}

func (b *Buffer) autosaveWrite(text string) {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()

	// Superseded by a later edit, save or clear.
	if b.Text() != text {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := b.persist(ctx, text, "auto"); err != nil {
		b.sink.Notify(msgSaveFailed, notify.DefaultDuration)
	}
}

// persist must be called with saveMu held.
func (b *Buffer) persist(ctx context.Context, text, trigger string) error {
	if err := b.store.Set(ctx, store.KeyNotes, text); err != nil {
		metrics.StorageErrors.WithLabelValues("notes").Inc()
		b.logger.Error().Err(err).Str("trigger", trigger).Msg("Failed to save notes")
		return err
	}
	metrics.NotesSaves.WithLabelValues(trigger).Inc()
	b.logger.Debug().Str("trigger", trigger).Int("chars", utf8.RuneCountInString(text)).Msg("Notes saved")
	return nil
}

// SaveMessage picks the confirmation text for a document of count characters.
func SaveMessage(count int) string {
	switch {
	case count == 0:
		return msgCleared
	case count < 100:
		return msgSaved
	case count < 500:
		return msgGreat
	default:
		return fmt.Sprintf("Saved %dk symbols ✨", int(math.Ceil(float64(count)/1000)))
	}
}

// RequestClear starts a clear. It returns true when the caller must obtain
// confirmation and then call ConfirmClear; an empty document only gets an
// "already empty" notice.
func (b *Buffer) RequestClear() bool {
	b.mu.Lock()
	empty := b.text == ""
	b.mu.Unlock()

	if empty {
		b.sink.Notify(msgAlreadyEmpty, notify.DefaultDuration)
		return false
	}
	return true
}

// ConfirmClear empties the document and removes the persisted copy.
func (b *Buffer) ConfirmClear(ctx context.Context) {
	b.autosave.Cancel()

	b.mu.Lock()
	b.text = ""
	b.mu.Unlock()

	b.saveMu.Lock()
	defer b.saveMu.Unlock()

	if err := b.store.Remove(ctx, store.KeyNotes); err != nil && !errors.Is(err, store.ErrNotFound) {
		metrics.StorageErrors.WithLabelValues("notes").Inc()
		b.logger.Error().Err(err).Msg("Failed to clear notes")
		b.sink.Notify(msgClearFailed, notify.DefaultDuration)
		return
	}
	b.sink.Notify(msgDeleted, notify.DefaultDuration)
}

// Clear runs both phases, asking confirm for the decision.
func (b *Buffer) Clear(ctx context.Context, confirm func(prompt string) bool) {
	if !b.RequestClear() {
		return
	}
	if confirm != nil && confirm(ClearPrompt) {
		b.ConfirmClear(ctx)
	}
}

func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// CharCount counts characters, not bytes.
func (b *Buffer) CharCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return utf8.RuneCountInString(b.text)
}

// WordCount counts whitespace-delimited tokens.
func (b *Buffer) WordCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(strings.Fields(b.text))
}

// Export returns the document as UTF-8 bytes with a dated file name.
func (b *Buffer) Export() (name string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name = fmt.Sprintf("notes_%s.txt", b.sched.Now().UTC().Format("2006-01-02"))
	return name, []byte(b.text)
}

// ExportTo writes the export into dir and returns the file path.
func (b *Buffer) ExportTo(dir string) (string, error) {
	name, data := b.Export()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// Close writes any pending autosave.
func (b *Buffer) Close() {
	b.autosave.Flush()
}
