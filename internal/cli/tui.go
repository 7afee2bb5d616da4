package cli

import (
	"fmt"

	"focuspad/internal/app"
	"focuspad/internal/metrics"
	"focuspad/internal/notify"
	"focuspad/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	noticeBuffer = 16
	eventBuffer  = 64
)

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logFile, err := openLogFile(cfg.Logging.File)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := setupLogger(cfg.Logging, logFile)

	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, logger)
		srv.Start()
		defer srv.Stop()
	}

	notices := notify.NewChan(noticeBuffer)
	a, err := app.New(ctx, app.Options{
		Config: cfg,
		Logger: logger,
		Sink:   notices,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close store")
		}
	}()

	model := tui.NewModel(ctx, a, tui.Options{
		Events:  a.Timer.Subscribe(eventBuffer),
		Notices: notices.C(),
	})
	a.Greet()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	logger.Info().Msg("focuspad stopped")
	return nil
}
