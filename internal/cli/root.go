// Package cli implements the focuspad commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"focuspad/internal/app"
	"focuspad/internal/config"
	"focuspad/internal/notify"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	configPath string
	dbPath     string
	format     string
}

// NewRootCmd builds the command tree. Without a subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "focuspad",
		Short: "Focus timer, notes pad and background sounds in the terminal",
		Long: `focuspad runs work/break intervals next to an autosaving notes pad and a
background sound selector. Notes, volume and theme survive restarts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (default: $FOCUSPAD_HOME/config.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "", "SQLite database path, overrides storage settings")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json or yaml")

	cmd.AddCommand(
		newStatusCmd(opts),
		newExportCmd(opts),
		newHistoryCmd(opts),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Storage.Type = "sqlite"
		cfg.Storage.Path = o.dbPath
	}
	return cfg, nil
}

// openApp builds an App for one-shot commands. Notices go to the log.
func (o *rootOptions) openApp(ctx context.Context) (*app.App, io.Closer, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logFile, err := openLogFile(cfg.Logging.File)
	if err != nil {
		return nil, nil, err
	}
	logger := setupLogger(cfg.Logging, logFile)

	a, err := app.New(ctx, app.Options{
		Config: cfg,
		Logger: logger,
		Sink:   notify.Log{Logger: logger},
	})
	if err != nil {
		logFile.Close()
		return nil, nil, err
	}
	return a, logFile, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).Level(level).With().Timestamp().Logger()
	}

	// Default to JSON
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
