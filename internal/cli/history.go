package cli

import (
	"fmt"
	"io"
	"time"

	"focuspad/internal/timelog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type historyEntry struct {
	ID          string    `json:"id" yaml:"id"`
	Kind        string    `json:"kind" yaml:"kind"`
	Duration    string    `json:"duration" yaml:"duration"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed work and break sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be positive: %d", limit)
			}

			a, closer, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closer.Close()
			defer a.Close()

			logs, err := a.RecentSessions(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}

			entries := make([]historyEntry, len(logs))
			for i, l := range logs {
				entries[i] = historyEntry{
					ID:          l.ID,
					Kind:        l.Kind,
					Duration:    l.Duration.String(),
					CompletedAt: l.CompletedAt,
				}
			}

			out := cmd.OutOrStdout()
			if done, err := writeStructured(out, opts.format, entries); done {
				return err
			}
			printHistory(out, logs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of sessions")
	return cmd
}

func printHistory(w io.Writer, logs []timelog.TimeLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No completed sessions yet.")
		return
	}

	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	gray := color.New(color.FgHiBlack)

	for _, l := range logs {
		kind := green.Sprintf("%-5s", l.Kind)
		if l.Kind == "break" {
			kind = yellow.Sprintf("%-5s", l.Kind)
		}
		fmt.Fprintf(w, "%s  %s  %s\n",
			gray.Sprint(l.CompletedAt.Local().Format("Jan 02 15:04")),
			kind,
			l.Duration)
	}
}
