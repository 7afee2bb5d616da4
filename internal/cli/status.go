package cli

import (
	"fmt"
	"io"

	"focuspad/internal/app"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show timer, notes and audio state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closer.Close()
			defer a.Close()

			status := a.Status()
			out := cmd.OutOrStdout()
			if done, err := writeStructured(out, opts.format, status); done {
				return err
			}
			printStatus(out, status)
			return nil
		},
	}
}

func printStatus(w io.Writer, s app.Status) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)

	state := yellow.Sprint("paused")
	if s.Timer.Running {
		state = green.Sprint("running")
	}

	cyan.Fprintln(w, "Timer")
	fmt.Fprintf(w, "  Session:  %s\n", s.Timer.Session)
	fmt.Fprintf(w, "  Left:     %s (%s)\n", s.Timer.TimeLeft, state)
	fmt.Fprintf(w, "  Progress: %.0f%%\n", s.Timer.Progress)

	cyan.Fprintln(w, "Notes")
	fmt.Fprintf(w, "  Chars:    %d\n", s.Notes.CharCount)
	fmt.Fprintf(w, "  Words:    %d\n", s.Notes.WordCount)

	cyan.Fprintln(w, "Audio")
	track := s.Audio.CurrentTrack
	if track == "" {
		track = "none"
	}
	fmt.Fprintf(w, "  Track:    %s\n", track)
	fmt.Fprintf(w, "  Volume:   %.0f%%\n", s.Audio.Volume*100)

	cyan.Fprintln(w, "Theme")
	fmt.Fprintf(w, "  %s\n", s.Theme)
}
