package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the notes to notes_<date>.txt",
		Long:  "Write the saved notes as a UTF-8 text file. The directory defaults to notes.export_dir.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closer.Close()
			defer a.Close()

			path, err := a.ExportNotes(outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
	return cmd
}
