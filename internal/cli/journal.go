package cli

import (
	"actividades-cli/internal/format"
	"actividades-cli/internal/store"

	"github.com/spf13/cobra"
)

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Local log of mutations sent from this machine",
	}
	cmd.AddCommand(newJournalListCmd(app))
	return cmd
}

func newJournalListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded mutations (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.JournalPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			j, err := store.OpenJournal(cmd.Context(), path)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer j.Close()

			entries, err := j.List(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if entries == nil {
				entries = []store.JournalEntry{}
			}
			return writeOut(cmd, app, format.Journal(entries))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries (0 = all)")
	return cmd
}
