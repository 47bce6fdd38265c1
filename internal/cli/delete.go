package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes"
)

func newDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NOTE_ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd, func(ctx context.Context, client *notes.Client) error {
				if err := client.Notes().DeleteNote(ctx, args[0]); err != nil {
					return fmt.Errorf("delete note: %w", err)
				}
				printf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
