package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes"
)

func newMigrateCommand(rt *runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Retry moving remaining guest notes to your account",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return validateOutput(output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withClient(cmd, func(ctx context.Context, client *notes.Client) error {
				result, err := client.RetryMigration(ctx, progressPrinter(cmd.ErrOrStderr()))
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				return reportMigration(cmd.OutOrStdout(), output, result)
			})
		},
	}
	addOutputFlag(cmd, &output)

	return cmd
}
