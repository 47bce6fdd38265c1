package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes"
	"notekeeper/internal/notes/domain/entities"
)

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and switch back to guest notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withClient(cmd, func(ctx context.Context, client *notes.Client) error {
				if client.Mode() == entities.AuthModeGuest {
					printf(cmd.OutOrStdout(), "Not signed in.\n")
					return nil
				}
				if err := client.Logout(ctx); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				printf(cmd.OutOrStdout(), "Signed out.\n")
				return nil
			})
		},
	}
}
