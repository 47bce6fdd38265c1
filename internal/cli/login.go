package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes"
	"notekeeper/internal/notes/app"
	"notekeeper/internal/notes/domain/entities"
)

// EnvIDToken - переменная окружения с ID токеном для login.
const EnvIDToken = "NOTES_ID_TOKEN" // #nosec G101 - not a credential

func newLoginCommand(rt *runtime) *cobra.Command {
	var (
		token  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an ID token and move guest notes to your account",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			if token == "" {
				token = os.Getenv(EnvIDToken)
			}
			if token == "" {
				return fmt.Errorf("--token or $%s is required", EnvIDToken)
			}
			return validateOutput(output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withClient(cmd, func(ctx context.Context, client *notes.Client) error {
				progress := progressPrinter(cmd.ErrOrStderr())
				result, err := client.SignIn(ctx, token, progress)
				if err != nil {
					return fmt.Errorf("login: %w", err)
				}

				identity, err := client.Identity(ctx)
				if err != nil {
					return fmt.Errorf("login: %w", err)
				}
				printf(cmd.ErrOrStderr(), "Signed in as %s\n", describeIdentity(identity))

				return reportMigration(cmd.OutOrStdout(), output, result)
			})
		},
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "ID token issued by the identity provider (default $"+EnvIDToken+")")
	addOutputFlag(cmd, &output)

	return cmd
}

func progressPrinter(w io.Writer) app.ProgressFunc {
	return func(current, total int) {
		printf(w, "Migrating notes: %d/%d\n", current, total)
	}
}

func describeIdentity(identity *entities.Identity) string {
	if identity.Email != "" {
		return fmt.Sprintf("%s (%s)", identity.Email, identity.UserID)
	}
	return identity.UserID
}

// reportMigration печатает итог миграции. nil - переносить было нечего.
func reportMigration(w io.Writer, format string, result *entities.MigrationResult) error {
	if result == nil {
		result = entities.NewMigrationResult(0, 0, nil)
	}

	return render(w, format, result, func(w io.Writer) {
		switch {
		case result.TotalNotes == 0:
			printf(w, "No guest notes to migrate.\n")
		case result.Success:
			printf(w, "Migrated %d of %d guest notes.\n", result.MigratedCount, result.TotalNotes)
		default:
			printf(w, "Migrated %d of %d guest notes, %d failed:\n",
				result.MigratedCount, result.TotalNotes, result.FailedCount)
			for _, e := range result.Errors {
				printf(w, "  %s %q: %s\n", e.NoteID, e.Title, e.Error)
			}
			printf(w, "Guest notes were kept. Run \"notes migrate\" to retry.\n")
		}
	})
}
