package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes"
	"notekeeper/internal/notes/domain/entities"
)

// HintSignInForSpace печатается, когда локальное хранилище переполнено в гостевом режиме.
const HintSignInForSpace = "Local storage is full. Sign in with \"notes login --token <id-token>\" to keep more notes in your account.\n"

func newCreateCommand(rt *runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "create TITLE [CONTENT]",
		Short: "Create a note",
		Args:  cobra.RangeArgs(1, 2),
		PreRunE: func(*cobra.Command, []string) error {
			return validateOutput(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			title, content := args[0], ""
			if len(args) == 2 {
				content = args[1]
			}

			return rt.withClient(cmd, func(ctx context.Context, client *notes.Client) error {
				note, err := client.Notes().CreateNote(ctx, title, content)
				if err != nil {
					return storageFull(cmd.ErrOrStderr(), client, fmt.Errorf("create note: %w", err))
				}
				return render(cmd.OutOrStdout(), output, note, func(w io.Writer) {
					printf(w, "Created %s\n", note.NoteID)
				})
			})
		},
	}
	addOutputFlag(cmd, &output)

	return cmd
}

// storageFull предлагает войти, если гостевая запись не поместилась в хранилище.
func storageFull(w io.Writer, client *notes.Client, err error) error {
	if errors.Is(err, entities.ErrStorageWriteFailed) && client.Mode() == entities.AuthModeGuest {
		client.Coordinator().RequestSignIn()
	}
	if client.Coordinator().SignInRequested() {
		_, _ = io.WriteString(w, HintSignInForSpace)
	}
	return err
}
