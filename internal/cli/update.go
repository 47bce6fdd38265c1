package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes"
	"notekeeper/internal/notes/domain/entities"
)

type updateOptions struct {
	title   string
	content string
	output  string
}

func newUpdateCommand(rt *runtime) *cobra.Command {
	opts := &updateOptions{}

	cmd := &cobra.Command{
		Use:   "update NOTE_ID",
		Short: "Replace the title and/or content of a note",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("content") {
				return fmt.Errorf("at least one of --title or --content is required")
			}
			return validateOutput(opts.output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd, func(ctx context.Context, client *notes.Client) error {
				return runUpdate(ctx, cmd, client, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.content, "content", "", "New content")
	addOutputFlag(cmd, &opts.output)

	return cmd
}

func runUpdate(ctx context.Context, cmd *cobra.Command, client *notes.Client, noteID string, opts *updateOptions) error {
	repo := client.Notes()

	// Обновление заменяет оба поля: незаданные берутся из текущей версии.
	title, content := opts.title, opts.content
	if !cmd.Flags().Changed("title") || !cmd.Flags().Changed("content") {
		list, err := repo.FetchNotes(ctx)
		if err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		idx := slices.IndexFunc(list, func(n entities.Note) bool { return n.NoteID == noteID })
		if idx < 0 {
			return fmt.Errorf("update note %s: %w", noteID, entities.ErrNotFound)
		}
		if !cmd.Flags().Changed("title") {
			title = list[idx].Title
		}
		if !cmd.Flags().Changed("content") {
			content = list[idx].Content
		}
	}

	note, err := repo.UpdateNote(ctx, noteID, title, content)
	if err != nil {
		return storageFull(cmd.ErrOrStderr(), client, fmt.Errorf("update note: %w", err))
	}

	return render(cmd.OutOrStdout(), opts.output, note, func(w io.Writer) {
		printf(w, "Updated %s\n", note.NoteID)
	})
}
