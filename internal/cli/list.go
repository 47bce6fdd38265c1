package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes"
	"notekeeper/internal/notes/app"
	"notekeeper/internal/notes/domain/entities"
)

// Маркеры подсветки найденного текста в текстовом выводе.
const (
	highlightOpen  = "["
	highlightClose = "]"
)

type listOptions struct {
	query   string
	pattern string
	output  string
}

func newListCommand(rt *runtime) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes of the current mode, newest first",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return validateOutput(opts.output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withClient(cmd, func(ctx context.Context, client *notes.Client) error {
				return runList(ctx, cmd.OutOrStdout(), client, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Case-insensitive search in title and content")
	cmd.Flags().StringVarP(&opts.pattern, "pattern", "p", "", "Glob pattern matched against titles, e.g. 'todo*'")
	addOutputFlag(cmd, &opts.output)

	return cmd
}

func runList(ctx context.Context, w io.Writer, client *notes.Client, opts *listOptions) error {
	list, err := client.Notes().FetchNotes(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	list = app.FilterNotes(list, opts.query)
	if opts.pattern != "" {
		if list, err = app.MatchTitles(list, opts.pattern); err != nil {
			return err
		}
	}
	list = app.SortByRecency(list)

	return render(w, opts.output, list, func(w io.Writer) {
		if len(list) == 0 {
			printf(w, "No notes (%s mode).\n", client.Mode())
			return
		}
		for _, note := range list {
			printNote(w, note, opts.query)
		}
	})
}

func printNote(w io.Writer, note entities.Note, query string) {
	printf(w, "%s  %s  %s\n", note.NoteID, note.CreatedAt.Local().Format(time.DateTime),
		app.Highlight(note.Title, query, highlightOpen, highlightClose))
	if note.Content != "" {
		printf(w, "    %s\n", app.Highlight(note.Content, query, highlightOpen, highlightClose))
	}
}
