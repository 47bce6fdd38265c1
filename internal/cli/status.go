package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes"
	"notekeeper/internal/notes/domain/entities"
)

// Status - снимок состояния клиента для команды status.
type Status struct {
	Mode              entities.AuthMode  `json:"mode" yaml:"mode"`
	Identity          *entities.Identity `json:"identity,omitempty" yaml:"identity,omitempty"`
	StorageBackend    string             `json:"storageBackend" yaml:"storageBackend"`
	StorageAvailable  bool               `json:"storageAvailable" yaml:"storageAvailable"`
	HasRoomForNotes   bool               `json:"hasRoomForNotes" yaml:"hasRoomForNotes"`
	GuestNotesPending bool               `json:"guestNotesPending" yaml:"guestNotesPending"`
	APIBaseURL        string             `json:"apiBaseUrl" yaml:"apiBaseUrl"`
}

func newStatusCommand(rt *runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show session mode, storage state and pending guest notes",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return validateOutput(output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withClient(cmd, func(ctx context.Context, client *notes.Client) error {
				status, err := collectStatus(ctx, rt, client)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), output, status, status.print)
			})
		},
	}
	addOutputFlag(cmd, &output)

	return cmd
}

func collectStatus(ctx context.Context, rt *runtime, client *notes.Client) (*Status, error) {
	status := &Status{
		Mode:             client.Mode(),
		StorageBackend:   rt.cfg.Storage.Backend,
		StorageAvailable: client.StorageAvailable(ctx),
		HasRoomForNotes:  client.HasRoomForNotes(ctx),
		APIBaseURL:       rt.cfg.API.BaseURL,
	}

	identity, err := client.Identity(ctx)
	switch {
	case err == nil:
		status.Identity = identity
	case !errors.Is(err, entities.ErrNoSession):
		return nil, fmt.Errorf("status: %w", err)
	}

	if status.GuestNotesPending, err = client.GuestNotesPending(ctx); err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	return status, nil
}

func (s *Status) print(w io.Writer) {
	printf(w, "Mode:            %s\n", s.Mode)
	if s.Identity != nil {
		printf(w, "User:            %s\n", describeIdentity(s.Identity))
		if !s.Identity.ExpiresAt.IsZero() {
			printf(w, "Session expires: %s\n", s.Identity.ExpiresAt.Local().Format(time.DateTime))
		}
	}
	printf(w, "Storage:         %s (available: %t, room for notes: %t)\n",
		s.StorageBackend, s.StorageAvailable, s.HasRoomForNotes)
	printf(w, "API:             %s\n", s.APIBaseURL)
	if s.GuestNotesPending && s.Mode != entities.AuthModeGuest {
		printf(w, "Guest notes are waiting to be migrated. Run \"notes migrate\".\n")
	}
}
