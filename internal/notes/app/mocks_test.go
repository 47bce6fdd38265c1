package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/notes/adapters/kv"
	"notekeeper/internal/notes/adapters/local"
	"notekeeper/internal/notes/adapters/storage"
	"notekeeper/internal/notes/domain/entities"
)

type mockNotesRepository struct {
	mock.Mock
}

func (m *mockNotesRepository) FetchNotes(ctx context.Context) ([]entities.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Note), args.Error(1)
}

func (m *mockNotesRepository) CreateNote(ctx context.Context, title, content string) (entities.Note, error) {
	args := m.Called(ctx, title, content)
	return args.Get(0).(entities.Note), args.Error(1)
}

func (m *mockNotesRepository) UpdateNote(ctx context.Context, noteID, title, content string) (entities.Note, error) {
	args := m.Called(ctx, noteID, title, content)
	return args.Get(0).(entities.Note), args.Error(1)
}

func (m *mockNotesRepository) DeleteNote(ctx context.Context, noteID string) error {
	return m.Called(ctx, noteID).Error(0)
}

type mockGuestRepository struct {
	mockNotesRepository
}

func (m *mockGuestRepository) HasNotes(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockGuestRepository) ClearAllNotes(ctx context.Context) {
	m.Called(ctx)
}

type mockAuthProvider struct {
	mock.Mock
}

func (m *mockAuthProvider) CurrentIdentity(ctx context.Context) (*entities.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Identity), args.Error(1)
}

func (m *mockAuthProvider) SignOut(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAuthProvider) SessionToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// recordingSleeper фиксирует задержки вместо ожидания.
type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

// newGuest создает гостевой репозиторий в памяти с n заметками "note 1".."note n".
func newGuest(t *testing.T, n int) *local.Repository {
	t.Helper()
	ctx := context.Background()

	repo := local.NewRepository(storage.NewAdapter(kv.NewMemoryStore(0)))
	for i := 1; i <= n; i++ {
		_, err := repo.CreateNote(ctx, fmt.Sprintf("note %d", i), fmt.Sprintf("content %d", i))
		require.NoError(t, err)
	}
	return repo
}

func remoteNote(title string) entities.Note {
	return entities.Note{NoteID: "remote-" + title, Title: title}
}
