package local_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/notes/adapters/kv"
	"notekeeper/internal/notes/adapters/local"
	"notekeeper/internal/notes/adapters/storage"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
)

var (
	_ repositories.GuestNotesRepository = (*local.Repository)(nil)
	_ repositories.MigrationLedger      = (*local.Repository)(nil)
)

type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("note-%d", n)
	}
}

func newRepository(t *testing.T, store *kv.MemoryStore) *local.Repository {
	t.Helper()
	clock := &steppingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second}
	return local.NewRepository(storage.NewAdapter(store),
		local.WithClock(clock.Now),
		local.WithIDGenerator(sequentialIDs()))
}

func TestRepository_FetchNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("empty when nothing stored", func(t *testing.T) {
		notes, err := newRepository(t, kv.NewMemoryStore(0)).FetchNotes(ctx)

		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("empty when stored value is corrupt", func(t *testing.T) {
		store := kv.NewMemoryStore(0)
		require.NoError(t, store.Set(ctx, local.NotesKey, "{broken"))

		notes, err := newRepository(t, store).FetchNotes(ctx)

		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("insertion order", func(t *testing.T) {
		repo := newRepository(t, kv.NewMemoryStore(0))
		for _, title := range []string{"a", "b", "c"} {
			_, err := repo.CreateNote(ctx, title, "")
			require.NoError(t, err)
		}

		notes, err := repo.FetchNotes(ctx)

		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, "a", notes[0].Title)
		assert.Equal(t, "c", notes[2].Title)
	})
}

func TestRepository_CreateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps both timestamps identically", func(t *testing.T) {
		repo := newRepository(t, kv.NewMemoryStore(0))

		note, err := repo.CreateNote(ctx, "Title", "Body")

		require.NoError(t, err)
		assert.Equal(t, "note-1", note.NoteID)
		assert.Equal(t, "Title", note.Title)
		assert.Equal(t, "Body", note.Content)
		assert.Equal(t, note.CreatedAt, note.UpdatedAt)
	})

	t.Run("ids are unique with the default generator", func(t *testing.T) {
		repo := local.NewRepository(storage.NewAdapter(kv.NewMemoryStore(0)))
		seen := make(map[string]struct{})

		for i := 0; i < 50; i++ {
			note, err := repo.CreateNote(ctx, "t", "c")
			require.NoError(t, err)
			_, dup := seen[note.NoteID]
			require.False(t, dup)
			seen[note.NoteID] = struct{}{}
		}
	})

	t.Run("persisted as a JSON array under the collection key", func(t *testing.T) {
		store := kv.NewMemoryStore(0)
		repo := newRepository(t, store)

		_, err := repo.CreateNote(ctx, "t", "c")
		require.NoError(t, err)

		raw, err := store.Get(ctx, local.NotesKey)
		require.NoError(t, err)
		assert.JSONEq(t,
			`[{"noteId":"note-1","title":"t","content":"c","createdAt":"2024-01-01T00:00:01Z","updatedAt":"2024-01-01T00:00:01Z"}]`,
			raw)
	})

	t.Run("quota failure leaves stored collection unchanged", func(t *testing.T) {
		store := kv.NewMemoryStore(300)
		repo := newRepository(t, store)

		_, err := repo.CreateNote(ctx, "first", "")
		require.NoError(t, err)
		before, err := store.Get(ctx, local.NotesKey)
		require.NoError(t, err)

		note, err := repo.CreateNote(ctx, "second", strings.Repeat("x", 400))

		require.ErrorIs(t, err, entities.ErrStorageWriteFailed)
		assert.Empty(t, note.NoteID)

		after, err := store.Get(ctx, local.NotesKey)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestRepository_UpdateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("updates in place", func(t *testing.T) {
		repo := newRepository(t, kv.NewMemoryStore(0))
		first, err := repo.CreateNote(ctx, "a", "")
		require.NoError(t, err)
		_, err = repo.CreateNote(ctx, "b", "")
		require.NoError(t, err)

		updated, err := repo.UpdateNote(ctx, first.NoteID, "a2", "body")

		require.NoError(t, err)
		assert.Equal(t, "a2", updated.Title)
		assert.Equal(t, first.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(first.UpdatedAt))

		notes, err := repo.FetchNotes(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.NoteID, notes[0].NoteID, "position is preserved")
		assert.Equal(t, "a2", notes[0].Title)
	})

	t.Run("repeated update keeps content and never decreases updatedAt", func(t *testing.T) {
		repo := newRepository(t, kv.NewMemoryStore(0))
		note, err := repo.CreateNote(ctx, "a", "")
		require.NoError(t, err)

		once, err := repo.UpdateNote(ctx, note.NoteID, "x", "y")
		require.NoError(t, err)
		twice, err := repo.UpdateNote(ctx, note.NoteID, "x", "y")
		require.NoError(t, err)

		assert.Equal(t, once.Title, twice.Title)
		assert.Equal(t, once.Content, twice.Content)
		assert.False(t, twice.UpdatedAt.Before(once.UpdatedAt))
	})

	t.Run("not found", func(t *testing.T) {
		repo := newRepository(t, kv.NewMemoryStore(0))

		_, err := repo.UpdateNote(ctx, "missing", "t", "c")

		require.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestRepository_DeleteNote(t *testing.T) {
	ctx := context.Background()

	t.Run("removes exactly one", func(t *testing.T) {
		repo := newRepository(t, kv.NewMemoryStore(0))
		a, err := repo.CreateNote(ctx, "a", "")
		require.NoError(t, err)
		_, err = repo.CreateNote(ctx, "b", "")
		require.NoError(t, err)

		require.NoError(t, repo.DeleteNote(ctx, a.NoteID))

		notes, err := repo.FetchNotes(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "b", notes[0].Title)
	})

	t.Run("missing id leaves collection unchanged", func(t *testing.T) {
		repo := newRepository(t, kv.NewMemoryStore(0))
		_, err := repo.CreateNote(ctx, "a", "")
		require.NoError(t, err)

		err = repo.DeleteNote(ctx, "missing")

		require.ErrorIs(t, err, entities.ErrNotFound)
		notes, err := repo.FetchNotes(ctx)
		require.NoError(t, err)
		assert.Len(t, notes, 1)
	})
}

func TestRepository_ClearAllNotes(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore(0)
	repo := newRepository(t, store)

	note, err := repo.CreateNote(ctx, "a", "")
	require.NoError(t, err)
	require.NoError(t, repo.MarkMigrated(ctx, "user-1", note.NoteID))

	has, err := repo.HasNotes(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	repo.ClearAllNotes(ctx)
	repo.ClearAllNotes(ctx)

	has, err = repo.HasNotes(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	raw, err := store.Get(ctx, local.NotesKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	assert.False(t, repo.IsMigrated(ctx, "user-1", note.NoteID))
}

func TestRepository_Ledger(t *testing.T) {
	ctx := context.Background()

	t.Run("records notes per account", func(t *testing.T) {
		repo := newRepository(t, kv.NewMemoryStore(0))

		assert.False(t, repo.IsMigrated(ctx, "user-1", "note-1"))

		require.NoError(t, repo.MarkMigrated(ctx, "user-1", "note-1"))
		require.NoError(t, repo.MarkMigrated(ctx, "user-1", "note-2"))

		assert.True(t, repo.IsMigrated(ctx, "user-1", "note-1"))
		assert.True(t, repo.IsMigrated(ctx, "user-1", "note-2"))
		assert.False(t, repo.IsMigrated(ctx, "user-1", "note-3"))
	})

	t.Run("another account sees an empty ledger", func(t *testing.T) {
		repo := newRepository(t, kv.NewMemoryStore(0))

		require.NoError(t, repo.MarkMigrated(ctx, "user-a", "note-1"))

		assert.False(t, repo.IsMigrated(ctx, "user-b", "note-1"))

		require.NoError(t, repo.MarkMigrated(ctx, "user-b", "note-2"))

		assert.True(t, repo.IsMigrated(ctx, "user-b", "note-2"))
		assert.False(t, repo.IsMigrated(ctx, "user-b", "note-1"))
		assert.False(t, repo.IsMigrated(ctx, "user-a", "note-1"), "ledger belongs to the last account")
	})

	t.Run("legacy ledger format is ignored", func(t *testing.T) {
		store := kv.NewMemoryStore(0)
		require.NoError(t, store.Set(ctx, local.LedgerKey, `["note-1"]`))
		repo := newRepository(t, store)

		assert.False(t, repo.IsMigrated(ctx, "user-1", "note-1"))
	})
}
