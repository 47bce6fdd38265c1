package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"notekeeper/internal/notes/adapters/httpclient"
	"notekeeper/internal/notes/adapters/remote"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
)

var _ repositories.NotesRepository = (*remote.Repository)(nil)

var sampleNote = entities.Note{
	NoteID:    "n-1",
	Title:     "Title",
	Content:   "Body",
	CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	UpdatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
}

func newRepository(t *testing.T, handler http.HandlerFunc) *remote.Repository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"})
	return remote.NewRepository(httpclient.New(server.URL, tokens))
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestRepository_FetchNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("unwraps envelope", func(t *testing.T) {
		repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/notes", r.URL.Path)
			writeJSON(t, w, http.StatusOK, map[string]any{"notes": []entities.Note{sampleNote}})
		})

		notes, err := repo.FetchNotes(ctx)

		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, sampleNote.NoteID, notes[0].NoteID)
		assert.True(t, sampleNote.UpdatedAt.Equal(notes[0].UpdatedAt))
	})

	t.Run("missing notes field is an empty list", func(t *testing.T) {
		repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{})
		})

		notes, err := repo.FetchNotes(ctx)

		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("non success status", func(t *testing.T) {
		repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := repo.FetchNotes(ctx)

		require.ErrorIs(t, err, entities.ErrRemoteRequestFailed)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("malformed body", func(t *testing.T) {
		repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})

		_, err := repo.FetchNotes(ctx)

		require.ErrorIs(t, err, entities.ErrRemoteRequestFailed)
	})
}

func TestRepository_CreateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("posts title and content", func(t *testing.T) {
		repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/notes", r.URL.Path)

			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, map[string]string{"title": "Title", "content": "Body"}, in)

			writeJSON(t, w, http.StatusCreated, sampleNote)
		})

		note, err := repo.CreateNote(ctx, "Title", "Body")

		require.NoError(t, err)
		assert.Equal(t, sampleNote.NoteID, note.NoteID)
	})

	t.Run("server error", func(t *testing.T) {
		repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := repo.CreateNote(ctx, "t", "c")

		require.ErrorIs(t, err, entities.ErrRemoteRequestFailed)
	})
}

func TestRepository_UpdateNote(t *testing.T) {
	ctx := context.Background()

	repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notes/a%2Fb", r.URL.EscapedPath())
		writeJSON(t, w, http.StatusOK, sampleNote)
	})

	note, err := repo.UpdateNote(ctx, "a/b", "Title", "Body")

	require.NoError(t, err)
	assert.Equal(t, sampleNote.Title, note.Title)
}

func TestRepository_DeleteNote(t *testing.T) {
	ctx := context.Background()

	t.Run("no content", func(t *testing.T) {
		repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/notes/n-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, repo.DeleteNote(ctx, "n-1"))
	})

	t.Run("not found", func(t *testing.T) {
		repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := repo.DeleteNote(ctx, "n-1")

		require.ErrorIs(t, err, entities.ErrRemoteRequestFailed)
	})
}

func TestRepository_AuthenticationError(t *testing.T) {
	ctx := context.Background()
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer server.Close()

	repo := remote.NewRepository(httpclient.New(server.URL, oauth2.StaticTokenSource(&oauth2.Token{})))

	_, err := repo.CreateNote(ctx, "t", "c")

	require.ErrorIs(t, err, entities.ErrAuthentication)
	assert.False(t, called)
}
