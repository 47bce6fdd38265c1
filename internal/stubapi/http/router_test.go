package http_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"notekeeper/internal/notes/adapters/auth"
	"notekeeper/internal/notes/adapters/httpclient"
	"notekeeper/internal/notes/adapters/remote"
	"notekeeper/internal/notes/domain/entities"
	stubhttp "notekeeper/internal/stubapi/http"
	"notekeeper/internal/stubapi/http/handlers"
	"notekeeper/internal/stubapi/store"
)

var signingKey = []byte("test-signing-key")

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	stubhttp.SetupRouter(app, store.New(), stubhttp.RouterConfig{
		SigningKey: signingKey,
		TokenTTL:   time.Hour,
	})
	return app
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.IssueToken(signingKey, userID, userID+"@example.com", time.Now(), time.Hour)
	require.NoError(t, err)
	return token
}

func request(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRouter_Authentication(t *testing.T) {
	app := newApp(t)

	expired, err := auth.IssueToken(signingKey, "alice", "", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	foreign, err := auth.IssueToken([]byte("other-key"), "alice", "", time.Now(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + foreign, want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + tokenFor(t, "alice"), want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/notes", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRouter_NotesLifecycle(t *testing.T) {
	app := newApp(t)
	token := tokenFor(t, "alice")

	resp := request(t, app, http.MethodPost, "/notes", token, `{"title":"first","content":"body"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[entities.Note](t, resp)
	assert.NotEmpty(t, created.NoteID)
	assert.Equal(t, "first", created.Title)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	resp = request(t, app, http.MethodGet, "/notes", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[handlers.NotesResponse](t, resp)
	require.Len(t, list.Notes, 1)
	assert.Equal(t, created.NoteID, list.Notes[0].NoteID)

	resp = request(t, app, http.MethodPut, "/notes/"+created.NoteID, token, `{"title":"renamed","content":"new"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[entities.Note](t, resp)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	resp = request(t, app, http.MethodGet, "/notes/"+created.NoteID, token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "new", decode[entities.Note](t, resp).Content)

	resp = request(t, app, http.MethodDelete, "/notes/"+created.NoteID, token, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = request(t, app, http.MethodDelete, "/notes/"+created.NoteID, token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = request(t, app, http.MethodPut, "/notes/missing", token, `{"title":"t","content":"c"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_NotesAreScopedToUser(t *testing.T) {
	app := newApp(t)

	resp := request(t, app, http.MethodPost, "/notes", tokenFor(t, "alice"), `{"title":"secret","content":""}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	note := decode[entities.Note](t, resp)

	resp = request(t, app, http.MethodGet, "/notes", tokenFor(t, "bob"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[handlers.NotesResponse](t, resp).Notes)

	resp = request(t, app, http.MethodDelete, "/notes/"+note.NoteID, tokenFor(t, "bob"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_BadRequests(t *testing.T) {
	app := newApp(t)

	resp := request(t, app, http.MethodPost, "/notes", tokenFor(t, "alice"), `{"title":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/auth/token", "", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = request(t, app, http.MethodGet, "/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_IssueToken(t *testing.T) {
	app := newApp(t)

	resp := request(t, app, http.MethodPost, "/auth/token", "", `{"userId":"alice","email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	issued := decode[handlers.TokenResponse](t, resp)
	assert.Equal(t, int64(3600), issued.ExpiresIn)

	claims, err := auth.ParseToken(issued.IDToken, signingKey, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)

	resp = request(t, app, http.MethodGet, "/notes", issued.IDToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Удаленный репозиторий клиента работает поверх настоящего сокета заглушки.
func TestRouter_ServesRemoteRepository(t *testing.T) {
	app := newApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	t.Cleanup(func() { _ = app.Shutdown() })

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tokenFor(t, "alice"), TokenType: "Bearer"})
	repo := remote.NewRepository(httpclient.New("http://"+ln.Addr().String(), tokens,
		httpclient.WithTimeout(5*time.Second)))
	ctx := context.Background()

	created, err := repo.CreateNote(ctx, "title", "content")
	require.NoError(t, err)

	updated, err := repo.UpdateNote(ctx, created.NoteID, "title 2", "content 2")
	require.NoError(t, err)
	assert.Equal(t, created.NoteID, updated.NoteID)

	notes, err := repo.FetchNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "title 2", notes[0].Title)

	require.NoError(t, repo.DeleteNote(ctx, created.NoteID))
	err = repo.DeleteNote(ctx, created.NoteID)
	assert.ErrorIs(t, err, entities.ErrRemoteRequestFailed)
}
