package httpclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"notekeeper/internal/notes/adapters/httpclient"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/resilience"
	"notekeeper/pkg/logger"
)

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, entities.ErrNoSession
}

func staticTokens(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

func TestClient_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("injects bearer token and json content type", func(t *testing.T) {
		var got *http.Request
		var body string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r
			raw, _ := io.ReadAll(r.Body)
			body = string(raw)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := httpclient.New(server.URL+"/", staticTokens("id-token"))
		header := http.Header{}
		header.Set("X-Custom", "kept")

		resp, err := client.Do(ctx, "/notes", httpclient.RequestOptions{
			Method: http.MethodPost,
			Body:   map[string]string{"title": "t"},
			Header: header,
		})
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, http.MethodPost, got.Method)
		assert.Equal(t, "/notes", got.URL.Path)
		assert.Equal(t, "Bearer id-token", got.Header.Get("Authorization"))
		assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
		assert.Equal(t, "kept", got.Header.Get("X-Custom"))
		assert.JSONEq(t, `{"title":"t"}`, body)
	})

	t.Run("caller content type is preserved", func(t *testing.T) {
		var contentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
		}))
		defer server.Close()

		header := http.Header{}
		header.Set("Content-Type", "text/plain")

		resp, err := httpclient.New(server.URL, staticTokens("tok")).
			Do(ctx, "/notes", httpclient.RequestOptions{Header: header})
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "text/plain", contentType)
	})

	t.Run("forwards request id", func(t *testing.T) {
		var requestID string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID = r.Header.Get(httpclient.HeaderRequestID)
		}))
		defer server.Close()

		reqCtx := logger.NewRequestIDContext(ctx, "req-42")
		resp, err := httpclient.New(server.URL, staticTokens("tok")).Do(reqCtx, "/notes", httpclient.RequestOptions{})
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "req-42", requestID)
	})

	t.Run("token failure sends nothing", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		_, err := httpclient.New(server.URL, failingTokenSource{}).Do(ctx, "/notes", httpclient.RequestOptions{})

		require.ErrorIs(t, err, entities.ErrAuthentication)
		require.ErrorIs(t, err, entities.ErrNoSession)
		assert.Zero(t, calls.Load())
	})

	t.Run("empty token sends nothing", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		_, err := httpclient.New(server.URL, staticTokens("")).Do(ctx, "/notes", httpclient.RequestOptions{})

		require.ErrorIs(t, err, entities.ErrAuthentication)
		assert.Zero(t, calls.Load())
	})

	t.Run("non success status is returned as is", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		resp, err := httpclient.New(server.URL, staticTokens("tok")).Do(ctx, "/notes/x", httpclient.RequestOptions{})
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		_, err := httpclient.New(server.URL, staticTokens("tok")).Do(ctx, "/notes", httpclient.RequestOptions{})

		require.ErrorIs(t, err, entities.ErrRemoteRequestFailed)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		_, err := httpclient.New(server.URL, staticTokens("tok"), httpclient.WithTimeout(50*time.Millisecond)).
			Do(ctx, "/notes", httpclient.RequestOptions{})

		require.ErrorIs(t, err, entities.ErrRemoteRequestFailed)
	})
}

func TestClient_CircuitBreaker(t *testing.T) {
	ctx := context.Background()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cb := resilience.NewCircuitBreaker("notes-api", resilience.CircuitBreakerConfig{
		ErrorThreshold:   2,
		Timeout:          time.Hour,
		SuccessThreshold: 1,
	})
	client := httpclient.New(server.URL, staticTokens("tok"), httpclient.WithCircuitBreaker(cb))

	for i := 0; i < 2; i++ {
		resp, err := client.Do(ctx, "/notes", httpclient.RequestOptions{})
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Equal(t, resilience.StateOpen, cb.GetState())

	_, err := client.Do(ctx, "/notes", httpclient.RequestOptions{})
	require.ErrorIs(t, err, entities.ErrRemoteRequestFailed)
	assert.True(t, errors.Is(err, resilience.ErrCircuitOpen))
	assert.Equal(t, int32(2), calls.Load())
}
