// Package notes собирает клиент заметок: хранилище, сессию, репозитории и координатор.
package notes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/auth"
	"notekeeper/internal/notes/adapters/httpclient"
	"notekeeper/internal/notes/adapters/kv"
	"notekeeper/internal/notes/adapters/local"
	"notekeeper/internal/notes/adapters/remote"
	"notekeeper/internal/notes/adapters/storage"
	"notekeeper/internal/notes/app"
	"notekeeper/internal/notes/config"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/internal/notes/resilience"
	"notekeeper/pkg/logger"
)

// Константы для сообщений.
const (
	LogClientReady   = "notes client ready"
	ErrOpenStorage   = "failed to open storage"
	ErrInitSession   = "failed to initialize session"
	ErrSignIn        = "failed to sign in"
	circuitBreakerID = "notes-api"
)

// Client - прикладной клиент заметок.
type Client struct {
	store       *storage.Adapter
	guest       *local.Repository
	session     *auth.SessionProvider
	coordinator *app.Coordinator
}

// New открывает хранилище и определяет режим по сохраненной сессии.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	// Сессия и журнал миграции не должны вытесняться гостевыми заметками.
	kvStore, err := kv.Open(ctx, cfg, kv.WithQuotaExempt(auth.SessionKey, local.LedgerKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrOpenStorage, err)
	}

	store := storage.NewAdapter(kvStore)
	guest := local.NewRepository(store)
	session := auth.NewSessionProvider(store, cfg.Auth.SigningKey)

	clientOpts := []httpclient.Option{httpclient.WithTimeout(cfg.API.Timeout)}
	if cb := cfg.API.CircuitBreaker; cb.Enabled {
		breaker := resilience.NewCircuitBreaker(circuitBreakerID, resilience.CircuitBreakerConfig{
			ErrorThreshold:   cb.ErrorThreshold,
			Timeout:          cb.Timeout,
			SuccessThreshold: cb.SuccessThreshold,
		})
		clientOpts = append(clientOpts, httpclient.WithCircuitBreaker(breaker))
	}

	remoteFactory := func(ctx context.Context) repositories.NotesRepository {
		return remote.NewRepository(httpclient.New(cfg.API.BaseURL, session.TokenSource(ctx), clientOpts...))
	}

	migrator := app.NewMigrator(app.MigrationPolicy(cfg.Migration.MaxAttempts, cfg.Migration.BackoffStep))
	coordinator := app.NewCoordinator(session, guest, remoteFactory, migrator)

	if err := coordinator.Init(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("%s: %w", ErrInitSession, err)
	}

	logger.Log(ctx).Debug(ctx, LogClientReady,
		zap.Stringer("mode", coordinator.Mode()),
		zap.String("storage_backend", cfg.Storage.Backend))

	return &Client{
		store:       store,
		guest:       guest,
		session:     session,
		coordinator: coordinator,
	}, nil
}

// Coordinator возвращает координатор сессии.
func (c *Client) Coordinator() *app.Coordinator {
	return c.coordinator
}

// Notes возвращает активный репозиторий текущего режима.
func (c *Client) Notes() repositories.NotesRepository {
	return c.coordinator.Repository()
}

// Mode возвращает текущий режим.
func (c *Client) Mode() entities.AuthMode {
	return c.coordinator.Mode()
}

// Identity возвращает пользователя текущей сессии или entities.ErrNoSession.
func (c *Client) Identity(ctx context.Context) (*entities.Identity, error) {
	return c.session.CurrentIdentity(ctx)
}

// SignIn сохраняет ID-токен и переносит гостевые заметки.
// Результат nil, если переносить было нечего.
func (c *Client) SignIn(ctx context.Context, idToken string, progress app.ProgressFunc) (*entities.MigrationResult, error) {
	if _, err := c.session.SignIn(ctx, idToken); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSignIn, err)
	}
	return c.coordinator.SignedIn(ctx, progress)
}

// Logout завершает сессию.
func (c *Client) Logout(ctx context.Context) error {
	return c.coordinator.Logout(ctx)
}

// RetryMigration повторяет перенос гостевых заметок.
func (c *Client) RetryMigration(ctx context.Context, progress app.ProgressFunc) (*entities.MigrationResult, error) {
	return c.coordinator.RetryMigration(ctx, progress)
}

// GuestNotesPending сообщает, остались ли гостевые заметки.
func (c *Client) GuestNotesPending(ctx context.Context) (bool, error) {
	return c.guest.HasNotes(ctx)
}

// StorageAvailable проверяет запись в локальное хранилище.
func (c *Client) StorageAvailable(ctx context.Context) bool {
	return c.store.Available(ctx)
}

// HasRoomForNotes проверяет, что в хранилище осталось около 1 МиБ.
func (c *Client) HasRoomForNotes(ctx context.Context) bool {
	return c.store.QuotaProbe(ctx)
}

// Close закрывает хранилище.
func (c *Client) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}
