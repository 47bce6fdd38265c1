package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/internal/notes/ports/services"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogModeChanged      = "auth mode changed"
	LogIdentityDetected = "identity detected"
	LogLogoutFailed     = "sign out failed, keeping current mode"
	LogLedgerDisabled   = "account identity unavailable, migration ledger disabled"
)

// RemoteFactory создает репозиторий аккаунта для новой сессии.
type RemoteFactory func(ctx context.Context) repositories.NotesRepository

// Coordinator - единственный владелец режима аутентификации и активного репозитория.
// Все переходы выполняются именованными методами.
type Coordinator struct {
	auth     services.AuthProvider
	guest    repositories.GuestNotesRepository
	remote   RemoteFactory
	migrator *Migrator

	mu            sync.RWMutex
	mode          entities.AuthMode
	repo          repositories.NotesRepository
	account       repositories.NotesRepository
	lastResult    *entities.MigrationResult
	showAuthModal bool
}

// NewCoordinator создает координатор в гостевом режиме.
func NewCoordinator(
	auth services.AuthProvider,
	guest repositories.GuestNotesRepository,
	remote RemoteFactory,
	migrator *Migrator,
) *Coordinator {
	return &Coordinator{
		auth:     auth,
		guest:    guest,
		remote:   remote,
		migrator: migrator,
		mode:     entities.AuthModeGuest,
		repo:     guest,
	}
}

// Init определяет режим по текущей сессии.
// Отсутствие сессии - гостевой режим; прочие ошибки возвращаются, режим остается гостевым.
func (c *Coordinator) Init(ctx context.Context) error {
	identity, err := c.auth.CurrentIdentity(ctx)
	if err != nil {
		if errors.Is(err, entities.ErrNoSession) {
			c.SignedOut(ctx)
			return nil
		}
		return fmt.Errorf("detect identity: %w", err)
	}

	logger.Log(ctx).Debug(ctx, LogIdentityDetected, zap.String("user_id", identity.UserID))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.enterAuthenticated(ctx)
	return nil
}

// Mode возвращает текущий режим.
func (c *Coordinator) Mode() entities.AuthMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Repository возвращает активный репозиторий. Не храните его между операциями:
// после смены режима он будет другим.
func (c *Coordinator) Repository() repositories.NotesRepository {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repo
}

// LastMigration возвращает результат последней миграции в этой сессии.
func (c *Coordinator) LastMigration() *entities.MigrationResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastResult
}

// SignedIn переводит координатор в режим authenticated и, если есть гостевые
// заметки, переносит их. Без гостевых заметок возвращает (nil, nil).
func (c *Coordinator) SignedIn(ctx context.Context, progress ProgressFunc) (*entities.MigrationResult, error) {
	c.mu.Lock()
	if c.mode == entities.AuthModeMigrating {
		c.mu.Unlock()
		return nil, entities.ErrMigrationInProgress
	}
	c.enterAuthenticated(ctx)
	c.mu.Unlock()

	hasNotes, err := c.guest.HasNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("check guest notes: %w", err)
	}
	if !hasNotes {
		return nil, nil
	}

	return c.migrate(ctx, progress)
}

// RetryMigration повторяет перенос всех оставшихся гостевых заметок.
func (c *Coordinator) RetryMigration(ctx context.Context, progress ProgressFunc) (*entities.MigrationResult, error) {
	return c.migrate(ctx, progress)
}

// MigrationFinished завершает миграцию: режим authenticated, новый репозиторий аккаунта.
func (c *Coordinator) MigrationFinished(ctx context.Context, result *entities.MigrationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastResult = result
	c.enterAuthenticated(ctx)
}

// SignedOut переводит координатор в гостевой режим.
func (c *Coordinator) SignedOut(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastResult = nil
	c.account = nil
	c.repo = c.guest
	c.setMode(ctx, entities.AuthModeGuest)
}

// Logout завершает сессию. Режим меняется только после успешного выхода;
// ошибка выхода возвращается без смены режима.
func (c *Coordinator) Logout(ctx context.Context) error {
	if c.Mode() == entities.AuthModeMigrating {
		return entities.ErrMigrationInProgress
	}

	if err := c.auth.SignOut(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, LogLogoutFailed, zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}

	c.SignedOut(ctx)
	return nil
}

// RequestSignIn показывает предложение войти (например, после переполнения хранилища).
func (c *Coordinator) RequestSignIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showAuthModal = true
}

// DismissSignIn скрывает предложение войти.
func (c *Coordinator) DismissSignIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showAuthModal = false
}

// SignInRequested сообщает, нужно ли показать предложение войти.
func (c *Coordinator) SignInRequested() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.showAuthModal
}

func (c *Coordinator) migrate(ctx context.Context, progress ProgressFunc) (*entities.MigrationResult, error) {
	c.mu.Lock()
	switch c.mode {
	case entities.AuthModeMigrating:
		c.mu.Unlock()
		return nil, entities.ErrMigrationInProgress
	case entities.AuthModeGuest:
		c.mu.Unlock()
		return nil, entities.ErrNotAuthenticated
	}
	account := c.account
	c.setMode(ctx, entities.AuthModeMigrating)
	c.mu.Unlock()

	// Журнал действителен только для того аккаунта, в который велся перенос.
	ledger, _ := c.guest.(repositories.MigrationLedger)
	var accountID string
	if identity, err := c.auth.CurrentIdentity(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, LogLedgerDisabled, zap.Error(err))
	} else {
		accountID = identity.UserID
	}

	result, err := c.migrator.MigrateNotes(ctx, c.guest, account, MigrateOptions{
		OnProgress: progress,
		Ledger:     ledger,
		AccountID:  accountID,
	})
	if err != nil {
		c.MigrationFinished(ctx, c.LastMigration())
		return nil, err
	}

	c.MigrationFinished(ctx, result)
	return result, nil
}

// enterAuthenticated вызывается под c.mu.
func (c *Coordinator) enterAuthenticated(ctx context.Context) {
	c.account = c.remote(ctx)
	c.repo = c.account
	c.showAuthModal = false
	c.setMode(ctx, entities.AuthModeAuthenticated)
}

// setMode вызывается под c.mu.
func (c *Coordinator) setMode(ctx context.Context, mode entities.AuthMode) {
	if c.mode != mode {
		logger.Log(ctx).Info(ctx, LogModeChanged,
			zap.Stringer("from", c.mode),
			zap.Stringer("to", mode))
	}
	c.mode = mode
}
