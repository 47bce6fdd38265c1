// Package app содержит прикладную логику клиента заметок:
// координатор сессии, перенос гостевых заметок и поиск.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/internal/notes/resilience"
	"notekeeper/pkg/logger"
)

// Параметры повторов по умолчанию при переносе одной заметки.
const (
	DefaultMigrationAttempts    = 3
	DefaultMigrationBackoffStep = time.Second
)

// Константы для логирования.
const (
	LogMigrationStarted    = "migration started"
	LogMigrationFinished   = "migration finished"
	LogMigrationNoteFailed = "failed to migrate note"
	LogNoteAlreadyMigrated = "note already migrated, skipping"
	LogLedgerUpdateFailed  = "failed to record migrated note"
	LogGuestNotesCleared   = "guest notes cleared after migration"
)

// ProgressFunc получает (обработано, всего) после каждой заметки.
type ProgressFunc func(current, total int)

// MigrateOptions - необязательные параметры переноса.
type MigrateOptions struct {
	OnProgress ProgressFunc
	// Ledger позволяет повторной миграции пропускать уже перенесенные заметки.
	// Используется только вместе с AccountID.
	Ledger    repositories.MigrationLedger
	AccountID string
}

// MigrationPolicy возвращает политику повторов: attempts попыток,
// задержка step перед второй, 2*step перед третьей и т.д.
func MigrationPolicy(attempts int, step time.Duration) resilience.Policy {
	return resilience.Policy{
		MaxAttempts: attempts,
		Backoff:     resilience.LinearBackoff(step),
		ShouldRetry: func(err error) bool {
			return !errors.Is(err, context.Canceled)
		},
	}
}

// Migrator переносит гостевые заметки в аккаунт.
type Migrator struct {
	policy resilience.Policy
	opts   []resilience.Option
}

// NewMigrator создает Migrator с заданной политикой повторов.
func NewMigrator(policy resilience.Policy, opts ...resilience.Option) *Migrator {
	return &Migrator{policy: policy, opts: opts}
}

// MigrateNotes переносит заметки по одной в порядке хранения.
// Ошибки отдельных заметок попадают в результат; ошибкой завершается
// только чтение гостевой коллекции. Коллекция очищается, если ошибок не было.
func (m *Migrator) MigrateNotes(
	ctx context.Context,
	guest repositories.GuestNotesRepository,
	account repositories.NotesRepository,
	opts MigrateOptions,
) (*entities.MigrationResult, error) {
	log := logger.Log(ctx)

	notes, err := guest.FetchNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch guest notes: %w", err)
	}

	total := len(notes)
	if total == 0 {
		return entities.NewMigrationResult(0, 0, nil), nil
	}

	log.Info(ctx, LogMigrationStarted, zap.Int("total", total))

	ledger := opts.Ledger
	if opts.AccountID == "" {
		ledger = nil
	}

	retry := resilience.NewRetry("migrate-note", m.policy, m.opts...)
	migrated := 0
	var failures []entities.MigrationError

	for i, note := range notes {
		noteLog := log.With(zap.String("note_id", note.NoteID))

		switch {
		case ledger != nil && ledger.IsMigrated(ctx, opts.AccountID, note.NoteID):
			noteLog.Debug(ctx, LogNoteAlreadyMigrated)
			migrated++
		default:
			err := retry.Execute(ctx, func(ctx context.Context) error {
				_, err := account.CreateNote(ctx, note.Title, note.Content)
				return err
			})
			if err != nil {
				noteLog.Warn(ctx, LogMigrationNoteFailed,
					zap.Error(fmt.Errorf("%w: %w", entities.ErrMigrationAttemptExhausted, err)))
				failures = append(failures, entities.MigrationError{
					NoteID: note.NoteID,
					Title:  note.Title,
					Error:  err.Error(),
				})
				break
			}

			migrated++
			if ledger != nil {
				if err := ledger.MarkMigrated(ctx, opts.AccountID, note.NoteID); err != nil {
					noteLog.Warn(ctx, LogLedgerUpdateFailed, zap.Error(err))
				}
			}
		}

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, total)
		}
	}

	if len(failures) == 0 {
		guest.ClearAllNotes(ctx)
		log.Debug(ctx, LogGuestNotesCleared)
	}

	result := entities.NewMigrationResult(total, migrated, failures)
	log.Info(ctx, LogMigrationFinished,
		zap.Int("total", result.TotalNotes),
		zap.Int("migrated", result.MigratedCount),
		zap.Int("failed", result.FailedCount))

	return result, nil
}
