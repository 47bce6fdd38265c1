// Package local реализует гостевое хранилище заметок поверх локального хранилища ключ-значение.
package local

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/storage"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

// Ключи гостевой коллекции.
const (
	// NotesKey - JSON-массив заметок гостя.
	NotesKey = "GUEST_NOTES_V1"
	// LedgerKey - аккаунт и идентификаторы заметок, уже перенесенных в него.
	LedgerKey = NotesKey + "_MIGRATED"
)

// Константы для логирования.
const (
	LogNoteCreated       = "guest note created"
	LogNoteUpdated       = "guest note updated"
	LogNoteDeleted       = "guest note deleted"
	LogNotesCleared      = "guest notes cleared"
	LogFailedToClear     = "failed to clear guest notes"
	LogFailedToSaveNotes = "failed to save guest notes"
)

// Option настраивает Repository.
type Option func(*Repository)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithIDGenerator подменяет генератор идентификаторов.
func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) {
		r.newID = newID
	}
}

// Repository хранит гостевые заметки под одним ключом.
// Каждая мутация перезаписывает всю коллекцию.
type Repository struct {
	store *storage.Adapter
	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

// NewRepository создает гостевой репозиторий.
func NewRepository(store *storage.Adapter, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) load(ctx context.Context) []entities.Note {
	var notes []entities.Note
	if !r.store.Get(ctx, NotesKey, &notes) || notes == nil {
		return []entities.Note{}
	}
	return notes
}

func (r *Repository) save(ctx context.Context, notes []entities.Note) error {
	if !r.store.Set(ctx, NotesKey, notes) {
		logger.Log(ctx).Warn(ctx, LogFailedToSaveNotes, zap.Int("count", len(notes)))
		return entities.ErrStorageWriteFailed
	}
	return nil
}

// FetchNotes возвращает заметки в порядке хранения.
func (r *Repository) FetchNotes(ctx context.Context) ([]entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx), nil
}

// CreateNote добавляет заметку в конец коллекции.
func (r *Repository) CreateNote(ctx context.Context, title, content string) (entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note := entities.NewNote(r.newID(), title, content, r.now())
	notes := append(r.load(ctx), note)

	if err := r.save(ctx, notes); err != nil {
		return entities.Note{}, fmt.Errorf("create note: %w", err)
	}

	logger.Log(ctx).Debug(ctx, LogNoteCreated, zap.String("note_id", note.NoteID))
	return note, nil
}

// UpdateNote заменяет заголовок и содержимое, сохраняя позицию заметки.
func (r *Repository) UpdateNote(ctx context.Context, noteID, title, content string) (entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notes := r.load(ctx)
	for i := range notes {
		if notes[i].NoteID != noteID {
			continue
		}

		notes[i] = notes[i].Touch(title, content, r.now())
		if err := r.save(ctx, notes); err != nil {
			return entities.Note{}, fmt.Errorf("update note %s: %w", noteID, err)
		}

		logger.Log(ctx).Debug(ctx, LogNoteUpdated, zap.String("note_id", noteID))
		return notes[i], nil
	}

	return entities.Note{}, fmt.Errorf("update note %s: %w", noteID, entities.ErrNotFound)
}

// DeleteNote удаляет заметку по идентификатору.
func (r *Repository) DeleteNote(ctx context.Context, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notes := r.load(ctx)
	kept := make([]entities.Note, 0, len(notes))
	for _, note := range notes {
		if note.NoteID != noteID {
			kept = append(kept, note)
		}
	}

	if len(kept) == len(notes) {
		return fmt.Errorf("delete note %s: %w", noteID, entities.ErrNotFound)
	}

	if err := r.save(ctx, kept); err != nil {
		return fmt.Errorf("delete note %s: %w", noteID, err)
	}

	logger.Log(ctx).Debug(ctx, LogNoteDeleted, zap.String("note_id", noteID))
	return nil
}

// HasNotes сообщает, есть ли гостевые заметки.
func (r *Repository) HasNotes(ctx context.Context) (bool, error) {
	notes, err := r.FetchNotes(ctx)
	if err != nil {
		return false, err
	}
	return len(notes) > 0, nil
}

// ClearAllNotes записывает пустую коллекцию и удаляет журнал миграции.
// Ошибка записи только логируется.
func (r *Repository) ClearAllNotes(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.store.Set(ctx, NotesKey, []entities.Note{}) {
		logger.Log(ctx).Error(ctx, LogFailedToClear)
		return
	}
	r.store.Remove(ctx, LedgerKey)

	logger.Log(ctx).Debug(ctx, LogNotesCleared)
}

// migrationLedger - журнал переноса, привязанный к аккаунту.
type migrationLedger struct {
	UserID  string   `json:"userId"`
	NoteIDs []string `json:"noteIds"`
}

// IsMigrated сообщает, была ли заметка уже создана в аккаунте accountID.
// Журнал другого аккаунта считается пустым.
func (r *Repository) IsMigrated(ctx context.Context, accountID, noteID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Contains(r.loadLedger(ctx, accountID).NoteIDs, noteID)
}

// MarkMigrated добавляет заметку в журнал аккаунта accountID.
// Журнал другого аккаунта при этом заменяется.
func (r *Repository) MarkMigrated(ctx context.Context, accountID, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger := r.loadLedger(ctx, accountID)
	ledger.NoteIDs = append(ledger.NoteIDs, noteID)
	if !r.store.Set(ctx, LedgerKey, ledger) {
		return fmt.Errorf("mark note %s migrated: %w", noteID, entities.ErrStorageWriteFailed)
	}
	return nil
}

func (r *Repository) loadLedger(ctx context.Context, accountID string) migrationLedger {
	var ledger migrationLedger
	if !r.store.Get(ctx, LedgerKey, &ledger) || ledger.UserID != accountID {
		return migrationLedger{UserID: accountID}
	}
	return ledger
}
