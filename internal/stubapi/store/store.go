// Package store хранит заметки dev-заглушки API в памяти процесса.
package store

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"notekeeper/internal/notes/domain/entities"
)

// ErrNoteNotFound - заметки с таким noteId нет у пользователя.
var ErrNoteNotFound = errors.New("note not found")

// Store - заметки, сгруппированные по пользователю, в порядке создания.
type Store struct {
	mu    sync.RWMutex
	notes map[string][]entities.Note
	now   func() time.Time
	newID func() string
}

// New создает пустое хранилище.
func New() *Store {
	return &Store{
		notes: make(map[string][]entities.Note),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// List возвращает копию заметок пользователя.
func (s *Store) List(userID string) []entities.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := slices.Clone(s.notes[userID])
	if notes == nil {
		return []entities.Note{}
	}
	return notes
}

// Get возвращает одну заметку пользователя.
func (s *Store) Get(userID, noteID string) (entities.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(userID, noteID)
	if idx < 0 {
		return entities.Note{}, ErrNoteNotFound
	}
	return s.notes[userID][idx], nil
}

// Create добавляет заметку в конец списка пользователя.
func (s *Store) Create(userID, title, content string) entities.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := entities.NewNote(s.newID(), title, content, s.now())
	s.notes[userID] = append(s.notes[userID], note)
	return note
}

// Update заменяет заголовок и содержимое заметки.
func (s *Store) Update(userID, noteID, title, content string) (entities.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(userID, noteID)
	if idx < 0 {
		return entities.Note{}, ErrNoteNotFound
	}
	updated := s.notes[userID][idx].Touch(title, content, s.now())
	s.notes[userID][idx] = updated
	return updated, nil
}

// Delete удаляет заметку.
func (s *Store) Delete(userID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(userID, noteID)
	if idx < 0 {
		return ErrNoteNotFound
	}
	s.notes[userID] = slices.Delete(s.notes[userID], idx, idx+1)
	return nil
}

func (s *Store) indexOf(userID, noteID string) int {
	return slices.IndexFunc(s.notes[userID], func(n entities.Note) bool {
		return n.NoteID == noteID
	})
}
