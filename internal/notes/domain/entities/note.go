// Package entities defines the domain entities of the notes client.
package entities

import "time"

// Note - единственная сохраняемая сущность: заметка пользователя.
type Note struct {
	NoteID    string    `json:"noteId" yaml:"noteId"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Timestamp приводит время к UTC с точностью до миллисекунд,
// как это делает ISO-8601 представление в удаленном API.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// NewNote создает заметку с одинаковыми отметками создания и изменения.
func NewNote(noteID, title, content string, now time.Time) Note {
	ts := Timestamp(now)
	return Note{
		NoteID:    noteID,
		Title:     title,
		Content:   content,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Touch заменяет заголовок и содержимое и обновляет UpdatedAt.
// UpdatedAt никогда не уменьшается, даже если часы ушли назад.
func (n Note) Touch(title, content string, now time.Time) Note {
	ts := Timestamp(now)
	if ts.Before(n.UpdatedAt) {
		ts = n.UpdatedAt
	}
	n.Title = title
	n.Content = content
	n.UpdatedAt = ts
	return n
}
