// Package handlers содержит HTTP обработчики заглушки API заметок.
package handlers

import "notekeeper/internal/notes/domain/entities"

// NoteRequest - тело POST /notes и PUT /notes/{noteId}.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NotesResponse - ответ GET /notes.
type NotesResponse struct {
	Notes []entities.Note `json:"notes"`
}

// TokenRequest - тело POST /auth/token.
type TokenRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenResponse - выпущенный dev ID токен.
type TokenResponse struct {
	IDToken   string `json:"idToken"`
	ExpiresIn int64  `json:"expiresIn"`
}
