package entities

import "errors"

// Ошибки предметной области.
var (
	// ErrStorageWriteFailed - запись в локальное хранилище не завершилась (квота или сериализация).
	ErrStorageWriteFailed = errors.New("storage write failed")
	// ErrNotFound - заметка с указанным noteId отсутствует в коллекции.
	ErrNotFound = errors.New("note not found")
	// ErrRemoteRequestFailed - API заметок ответило неуспешным статусом или запрос не был доставлен.
	ErrRemoteRequestFailed = errors.New("remote request failed")
	// ErrAuthentication - не удалось получить токен сессии, запрос не отправлялся.
	ErrAuthentication = errors.New("authentication error")
	// ErrMigrationAttemptExhausted - все попытки переноса одной заметки завершились ошибкой.
	ErrMigrationAttemptExhausted = errors.New("migration attempts exhausted")

	// ErrNoSession - у внешнего провайдера аутентификации нет текущей сессии.
	ErrNoSession = errors.New("no active session")
	// ErrMigrationInProgress - миграция уже выполняется.
	ErrMigrationInProgress = errors.New("migration already in progress")
	// ErrNotAuthenticated - операция требует режима authenticated.
	ErrNotAuthenticated = errors.New("not authenticated")
)
