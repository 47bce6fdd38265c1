package entities

// MigrationError описывает заметку, которую не удалось перенести.
type MigrationError struct {
	NoteID string `json:"noteId" yaml:"noteId"`
	Title  string `json:"title" yaml:"title"`
	Error  string `json:"error" yaml:"error"`
}

// MigrationResult - итог одной попытки миграции гостевых заметок.
// Хранится только в памяти сессии.
type MigrationResult struct {
	Success       bool             `json:"success" yaml:"success"`
	TotalNotes    int              `json:"totalNotes" yaml:"totalNotes"`
	MigratedCount int              `json:"migratedCount" yaml:"migratedCount"`
	FailedCount   int              `json:"failedCount" yaml:"failedCount"`
	Errors        []MigrationError `json:"errors" yaml:"errors"`
}

// NewMigrationResult собирает результат и вычисляет Success и FailedCount.
func NewMigrationResult(total, migrated int, errs []MigrationError) *MigrationResult {
	if errs == nil {
		errs = []MigrationError{}
	}
	return &MigrationResult{
		Success:       len(errs) == 0,
		TotalNotes:    total,
		MigratedCount: migrated,
		FailedCount:   len(errs),
		Errors:        errs,
	}
}
