package app

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"notekeeper/internal/notes/domain/entities"
)

// FilterNotes оставляет заметки, у которых query встречается в заголовке
// или содержимом без учета регистра. Пустой query возвращает все заметки.
func FilterNotes(notes []entities.Note, query string) []entities.Note {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(notes)
	}

	filtered := make([]entities.Note, 0, len(notes))
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), query) ||
			strings.Contains(strings.ToLower(note.Content), query) {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

// MatchTitles оставляет заметки, заголовок которых соответствует glob-шаблону
// (поддерживаются *, ?, [...] и {a,b}).
func MatchTitles(notes []entities.Note, pattern string) ([]entities.Note, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid title pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	matched := make([]entities.Note, 0, len(notes))
	for _, note := range notes {
		ok, err := doublestar.Match(pattern, note.Title)
		if err != nil {
			return nil, fmt.Errorf("match title pattern %q: %w", pattern, err)
		}
		if ok {
			matched = append(matched, note)
		}
	}
	return matched, nil
}

// SortByRecency возвращает копию, отсортированную по CreatedAt от новых к старым.
// Заметки с одинаковым временем сохраняют исходный порядок.
func SortByRecency(notes []entities.Note) []entities.Note {
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b entities.Note) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}

// Highlight оборачивает вхождения query (без учета регистра) в open и closeTag.
func Highlight(text, query, open, closeTag string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return text
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return open + match + closeTag
	})
}
