// Package projection derives the filtered and sorted task view.
package projection

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskkeeper/internal/core/domain"
)

// Project returns the tasks matching filter, ordered by sortSpec. The input
// slice is never modified. Ties keep their collection order.
func Project(tasks []domain.Task, filter domain.TaskFilter, sortSpec domain.TaskSort) []domain.Task {
	result := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if Matches(task, filter) {
			result = append(result, task)
		}
	}

	compare := comparator(sortSpec.SortBy)
	if compare == nil {
		return result
	}
	if sortSpec.Order == domain.SortOrderDesc {
		asc := compare
		compare = func(a, b domain.Task) int { return -asc(a, b) }
	}

	slices.SortStableFunc(result, compare)
	return result
}

func Matches(task domain.Task, filter domain.TaskFilter) bool {
	if filter.Status != nil && task.Status != *filter.Status {
		return false
	}
	if filter.Priority != nil && task.Priority != *filter.Priority {
		return false
	}
	if filter.SearchTerm != "" {
		term := strings.ToLower(filter.SearchTerm)
		if !strings.Contains(strings.ToLower(task.Title), term) &&
			!strings.Contains(strings.ToLower(task.Description), term) {
			return false
		}
	}
	return true
}

func comparator(field domain.SortField) func(a, b domain.Task) int {
	switch field {
	case domain.SortFieldCreatedAt:
		return func(a, b domain.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case domain.SortFieldTitle:
		// Collators keep internal buffers, so each projection gets its own.
		collator := collate.New(language.English)
		return func(a, b domain.Task) int { return collator.CompareString(a.Title, b.Title) }
	case domain.SortFieldPriority:
		return func(a, b domain.Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	case domain.SortFieldNone:
		return nil
	default:
		return nil
	}
}
