package domain

import "strings"

// TaskFilter narrows the projected view. A nil or empty field places no constraint.
type TaskFilter struct {
	Status     *TaskStatus
	Priority   *TaskPriority
	SearchTerm string
}

func (f TaskFilter) IsZero() bool {
	return f.Status == nil && f.Priority == nil && f.SearchTerm == ""
}

// TaskFilterPatch updates part of a TaskFilter. StatusSet and PrioritySet mark
// the dimension as supplied, so a nil value clears it.
type TaskFilterPatch struct {
	Status      *TaskStatus
	StatusSet   bool
	Priority    *TaskPriority
	PrioritySet bool
	SearchTerm  *string
}

func (p TaskFilterPatch) Apply(filter TaskFilter) TaskFilter {
	if p.StatusSet {
		filter.Status = p.Status
	}
	if p.PrioritySet {
		filter.Priority = p.Priority
	}
	if p.SearchTerm != nil {
		filter.SearchTerm = *p.SearchTerm
	}
	return filter
}

type SortField string

const (
	// SortFieldNone keeps collection order.
	SortFieldNone      SortField = ""
	SortFieldCreatedAt SortField = "createdAt"
	SortFieldTitle     SortField = "title"
	SortFieldPriority  SortField = "priority"
)

// ParseSortField matches value against the sort fields ignoring case.
func ParseSortField(value string) (SortField, bool) {
	for _, field := range []SortField{SortFieldCreatedAt, SortFieldTitle, SortFieldPriority} {
		if strings.EqualFold(value, string(field)) {
			return field, true
		}
	}
	return SortFieldNone, value == ""
}

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ParseSortOrder matches value against the sort orders ignoring case.
func ParseSortOrder(value string) (SortOrder, bool) {
	for _, order := range []SortOrder{SortOrderAsc, SortOrderDesc} {
		if strings.EqualFold(value, string(order)) {
			return order, true
		}
	}
	return "", false
}

type TaskSort struct {
	SortBy SortField
	Order  SortOrder
}

func DefaultTaskSort() TaskSort {
	return TaskSort{SortBy: SortFieldNone, Order: SortOrderAsc}
}

type TaskSortPatch struct {
	SortBy *SortField
	Order  *SortOrder
}

func (p TaskSortPatch) Apply(sort TaskSort) TaskSort {
	if p.SortBy != nil {
		sort.SortBy = *p.SortBy
	}
	if p.Order != nil {
		sort.Order = *p.Order
	}
	return sort
}
