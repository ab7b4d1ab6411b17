package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"taskkeeper/internal/adapter/http/dto"
	"taskkeeper/internal/adapter/http/mapper"
	"taskkeeper/internal/core/domain"
)

var (
	ErrInvalidTaskPayload = errors.New("invalid task payload")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidSort        = errors.New("invalid sort")
)

// DecodeJSONObject decodes body into dst and also returns its top-level keys,
// so that absent and supplied fields can be told apart.
func DecodeJSONObject(body []byte, dst any) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, ErrInvalidTaskPayload
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, ErrInvalidTaskPayload
	}
	return raw, nil
}

func BuildFormInput(req dto.CreateTaskRequest) domain.FormInput {
	return domain.FormInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
}

// BuildTaskPatch keeps only supplied fields. Null values are rejected since
// every task field is required.
func BuildTaskPatch(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.TaskPatch, error) {
	if !hasAnyJSONField(raw, "title", "description", "status", "priority") {
		return domain.TaskPatch{}, ErrInvalidTaskPayload
	}
	for _, field := range []string{"title", "description", "status", "priority"} {
		if hasJSONField(raw, field) && isJSONNull(raw[field]) {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
	}

	return domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}, nil
}

// BuildFilterPatch accepts "all", "" or null to drop a status or priority constraint.
func BuildFilterPatch(req dto.UpdateTaskFilterRequest, raw map[string]json.RawMessage) (domain.TaskFilterPatch, error) {
	if !hasAnyJSONField(raw, "status", "priority", "searchTerm") {
		return domain.TaskFilterPatch{}, ErrInvalidFilter
	}

	var patch domain.TaskFilterPatch

	if hasJSONField(raw, "status") {
		patch.StatusSet = true
		if value, ok := constraintValue(req.Status); ok {
			status, valid := domain.ParseTaskStatus(value)
			if !valid {
				return domain.TaskFilterPatch{}, ErrInvalidFilter
			}
			patch.Status = &status
		}
	}

	if hasJSONField(raw, "priority") {
		patch.PrioritySet = true
		if value, ok := constraintValue(req.Priority); ok {
			priority, valid := domain.ParseTaskPriority(value)
			if !valid {
				return domain.TaskFilterPatch{}, ErrInvalidFilter
			}
			patch.Priority = &priority
		}
	}

	if hasJSONField(raw, "searchTerm") {
		term := ""
		if req.SearchTerm != nil {
			term = *req.SearchTerm
		}
		patch.SearchTerm = &term
	}

	return patch, nil
}

// BuildSortPatch accepts "none", "" or null for sortBy to restore collection order.
// Both sortBy and order are matched ignoring case.
func BuildSortPatch(req dto.UpdateTaskSortRequest, raw map[string]json.RawMessage) (domain.TaskSortPatch, error) {
	if !hasAnyJSONField(raw, "sortBy", "order") {
		return domain.TaskSortPatch{}, ErrInvalidSort
	}

	var patch domain.TaskSortPatch

	if hasJSONField(raw, "sortBy") {
		field := domain.SortFieldNone
		if req.SortBy != nil && !strings.EqualFold(*req.SortBy, mapper.SortNone) {
			var ok bool
			if field, ok = domain.ParseSortField(*req.SortBy); !ok {
				return domain.TaskSortPatch{}, ErrInvalidSort
			}
		}
		patch.SortBy = &field
	}

	if hasJSONField(raw, "order") {
		if req.Order == nil {
			return domain.TaskSortPatch{}, ErrInvalidSort
		}
		order, ok := domain.ParseSortOrder(*req.Order)
		if !ok {
			return domain.TaskSortPatch{}, ErrInvalidSort
		}
		patch.Order = &order
	}

	return patch, nil
}

func constraintValue(value *string) (string, bool) {
	if value == nil || *value == "" || *value == mapper.FilterAll {
		return "", false
	}
	return *value, true
}

func hasAnyJSONField(raw map[string]json.RawMessage, fields ...string) bool {
	for _, field := range fields {
		if hasJSONField(raw, field) {
			return true
		}
	}
	return false
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
