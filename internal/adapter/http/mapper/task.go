package mapper

import (
	"time"

	"taskkeeper/internal/adapter/http/dto"
	"taskkeeper/internal/core/domain"
	"taskkeeper/pkg/apierrors"
)

const (
	FilterAll = "all"
	SortNone  = "none"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	return dto.TaskItem{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func ToTaskStatsItem(stats domain.TaskStats) dto.TaskStatsItem {
	return dto.TaskStatsItem{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
	}
}

func ToTaskFilterItem(filter domain.TaskFilter) dto.TaskFilterItem {
	item := dto.TaskFilterItem{
		Status:     FilterAll,
		Priority:   FilterAll,
		SearchTerm: filter.SearchTerm,
	}
	if filter.Status != nil {
		item.Status = string(*filter.Status)
	}
	if filter.Priority != nil {
		item.Priority = string(*filter.Priority)
	}
	return item
}

func ToTaskSortItem(sort domain.TaskSort) dto.TaskSortItem {
	item := dto.TaskSortItem{
		SortBy: string(sort.SortBy),
		Order:  string(sort.Order),
	}
	if sort.SortBy == domain.SortFieldNone {
		item.SortBy = SortNone
	}
	return item
}

func ToTaskViewResponse(tasks []domain.Task, filter domain.TaskFilter, sort domain.TaskSort) dto.TaskViewResponse {
	return dto.TaskViewResponse{
		Filter: ToTaskFilterItem(filter),
		Sort:   ToTaskSortItem(sort),
		Tasks:  ToTaskItems(tasks),
	}
}

// ToFieldMessages keys each violation by field and rule ("titleTooShort").
// Fields without a recorded rule keep their plain message.
func ToFieldMessages(err *domain.ValidationError) map[string]apierrors.FieldMessage {
	messages := make(map[string]apierrors.FieldMessage, len(err.Fields))
	for field, message := range err.Fields {
		fieldMessage := apierrors.FieldMessage{Default: message}
		if rule, ok := err.Rules[field]; ok {
			fieldMessage.MessageID = field + rule.ID
			if rule.Limit > 0 {
				fieldMessage.TemplateData = map[string]any{"Limit": rule.Limit}
			}
		}
		messages[field] = fieldMessage
	}
	return messages
}
