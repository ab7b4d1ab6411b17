package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

func ParseTaskStatus(value string) (TaskStatus, bool) {
	status := TaskStatus(value)
	return status, status.Valid()
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: high=3, medium=2, low=1. Unknown values rank 0.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	default:
		return 0
	}
}

func ParseTaskPriority(value string) (TaskPriority, bool) {
	priority := TaskPriority(value)
	return priority, priority.Valid()
}

type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormInput carries unvalidated values as typed by the user.
type FormInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// TaskPatch is a partial FormInput. A nil field is absent and left unchanged;
// a non-nil field is supplied, even when it points to an empty string.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil
}

type ValidatedFields struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
}

type ValidatedPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
}

// Apply merges the supplied fields into task and returns the result.
func (p ValidatedPatch) Apply(task Task) Task {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	return task
}

type TaskStats struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
}
