// Package storage persists the whole task collection as one JSON blob.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskkeeper/internal/core/domain"
	"taskkeeper/internal/core/ports"
	"taskkeeper/internal/core/validation"
)

const DefaultKey = "@tasks"

type taskRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type TaskStore struct {
	blobs ports.BlobStore
	key   string
}

var _ ports.TaskStore = (*TaskStore)(nil)

func NewTaskStore(blobs ports.BlobStore, key string) *TaskStore {
	if key == "" {
		key = DefaultKey
	}
	return &TaskStore{blobs: blobs, key: key}
}

// LoadAll never fails: a missing, unreadable or corrupt blob yields an empty collection.
func (s *TaskStore) LoadAll(ctx context.Context) []domain.Task {
	data, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ports.ErrBlobNotFound) {
			zap.L().Error("failed to read stored tasks", zap.String("key", s.key), zap.Error(err))
		}
		return []domain.Task{}
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		zap.L().Error("failed to decode stored tasks", zap.String("key", s.key), zap.Error(err))
		return []domain.Task{}
	}
	return tasks
}

func (s *TaskStore) SaveAll(ctx context.Context, tasks []domain.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	if err := s.blobs.Set(ctx, s.key, data); err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *TaskStore) Clear(ctx context.Context) error {
	if err := s.blobs.Delete(ctx, s.key); err != nil && !errors.Is(err, ports.ErrBlobNotFound) {
		return &domain.PersistenceError{Op: "clear", Err: err}
	}
	return nil
}

func (s *TaskStore) Ping(ctx context.Context) error {
	return s.blobs.Ping(ctx)
}

func encodeTasks(tasks []domain.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, taskRecord{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Status:      string(task.Status),
			Priority:    string(task.Priority),
			CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339Nano),
			UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return json.Marshal(records)
}

func decodeTasks(data []byte) ([]domain.Task, error) {
	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, record := range records {
		task, err := recordToTask(record)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		if _, dup := seen[task.ID]; dup {
			return nil, fmt.Errorf("task %d: duplicate id %q", i, task.ID)
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// recordToTask rejects records that could not have been written by the
// service: the same form rules apply and updatedAt never precedes createdAt.
func recordToTask(record taskRecord) (domain.Task, error) {
	if record.ID == "" {
		return domain.Task{}, errors.New("missing id")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, record.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("parse createdAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, record.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("parse updatedAt: %w", err)
	}

	if updatedAt.Before(createdAt) {
		return domain.Task{}, fmt.Errorf("updatedAt %s precedes createdAt %s", record.UpdatedAt, record.CreatedAt)
	}

	fields, err := validation.ValidateForm(domain.FormInput{
		Title:       record.Title,
		Description: record.Description,
		Status:      record.Status,
		Priority:    record.Priority,
	})
	if err != nil {
		return domain.Task{}, err
	}

	return domain.Task{
		ID:          record.ID,
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
		Priority:    fields.Priority,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}, nil
}
