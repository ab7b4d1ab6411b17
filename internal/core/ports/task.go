package ports

import (
	"context"
	"errors"

	"taskkeeper/internal/core/domain"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is a durable key-value facility holding opaque values.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type TaskStore interface {
	LoadAll(ctx context.Context) []domain.Task
	SaveAll(ctx context.Context, tasks []domain.Task) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

type TaskService interface {
	Loading() bool
	Tasks() []domain.Task
	FilteredTasks() []domain.Task
	Stats() domain.TaskStats
	GetByID(id string) (domain.Task, bool)
	Create(ctx context.Context, input domain.FormInput) (domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, id string) error
	Reset(ctx context.Context) error

	Filter() domain.TaskFilter
	Sort() domain.TaskSort
	SetFilter(patch domain.TaskFilterPatch)
	SetSort(patch domain.TaskSortPatch)
	ClearFilters()

	LastPersistenceError() error
}
