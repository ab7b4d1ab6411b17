package tests

import (
	"context"

	"taskkeeper/internal/core/domain"
	"taskkeeper/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type taskServiceMock struct {
	mock.Mock
}

var _ ports.TaskService = (*taskServiceMock)(nil)

func taskList(value any) []domain.Task {
	if value == nil {
		return nil
	}
	return value.([]domain.Task)
}

func (m *taskServiceMock) Loading() bool {
	return m.Called().Bool(0)
}

func (m *taskServiceMock) Tasks() []domain.Task {
	return taskList(m.Called().Get(0))
}

func (m *taskServiceMock) FilteredTasks() []domain.Task {
	return taskList(m.Called().Get(0))
}

func (m *taskServiceMock) Stats() domain.TaskStats {
	return m.Called().Get(0).(domain.TaskStats)
}

func (m *taskServiceMock) GetByID(id string) (domain.Task, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.Task), args.Bool(1)
}

func (m *taskServiceMock) Create(ctx context.Context, input domain.FormInput) (domain.Task, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *taskServiceMock) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *taskServiceMock) Filter() domain.TaskFilter {
	return m.Called().Get(0).(domain.TaskFilter)
}

func (m *taskServiceMock) Sort() domain.TaskSort {
	return m.Called().Get(0).(domain.TaskSort)
}

func (m *taskServiceMock) SetFilter(patch domain.TaskFilterPatch) {
	m.Called(patch)
}

func (m *taskServiceMock) SetSort(patch domain.TaskSortPatch) {
	m.Called(patch)
}

func (m *taskServiceMock) ClearFilters() {
	m.Called()
}

func (m *taskServiceMock) LastPersistenceError() error {
	return m.Called().Error(0)
}

type taskStoreMock struct {
	mock.Mock
}

var _ ports.TaskStore = (*taskStoreMock)(nil)

func (m *taskStoreMock) LoadAll(ctx context.Context) []domain.Task {
	return taskList(m.Called(ctx).Get(0))
}

func (m *taskStoreMock) SaveAll(ctx context.Context, tasks []domain.Task) error {
	return m.Called(ctx, tasks).Error(0)
}

func (m *taskStoreMock) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *taskStoreMock) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
