package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskkeeper/internal/adapter/storage"
	"taskkeeper/internal/app/service"
	"taskkeeper/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type taskStoreMock struct {
	mock.Mock
}

func (m *taskStoreMock) LoadAll(ctx context.Context) []domain.Task {
	args := m.Called(ctx)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks
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

// stepClock returns start, start+step, start+2*step, ...
type stepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

var start = time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

func strPtr(value string) *string { return &value }

func validInput(title string) domain.FormInput {
	return domain.FormInput{
		Title:       title,
		Description: "A description long enough",
		Status:      "pending",
		Priority:    "medium",
	}
}

func newReadyService(t *testing.T, store *storage.TaskStore, opts ...service.Option) *service.TaskService {
	t.Helper()

	svc := service.NewTaskService(store, opts...)
	t.Cleanup(func() { _ = svc.Close(context.Background()) })

	select {
	case <-svc.Initialize(context.Background()):
	case <-time.After(2 * time.Second):
		t.Fatal("initialize did not finish")
	}
	require.False(t, svc.Loading())
	return svc
}

func flush(t *testing.T, svc *service.TaskService) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, svc.Flush(ctx))
}

func TestTaskService_CreateThenGetByID(t *testing.T) {
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""))

	created, err := svc.Create(context.Background(), validInput("Buy milk"))
	require.NoError(t, err)

	got, ok := svc.GetByID(created.ID)
	require.True(t, ok)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "A description long enough", got.Description)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Equal(t, domain.TaskPriorityMedium, got.Priority)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestTaskService_CreateAssignsUniqueIDs(t *testing.T) {
	ids := []string{"dup", "dup", "other"}
	var mu sync.Mutex
	next := func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[0]
		ids = ids[1:]
		return id
	}
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""), service.WithIDGenerator(next))

	first, err := svc.Create(context.Background(), validInput("First"))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), validInput("Second"))
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "other", second.ID)
}

func TestTaskService_CreateValidationFailureLeavesCollection(t *testing.T) {
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""))

	_, err := svc.Create(context.Background(), validInput("Hi"))

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, domain.FieldTitle)
	assert.Empty(t, svc.Tasks())
	assert.Nil(t, svc.LastSave())
}

func TestTaskService_MutationsRejectedWhileLoading(t *testing.T) {
	store := new(taskStoreMock)
	release := make(chan struct{})
	store.On("LoadAll", mock.Anything).Run(func(mock.Arguments) { <-release }).Return([]domain.Task{}).Once()

	svc := service.NewTaskService(store)
	defer svc.Close(context.Background())

	ready := svc.Initialize(context.Background())
	assert.True(t, svc.Loading())
	assert.Empty(t, svc.Tasks())

	_, err := svc.Create(context.Background(), validInput("Too early"))
	require.ErrorIs(t, err, domain.ErrLoading)

	close(release)
	<-ready
	assert.False(t, svc.Loading())
	store.AssertExpectations(t)
}

func TestTaskService_InitializeLoadsOnce(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryBlobStore()
	store := storage.NewTaskStore(blobs, "")
	stored := []domain.Task{{
		ID:          "stored-1",
		Title:       "Stored task",
		Description: "Loaded from the blob store",
		Status:      domain.TaskStatusCompleted,
		Priority:    domain.TaskPriorityHigh,
		CreatedAt:   start,
		UpdatedAt:   start,
	}}
	require.NoError(t, store.SaveAll(ctx, stored))

	svc := newReadyService(t, store)
	assert.Equal(t, stored, svc.Tasks())

	require.NoError(t, store.SaveAll(ctx, nil))
	<-svc.Initialize(ctx)
	assert.Equal(t, stored, svc.Tasks(), "a second Initialize must not reload")
}

func TestTaskService_UpdateBumpsUpdatedAtAndKeepsOtherFields(t *testing.T) {
	clock := &stepClock{next: start, step: time.Second}
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""), service.WithClock(clock.Now))

	created, err := svc.Create(context.Background(), validInput("Buy milk"))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, domain.TaskPatch{Status: strPtr("in-progress")})
	require.NoError(t, err)

	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Priority, updated.Priority)

	got, ok := svc.GetByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got)
}

func TestTaskService_UpdateIsStrictlyLaterEvenWithFrozenClock(t *testing.T) {
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""),
		service.WithClock(func() time.Time { return start }))

	created, err := svc.Create(context.Background(), validInput("Buy milk"))
	require.NoError(t, err)

	first, err := svc.Update(context.Background(), created.ID, domain.TaskPatch{Priority: strPtr("high")})
	require.NoError(t, err)
	second, err := svc.Update(context.Background(), created.ID, domain.TaskPatch{Priority: strPtr("low")})
	require.NoError(t, err)

	assert.True(t, first.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestTaskService_UpdateValidationFailureLeavesTask(t *testing.T) {
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""))
	created, err := svc.Create(context.Background(), validInput("Buy milk"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, domain.TaskPatch{
		Title:  strPtr(""),
		Status: strPtr("completed"),
	})

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "Title is required", validationErr.Fields[domain.FieldTitle])

	got, ok := svc.GetByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)
}

func TestTaskService_UpdateUnknownID(t *testing.T) {
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""))

	_, err := svc.Update(context.Background(), "missing", domain.TaskPatch{Status: strPtr("completed")})

	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""))
	keep, err := svc.Create(context.Background(), validInput("Keep me"))
	require.NoError(t, err)
	drop, err := svc.Create(context.Background(), validInput("Drop me"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), drop.ID))

	_, ok := svc.GetByID(drop.ID)
	assert.False(t, ok)
	assert.Equal(t, []domain.Task{keep}, svc.Tasks())

	err = svc.Delete(context.Background(), "unknown")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Len(t, svc.Tasks(), 1)
}

func TestTaskService_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := storage.NewTaskStore(storage.NewMemoryBlobStore(), "")
	svc := newReadyService(t, store)

	first, err := svc.Create(ctx, validInput("First task"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, validInput("Second task"))
	require.NoError(t, err)
	_, err = svc.Update(ctx, first.ID, domain.TaskPatch{Status: strPtr("completed")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, second.ID))

	flush(t, svc)

	assert.Equal(t, svc.Tasks(), store.LoadAll(ctx))
	assert.NoError(t, svc.LastPersistenceError())
}

func TestTaskService_SaveFailureKeepsMemoryAndReports(t *testing.T) {
	store := new(taskStoreMock)
	saveErr := &domain.PersistenceError{Op: "save", Err: errors.New("disk full")}
	store.On("LoadAll", mock.Anything).Return([]domain.Task{}).Once()
	store.On("SaveAll", mock.Anything, mock.Anything).Return(saveErr).Once()
	store.On("SaveAll", mock.Anything, mock.Anything).Return(nil).Once()

	reported := make(chan error, 1)
	svc := service.NewTaskService(store, service.WithPersistenceErrorHandler(func(err error) { reported <- err }))
	defer svc.Close(context.Background())
	<-svc.Initialize(context.Background())

	created, err := svc.Create(context.Background(), validInput("Survives failure"))
	require.NoError(t, err)

	save := svc.LastSave()
	require.NotNil(t, save)
	<-save.Done()
	assert.ErrorIs(t, save.Err(), saveErr)
	assert.ErrorIs(t, <-reported, saveErr)
	assert.ErrorIs(t, svc.LastPersistenceError(), saveErr)

	_, ok := svc.GetByID(created.ID)
	assert.True(t, ok, "in-memory state is not rolled back")

	_, err = svc.Update(context.Background(), created.ID, domain.TaskPatch{Priority: strPtr("high")})
	require.NoError(t, err)
	flush(t, svc)
	assert.NoError(t, svc.LastPersistenceError())
	store.AssertExpectations(t)
}

func TestTaskService_SavesCarryCollectionInMutationOrder(t *testing.T) {
	store := new(taskStoreMock)
	store.On("LoadAll", mock.Anything).Return([]domain.Task{}).Once()

	var mu sync.Mutex
	var sizes []int
	store.On("SaveAll", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		sizes = append(sizes, len(args.Get(1).([]domain.Task)))
	}).Return(nil)

	svc := service.NewTaskService(store)
	defer svc.Close(context.Background())
	<-svc.Initialize(context.Background())

	for _, title := range []string{"One task", "Two task", "Three task"} {
		_, err := svc.Create(context.Background(), validInput(title))
		require.NoError(t, err)
	}
	flush(t, svc)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, sizes)
}

func TestTaskService_FilterAndSort(t *testing.T) {
	ctx := context.Background()
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""))

	milk, err := svc.Create(ctx, domain.FormInput{Title: "Buy milk", Description: "From the corner shop", Status: "pending", Priority: "low"})
	require.NoError(t, err)
	bank, err := svc.Create(ctx, domain.FormInput{Title: "Call bank", Description: "Card replacement", Status: "completed", Priority: "high"})
	require.NoError(t, err)

	pending := domain.TaskStatusPending
	svc.SetFilter(domain.TaskFilterPatch{Status: &pending, StatusSet: true})
	assert.Equal(t, []domain.Task{milk}, svc.FilteredTasks())

	svc.SetFilter(domain.TaskFilterPatch{StatusSet: true, SearchTerm: strPtr("BANK")})
	assert.Equal(t, []domain.Task{bank}, svc.FilteredTasks())
	assert.Equal(t, "BANK", svc.Filter().SearchTerm)
	assert.Nil(t, svc.Filter().Status)

	svc.ClearFilters()
	assert.True(t, svc.Filter().IsZero())

	by := domain.SortFieldPriority
	desc := domain.SortOrderDesc
	svc.SetSort(domain.TaskSortPatch{SortBy: &by, Order: &desc})
	assert.Equal(t, []domain.Task{bank, milk}, svc.FilteredTasks())

	svc.ClearFilters()
	assert.Equal(t, domain.TaskSort{SortBy: by, Order: desc}, svc.Sort(), "clearing filters keeps the sort")
	assert.Equal(t, []domain.Task{milk, bank}, svc.Tasks(), "projection never reorders the collection")
}

func TestTaskService_Stats(t *testing.T) {
	ctx := context.Background()
	svc := newReadyService(t, storage.NewTaskStore(storage.NewMemoryBlobStore(), ""))

	for _, status := range []string{"pending", "pending", "in-progress", "completed"} {
		input := validInput("Task " + status)
		input.Status = status
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	assert.Equal(t, domain.TaskStats{Total: 4, Pending: 2, InProgress: 1, Completed: 1}, svc.Stats())
}

func TestTaskService_Reset(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryBlobStore()
	store := storage.NewTaskStore(blobs, "")
	svc := newReadyService(t, store)

	_, err := svc.Create(ctx, validInput("Temporary"))
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	assert.Empty(t, svc.Tasks())
	_, err = blobs.Get(ctx, storage.DefaultKey)
	assert.Error(t, err)
}

func TestTaskService_CloseRejectsMutations(t *testing.T) {
	ctx := context.Background()
	store := storage.NewTaskStore(storage.NewMemoryBlobStore(), "")
	svc := newReadyService(t, store)

	created, err := svc.Create(ctx, validInput("Before close"))
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx))

	assert.Equal(t, []domain.Task{created}, store.LoadAll(ctx), "pending writes are drained on close")

	_, err = svc.Create(ctx, validInput("After close"))
	require.ErrorIs(t, err, domain.ErrClosed)
}
