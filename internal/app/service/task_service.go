package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskkeeper/internal/core/domain"
	"taskkeeper/internal/core/ports"
	"taskkeeper/internal/core/projection"
	"taskkeeper/internal/core/validation"
)

const DefaultSaveTimeout = 5 * time.Second

type Option func(*TaskService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) { s.newID = newID }
}

func WithSaveTimeout(timeout time.Duration) Option {
	return func(s *TaskService) {
		if timeout > 0 {
			s.saveTimeout = timeout
		}
	}
}

// WithPersistenceErrorHandler registers an extra sink for failed store writes.
func WithPersistenceErrorHandler(handler func(error)) Option {
	return func(s *TaskService) { s.onPersistenceError = handler }
}

// TaskService owns the canonical task collection and the view state derived
// from it. Every successful mutation queues one full rewrite of the store.
type TaskService struct {
	store              ports.TaskStore
	saver              *saver
	now                func() time.Time
	newID              func() string
	saveTimeout        time.Duration
	onPersistenceError func(error)

	initOnce sync.Once
	ready    chan struct{}

	mu          sync.RWMutex
	tasks       []domain.Task
	filter      domain.TaskFilter
	sort        domain.TaskSort
	loading     bool
	closed      bool
	lastSave    *SaveResult
	lastSaveErr error
}

var _ ports.TaskService = (*TaskService)(nil)

func NewTaskService(store ports.TaskStore, opts ...Option) *TaskService {
	s := &TaskService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC().Round(0) },
		newID:       uuid.NewString,
		saveTimeout: DefaultSaveTimeout,
		ready:       make(chan struct{}),
		tasks:       []domain.Task{},
		sort:        domain.DefaultTaskSort(),
		loading:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.saver = newSaver(store, s.saveTimeout, s.reportSave)
	return s
}

// Initialize loads the stored collection in the background. Only the first
// call starts a load; every call returns the channel closed when it finishes.
func (s *TaskService) Initialize(ctx context.Context) <-chan struct{} {
	s.initOnce.Do(func() {
		go func() {
			tasks := s.store.LoadAll(ctx)

			s.mu.Lock()
			s.tasks = tasks
			s.loading = false
			s.mu.Unlock()

			zap.L().Info("tasks loaded", zap.Int("count", len(tasks)))
			close(s.ready)
		}()
	})
	return s.ready
}

func (s *TaskService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *TaskService) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

func (s *TaskService) FilteredTasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return projection.Project(s.tasks, s.filter, s.sort)
}

func (s *TaskService) Stats() domain.TaskStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.TaskStats{Total: len(s.tasks)}
	for _, task := range s.tasks {
		switch task.Status {
		case domain.TaskStatusPending:
			stats.Pending++
		case domain.TaskStatusInProgress:
			stats.InProgress++
		case domain.TaskStatusCompleted:
			stats.Completed++
		}
	}
	return stats
}

func (s *TaskService) GetByID(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return domain.Task{}, false
}

func (s *TaskService) Create(_ context.Context, input domain.FormInput) (domain.Task, error) {
	fields, err := validation.ValidateForm(input)
	if err != nil {
		return domain.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(); err != nil {
		return domain.Task{}, err
	}

	id := s.newID()
	for s.indexOf(id) >= 0 {
		id = s.newID()
	}

	now := s.now()
	task := domain.Task{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
		Priority:    fields.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append(s.tasks, task)
	s.persistLocked()

	return task, nil
}

// Update merges the supplied patch fields into the task. Fields left nil are
// not validated, so a status change never re-checks title or description.
func (s *TaskService) Update(_ context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(); err != nil {
		return domain.Task{}, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	validated, err := validation.ValidatePatch(patch)
	if err != nil {
		return domain.Task{}, err
	}

	current := s.tasks[i]
	updated := validated.Apply(current)
	updated.UpdatedAt = s.nextUpdatedAt(current.UpdatedAt)

	s.tasks[i] = updated
	s.persistLocked()

	return updated, nil
}

func (s *TaskService) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(); err != nil {
		return err
	}

	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrTaskNotFound
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.persistLocked()

	return nil
}

// Reset empties the collection and removes the stored blob. Unlike the other
// mutations it waits for the store.
func (s *TaskService) Reset(ctx context.Context) error {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tasks = []domain.Task{}
	result := s.saver.enqueue(saveJob{clear: true})
	s.lastSave = result
	s.mu.Unlock()

	return result.Wait(ctx)
}

func (s *TaskService) Filter() domain.TaskFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *TaskService) Sort() domain.TaskSort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

func (s *TaskService) SetFilter(patch domain.TaskFilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = patch.Apply(s.filter)
}

func (s *TaskService) SetSort(patch domain.TaskSortPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = patch.Apply(s.sort)
}

// ClearFilters resets the filter only; the sort selection is kept.
func (s *TaskService) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = domain.TaskFilter{}
}

// LastPersistenceError returns the error of the most recent failed write, or
// nil once a later write succeeds.
func (s *TaskService) LastPersistenceError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaveErr
}

// Flush waits until every write queued so far has been applied.
func (s *TaskService) Flush(ctx context.Context) error {
	s.mu.RLock()
	last := s.lastSave
	s.mu.RUnlock()

	if last == nil {
		return nil
	}
	return last.Wait(ctx)
}

// LastSave returns the most recently queued write, or nil if none was queued.
func (s *TaskService) LastSave() *SaveResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSave
}

// Close rejects further mutations and drains the write queue.
func (s *TaskService) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return s.saver.close(ctx)
}

func (s *TaskService) writableLocked() error {
	if s.closed {
		return domain.ErrClosed
	}
	if s.loading {
		return domain.ErrLoading
	}
	return nil
}

// persistLocked queues a write of the current collection. Callers hold s.mu,
// which keeps queue order identical to mutation order.
func (s *TaskService) persistLocked() {
	s.lastSave = s.saver.enqueue(saveJob{tasks: slices.Clone(s.tasks)})
}

func (s *TaskService) reportSave(err error) {
	if err != nil {
		zap.L().Warn("failed to persist tasks", zap.Error(err))
	}

	s.mu.Lock()
	s.lastSaveErr = err
	s.mu.Unlock()

	if err != nil && s.onPersistenceError != nil {
		s.onPersistenceError(err)
	}
}

func (s *TaskService) nextUpdatedAt(previous time.Time) time.Time {
	now := s.now()
	if !now.After(previous) {
		now = previous.Add(time.Nanosecond)
	}
	return now
}

func (s *TaskService) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(task domain.Task) bool { return task.ID == id })
}
