package service

import (
	"context"
	"sync"
	"time"

	"taskkeeper/internal/core/domain"
	"taskkeeper/internal/core/ports"
)

// SaveResult is the outcome of one queued store write.
type SaveResult struct {
	done chan struct{}
	err  error
}

func newSaveResult() *SaveResult {
	return &SaveResult{done: make(chan struct{})}
}

func (r *SaveResult) finish(err error) {
	r.err = err
	close(r.done)
}

// Done is closed once the write has completed or failed.
func (r *SaveResult) Done() <-chan struct{} {
	return r.done
}

// Err returns the write error. It is only meaningful after Done is closed.
func (r *SaveResult) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

func (r *SaveResult) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type saveJob struct {
	tasks  []domain.Task
	clear  bool
	result *SaveResult
}

// saver applies store writes one at a time in enqueue order. The queue is
// unbounded so callers never wait on storage.
type saver struct {
	store   ports.TaskStore
	timeout time.Duration
	report  func(err error)

	mu      sync.Mutex
	queue   []saveJob
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

func newSaver(store ports.TaskStore, timeout time.Duration, report func(error)) *saver {
	s := &saver{
		store:   store,
		timeout: timeout,
		report:  report,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *saver) enqueue(job saveJob) *SaveResult {
	job.result = newSaveResult()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		job.result.finish(domain.ErrClosed)
		return job.result
	}
	s.queue = append(s.queue, job)
	s.mu.Unlock()

	s.signal()
	return job.result
}

func (s *saver) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *saver) run() {
	defer close(s.stopped)

	for range s.wake {
		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				closed := s.closed
				s.mu.Unlock()
				if closed {
					return
				}
				break
			}
			job := s.queue[0]
			s.queue[0] = saveJob{}
			s.queue = s.queue[1:]
			s.mu.Unlock()

			s.apply(job)
		}
	}
}

func (s *saver) apply(job saveJob) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var err error
	if job.clear {
		err = s.store.Clear(ctx)
	} else {
		err = s.store.SaveAll(ctx, job.tasks)
	}

	s.report(err)
	job.result.finish(err)
}

// close stops accepting jobs and waits until the queue is drained.
func (s *saver) close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
	}
	s.mu.Unlock()
	s.signal()

	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
