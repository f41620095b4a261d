package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	dom "github.com/cyberpompier/lumina/internal/domain"
	"github.com/cyberpompier/lumina/internal/haptics"
	"github.com/cyberpompier/lumina/internal/metrics"
	"github.com/cyberpompier/lumina/internal/repo"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// TaskService owns the task list. Every operation computes the next
// collection with a pure domain function, swaps it in and writes it out in
// full. Operations are serialized; callers get their own copy of the list.
type TaskService struct {
	repo    repo.TaskRepo
	haptics haptics.Sink
	metrics *metrics.Metrics
	log     *slog.Logger
	newID   func() string
	now     func() time.Time

	sf       singleflight.Group
	mu       sync.Mutex
	tasks    dom.Collection
	hydrated bool
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithHaptics sets the feedback sink. Without it feedback is dropped.
func WithHaptics(h haptics.Sink) Option {
	return func(s *TaskService) {
		if h != nil {
			s.haptics = h
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TaskService) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TaskService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithIDGenerator overrides uuid.NewString for task ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *TaskService) { s.newID = gen }
}

// NewTaskService creates a TaskService on top of r. The list is loaded lazily
// on first use, or eagerly through Hydrate.
func NewTaskService(r repo.TaskRepo, opts ...Option) *TaskService {
	s := &TaskService{
		repo:    r,
		haptics: haptics.Nop{},
		log:     slog.Default(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "task_service")
	return s
}

// Hydrate loads the stored list once. Concurrent callers share one load, which
// is detached from the cancellation of whichever caller started it; a failed
// load is retried by the next caller.
func (s *TaskService) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	done := s.hydrated
	s.mu.Unlock()
	if done {
		return nil
	}
	loadCtx := context.WithoutCancel(ctx)
	_, err, _ := s.sf.Do("hydrate", func() (interface{}, error) {
		s.mu.Lock()
		done := s.hydrated
		s.mu.Unlock()
		if done {
			return nil, nil
		}
		c, err := s.repo.Load(loadCtx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.hydrated {
			s.tasks = c
			s.hydrated = true
			s.metrics.Size(dom.Stats(c))
			s.log.Info("task list loaded", "tasks", len(c))
		}
		return nil, nil
	})
	return err
}

// List returns the current list, newest first.
func (s *TaskService) List(ctx context.Context) (dom.Collection, error) {
	if err := s.Hydrate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks), nil
}

// Add prepends a task titled title. Blank titles are ignored.
func (s *TaskService) Add(ctx context.Context, title string) (dom.Collection, error) {
	return s.apply(ctx, "add", haptics.Add, func(c dom.Collection) (dom.Collection, bool) {
		return dom.Add(c, title, s.newID(), s.now().UnixMilli())
	})
}

// Toggle flips the completed flag of task id. Unknown ids are ignored.
func (s *TaskService) Toggle(ctx context.Context, id string) (dom.Collection, error) {
	return s.apply(ctx, "toggle", haptics.Toggle, func(c dom.Collection) (dom.Collection, bool) {
		_, found := dom.Find(c, id)
		return dom.Toggle(c, id), found
	})
}

// Delete removes task id. Unknown ids are ignored.
func (s *TaskService) Delete(ctx context.Context, id string) (dom.Collection, error) {
	return s.apply(ctx, "delete", haptics.Delete, func(c dom.Collection) (dom.Collection, bool) {
		next := dom.Delete(c, id)
		return next, len(next) != len(c)
	})
}

// ClearCompleted removes every completed task.
func (s *TaskService) ClearCompleted(ctx context.Context) (dom.Collection, error) {
	return s.apply(ctx, "clear_completed", haptics.ClearCompleted, func(c dom.Collection) (dom.Collection, bool) {
		next := dom.ClearCompleted(c)
		return next, len(next) != len(c)
	})
}

// apply runs one mutation. Only hydration errors are returned: a failed
// write is logged and the new list is kept in memory.
func (s *TaskService) apply(ctx context.Context, op string, pattern []time.Duration, fn func(dom.Collection) (dom.Collection, bool)) (dom.Collection, error) {
	if err := s.Hydrate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(s.tasks)
	s.metrics.Mutation(op, changed)
	if !changed {
		return slices.Clone(s.tasks), nil
	}
	s.tasks = next
	s.metrics.Size(dom.Stats(next))

	// Writes are not cancelable once the mutation is applied.
	if err := s.repo.Save(context.WithoutCancel(ctx), next); err != nil {
		s.metrics.SaveError()
		s.log.Error("task list write failed", "op", op, "error", err)
	}
	s.haptics.Vibrate(pattern...)
	return slices.Clone(next), nil
}
