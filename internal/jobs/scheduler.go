// Package jobs runs the periodic maintenance jobs started by `academy serve`
// on robfig/cron schedules.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

var (
	ErrJobNameRequired = errors.New("jobs: job name is required")
	ErrJobFuncRequired = errors.New("jobs: job func is required")
	ErrJobExists       = errors.New("jobs: job already registered")
	ErrJobUnknown      = errors.New("jobs: job not registered")
)

// Func is the work performed by a job.
type Func func(ctx context.Context) error

type job struct {
	name string
	spec string
	fn   Func
}

// Scheduler owns a cron instance and records every run.
type Scheduler struct {
	cron    *cron.Cron
	logger  interfaces.Logger
	runs    RunRecorder
	now     func() time.Time
	timeout time.Duration

	mu     sync.Mutex
	jobs   map[string]job
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithLogger attaches the logger used for run outcomes.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRunRecorder overrides the in-memory run recorder.
func WithRunRecorder(recorder RunRecorder) Option {
	return func(s *Scheduler) {
		if recorder != nil {
			s.runs = recorder
		}
	}
}

// WithClock overrides the time source used to stamp runs.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithRunTimeout bounds each run. Zero leaves runs unbounded.
func WithRunTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewScheduler constructs a stopped scheduler. Overlapping runs of the same
// job are skipped and panics are recovered.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: logging.NoOp(),
		runs:   NewInMemoryRunRecorder(100),
		now:    time.Now,
		jobs:   map[string]job{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	adapter := cronLogger{logger: s.logger}
	s.cron = cron.New(
		cron.WithLogger(adapter),
		cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
	)
	return s
}

// Register schedules fn under name using a standard five-field cron spec. An
// empty spec leaves the job disabled but still runnable through Run.
func (s *Scheduler) Register(name, spec string, fn Func) error {
	name = strings.TrimSpace(name)
	spec = strings.TrimSpace(spec)
	if name == "" {
		return ErrJobNameRequired
	}
	if fn == nil {
		return ErrJobFuncRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobExists, name)
	}
	if spec != "" {
		if _, err := s.cron.AddFunc(spec, func() {
			_ = s.execute(s.ctx, name, fn, TriggerSchedule)
		}); err != nil {
			return fmt.Errorf("jobs: schedule %s: %w", name, err)
		}
	}
	s.jobs[name] = job{name: name, spec: spec, fn: fn}

	logging.WithFields(s.logger, map[string]any{
		"job":      name,
		"schedule": spec,
		"enabled":  spec != "",
	}).Debug("jobs.scheduler.registered")
	return nil
}

// Jobs lists registered job names in order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Scheduled reports how many jobs have an active cron entry.
func (s *Scheduler) Scheduled() int {
	return len(s.cron.Entries())
}

// Run executes the named job immediately on the caller's goroutine.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.Lock()
	registered, ok := s.jobs[strings.TrimSpace(name)]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobUnknown, name)
	}
	return s.execute(ctx, registered.name, registered.fn, TriggerManual)
}

// Runs returns the recorded runs.
func (s *Scheduler) Runs(ctx context.Context) ([]Run, error) {
	return s.runs.List(ctx)
}

// Start begins firing scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("jobs.scheduler.started", "scheduled", s.Scheduled())
}

// Stop cancels in-flight runs and waits for them to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("jobs.scheduler.stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) execute(ctx context.Context, name string, fn Func, trigger string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run := Run{Job: name, Trigger: trigger, StartedAt: s.now()}
	err := fn(ctx)
	run.FinishedAt = s.now()

	logger := logging.WithFields(s.logger, map[string]any{
		"job":         name,
		"trigger":     trigger,
		"duration_ms": run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	})
	if err != nil {
		run.Err = err.Error()
		logging.WithError(logger, err).Error("jobs.run.failed")
	} else {
		logger.Info("jobs.run.completed")
	}

	if recordErr := s.runs.Record(context.WithoutCancel(ctx), run); recordErr != nil {
		logging.WithError(logger, recordErr).Warn("jobs.run.record_failed")
	}
	return err
}

type cronLogger struct {
	logger interfaces.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("jobs.cron."+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logging.WithError(l.logger, err).Error("jobs.cron."+msg, keysAndValues...)
}
