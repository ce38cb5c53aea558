package jobs

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Run captures one execution of a scheduled job.
type Run struct {
	Job        string
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time
	Err        string
	Metadata   map[string]any
}

// Succeeded reports whether the run finished without error.
func (r Run) Succeeded() bool {
	return r.Err == ""
}

// RunRecorder persists job runs.
type RunRecorder interface {
	Record(ctx context.Context, run Run) error
	List(ctx context.Context) ([]Run, error)
	Clear(ctx context.Context) error
}

// InMemoryRunRecorder accumulates runs in memory. It keeps at most limit runs
// when limit is positive, dropping the oldest first.
type InMemoryRunRecorder struct {
	mu    sync.Mutex
	runs  []Run
	limit int
	err   error
}

// NewInMemoryRunRecorder constructs an empty recorder.
func NewInMemoryRunRecorder(limit int) *InMemoryRunRecorder {
	return &InMemoryRunRecorder{limit: limit}
}

// Record stores the supplied run.
func (r *InMemoryRunRecorder) Record(_ context.Context, run Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	copied := run
	if copied.Metadata != nil {
		copied.Metadata = maps.Clone(copied.Metadata)
	}
	r.runs = append(r.runs, copied)
	if r.limit > 0 && len(r.runs) > r.limit {
		r.runs = r.runs[len(r.runs)-r.limit:]
	}
	return nil
}

// Runs returns a snapshot of recorded runs.
func (r *InMemoryRunRecorder) Runs() []Run {
	runs, _ := r.List(context.Background())
	return runs
}

// Fail configures the recorder to return err on subsequent Record calls.
func (r *InMemoryRunRecorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// List returns the runs recorded so far, oldest first.
func (r *InMemoryRunRecorder) List(context.Context) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Run, len(r.runs))
	copy(out, r.runs)
	return out, nil
}

// Clear removes all recorded runs.
func (r *InMemoryRunRecorder) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = nil
	return nil
}
