package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/goliatone/go-academy-cms/internal/jobs"
)

func fixedClock() func() time.Time {
	current := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestSchedulerRegisterValidatesInput(t *testing.T) {
	scheduler := jobs.NewScheduler()
	noop := func(context.Context) error { return nil }

	if err := scheduler.Register(" ", "", noop); !errors.Is(err, jobs.ErrJobNameRequired) {
		t.Fatalf("expected ErrJobNameRequired, got %v", err)
	}
	if err := scheduler.Register("cache", "", nil); !errors.Is(err, jobs.ErrJobFuncRequired) {
		t.Fatalf("expected ErrJobFuncRequired, got %v", err)
	}
	if err := scheduler.Register("cache", "not a spec", noop); err == nil {
		t.Fatal("expected invalid spec to fail")
	}
	if err := scheduler.Register("cache", "*/5 * * * *", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := scheduler.Register("cache", "", noop); !errors.Is(err, jobs.ErrJobExists) {
		t.Fatalf("expected ErrJobExists, got %v", err)
	}
}

func TestSchedulerEmptySpecRegistersDisabledJob(t *testing.T) {
	scheduler := jobs.NewScheduler()
	noop := func(context.Context) error { return nil }

	if err := scheduler.Register("markdown_import", "", noop); err != nil {
		t.Fatalf("register disabled: %v", err)
	}
	if err := scheduler.Register("cache_invalidation", "@every 1h", noop); err != nil {
		t.Fatalf("register scheduled: %v", err)
	}

	if got := scheduler.Scheduled(); got != 1 {
		t.Fatalf("expected 1 scheduled entry, got %d", got)
	}
	names := scheduler.Jobs()
	if len(names) != 2 || names[0] != "cache_invalidation" || names[1] != "markdown_import" {
		t.Fatalf("unexpected job names %v", names)
	}
}

func TestSchedulerRunRecordsOutcome(t *testing.T) {
	ctx := context.Background()
	recorder := jobs.NewInMemoryRunRecorder(0)
	scheduler := jobs.NewScheduler(jobs.WithRunRecorder(recorder), jobs.WithClock(fixedClock()))

	calls := 0
	if err := scheduler.Register("cache_invalidation", "", func(context.Context) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	failure := errors.New("import failed")
	if err := scheduler.Register("markdown_import", "", func(context.Context) error {
		return failure
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := scheduler.Run(ctx, "cache_invalidation"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := scheduler.Run(ctx, "markdown_import"); !errors.Is(err, failure) {
		t.Fatalf("expected job error, got %v", err)
	}
	if err := scheduler.Run(ctx, "missing"); !errors.Is(err, jobs.ErrJobUnknown) {
		t.Fatalf("expected ErrJobUnknown, got %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	runs := recorder.Runs()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].Succeeded() || runs[0].Trigger != jobs.TriggerManual {
		t.Fatalf("unexpected first run %+v", runs[0])
	}
	if runs[1].Succeeded() || runs[1].Err != "import failed" {
		t.Fatalf("unexpected second run %+v", runs[1])
	}
	if !runs[0].FinishedAt.After(runs[0].StartedAt) {
		t.Fatalf("expected finish after start, got %+v", runs[0])
	}
}

func TestSchedulerRunSurvivesRecorderFailure(t *testing.T) {
	recorder := jobs.NewInMemoryRunRecorder(0)
	recorder.Fail(errors.New("disk full"))
	scheduler := jobs.NewScheduler(jobs.WithRunRecorder(recorder))

	if err := scheduler.Register("cache_invalidation", "", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := scheduler.Run(context.Background(), "cache_invalidation"); err != nil {
		t.Fatalf("expected recorder failure to be swallowed, got %v", err)
	}
	if len(recorder.Runs()) != 0 {
		t.Fatalf("expected no recorded runs")
	}
}

func TestSchedulerRunTimeoutBoundsJob(t *testing.T) {
	scheduler := jobs.NewScheduler(jobs.WithRunTimeout(10 * time.Millisecond))
	if err := scheduler.Register("slow", "", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := scheduler.Run(context.Background(), "slow"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSchedulerStartStopReleasesGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	scheduler := jobs.NewScheduler()
	if err := scheduler.Register("cache_invalidation", "@every 1h", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	scheduler.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := scheduler.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestInMemoryRunRecorderKeepsNewestRuns(t *testing.T) {
	ctx := context.Background()
	recorder := jobs.NewInMemoryRunRecorder(2)
	for _, name := range []string{"a", "b", "c"} {
		if err := recorder.Record(ctx, jobs.Run{Job: name}); err != nil {
			t.Fatalf("record %s: %v", name, err)
		}
	}
	runs := recorder.Runs()
	if len(runs) != 2 || runs[0].Job != "b" || runs[1].Job != "c" {
		t.Fatalf("unexpected runs %+v", runs)
	}
	if err := recorder.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(recorder.Runs()) != 0 {
		t.Fatal("expected cleared recorder")
	}
}
