package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/xmldecode/internal/model"
)

func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })

		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if job := bp.jobFactory("a.xml"); job.TagName != model.DefaultTagName {
			t.Errorf("expected default tag, got %q", job.TagName)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))

		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})

	t.Run("applies WithJobFactory option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(
			func() *Pipeline { return New() },
			WithJobFactory(func(source string) *model.Job { return model.NewJob(source, "dato") }),
		)

		if job := bp.jobFactory("a.xml"); job.TagName != "dato" {
			t.Errorf("expected custom tag, got %q", job.TagName)
		}
	})
}

func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("returns jobs in source order", func(t *testing.T) {
		t.Parallel()

		factory := func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddStep(&mockStep{
				name: "slow-first",
				doFunc: func(_ context.Context, job *model.Job) error {
					if job.Source == "a.xml" {
						time.Sleep(20 * time.Millisecond)
					}
					return nil
				},
			})
			return p
		}

		bp := NewBatchProcessor(factory, WithConcurrency(3), WithBatchLogger(discardLogger()))
		sources := []string{"a.xml", "b.xml", "c.xml"}

		jobs, err := bp.ProcessBatch(context.Background(), sources)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != len(sources) {
			t.Fatalf("expected %d jobs, got %d", len(sources), len(jobs))
		}
		for i, job := range jobs {
			if job.Source != sources[i] {
				t.Errorf("job %d: got source %q, want %q", i, job.Source, sources[i])
			}
		}
	})

	t.Run("records failures on jobs and continues", func(t *testing.T) {
		t.Parallel()

		errBad := errors.New("bad document")
		factory := func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddStep(&mockStep{
				name: "maybe-fail",
				doFunc: func(_ context.Context, job *model.Job) error {
					if job.Source == "bad.xml" {
						return errBad
					}
					return nil
				},
			})
			return p
		}

		bp := NewBatchProcessor(factory, WithBatchLogger(discardLogger()))
		jobs, err := bp.ProcessBatch(context.Background(), []string{"good.xml", "bad.xml"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if jobs[0].Error != nil {
			t.Errorf("expected no error on good job, got %v", jobs[0].Error)
		}
		if !errors.Is(jobs[1].Error, errBad) {
			t.Errorf("expected errBad on bad job, got %v", jobs[1].Error)
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		factory := func() *Pipeline {
			p := New(WithLogger(discardLogger()))
			p.AddStep(&mockStep{
				name: "track",
				doFunc: func(_ context.Context, _ *model.Job) error {
					n := running.Add(1)
					for {
						old := peak.Load()
						if n <= old || peak.CompareAndSwap(old, n) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					running.Add(-1)
					return nil
				},
			})
			return p
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2), WithBatchLogger(discardLogger()))
		if _, err := bp.ProcessBatch(context.Background(), []string{"1", "2", "3", "4", "5", "6"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent jobs, got %d", peak.Load())
		}
	})

	t.Run("returns error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithBatchLogger(discardLogger()))
		_, err := bp.ProcessBatch(ctx, []string{"a.xml", "b.xml"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("handles empty source list", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithBatchLogger(discardLogger()))
		jobs, err := bp.ProcessBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 0 {
			t.Errorf("expected no jobs, got %d", len(jobs))
		}
	})
}

func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	t.Run("calls callback for each source", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithBatchLogger(discardLogger()))
		sources := []string{"a.xml", "b.xml", "c.xml"}

		var mu sync.Mutex
		seen := make(map[int]string)
		err := bp.ProcessBatchWithCallback(context.Background(), sources, func(job *model.Job, index int) {
			mu.Lock()
			defer mu.Unlock()
			seen[index] = job.Source
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, source := range sources {
			if seen[i] != source {
				t.Errorf("index %d: got %q, want %q", i, seen[i], source)
			}
		}
	})
}
