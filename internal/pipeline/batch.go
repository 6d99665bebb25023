package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/xmldecode/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents decoded at once when no
// limit is configured.
const DefaultConcurrency = 4

// BatchProcessor decodes several documents concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each document.
	pipelineFactory func() *Pipeline

	// jobFactory creates the job for each source.
	jobFactory func(source string) *model.Job

	// concurrency is the maximum number of concurrent jobs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed jobs in source order.
	results []*model.Job
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Values below 1 are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithJobFactory sets the function that creates a job for each source.
// The default creates a job searching model.DefaultTagName.
func WithJobFactory(factory func(source string) *model.Job) BatchOption {
	return func(b *BatchProcessor) {
		if factory != nil {
			b.jobFactory = factory
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each document so that no
// pipeline state is shared between jobs.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		jobFactory: func(source string) *model.Job {
			return model.NewJob(source, model.DefaultTagName)
		},
		concurrency: DefaultConcurrency,
		results:     make([]*model.Job, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch decodes every source concurrently and returns one job per
// source, in the order the sources were given.
//
// A failing document does not stop the batch: its error is recorded on its
// job. The returned error is non-nil only when ctx is cancelled, in which
// case jobs that never started are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sources []string) ([]*model.Job, error) {
	bp.logger.Info("starting batch processing",
		"total_sources", len(sources),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.Job, len(sources))

	err := bp.run(ctx, sources, func(job *model.Job, index int) {
		bp.mu.Lock()
		bp.results[index] = job
		bp.mu.Unlock()
	})

	bp.logger.Info("batch processing complete",
		"total_sources", len(sources),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback decodes every source and calls callback for each
// completed job with the index of its source.
//
// The callback is called from the goroutine that ran the job, so it must be
// safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	sources []string,
	callback func(job *model.Job, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_sources", len(sources),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, sources, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, sources []string, done func(job *model.Job, index int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, source := range sources {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("decoding document",
				"source", source,
				"index", i+1,
				"total", len(sources),
			)

			job := bp.jobFactory(source)
			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				bp.logger.Warn("document failed",
					"source", source,
					"error", err,
				)
			}

			done(job, i)
			return nil
		})
	}

	return g.Wait()
}
