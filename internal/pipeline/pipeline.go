package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/xmldecode/internal/model"
)

// Step is one stage of decoding a document.
type Step interface {
	// Do advances job by one stage. A failure that leaves later steps
	// nothing to work with is returned; anything else is recorded on the
	// job and Do returns nil.
	Do(ctx context.Context, job *model.Job) error

	// Name identifies the step in logs and in Job.PerformedSteps.
	Name() string
}

// Pipeline runs its steps over a job, one after another.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for step progress. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running the remaining steps after one fails.
// Off by default: an unreadable or unparsable document leaves nothing for
// the steps after it.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New returns an empty Pipeline. Add steps with AddStep or AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step; steps run in the order they were added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps at once.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step over job. The context is checked between steps;
// a cancelled context is recorded on the job and returned.
//
// Unless WithContinueOnError is set, the first failing step ends the run
// and its error is returned. Either way the error is also stored on job.
func (p *Pipeline) Execute(ctx context.Context, job *model.Job) error {
	p.logger.Debug("decoding job",
		"source", job.Source,
		"step_count", p.StepCount(),
		"steps", p.StepNames(),
	)

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("decoding cancelled",
				"step", step.Name(),
				"source", job.Source,
				"reason", err,
			)
			job.SetError(err)
			return err
		}

		err := step.Do(ctx, job)
		job.PerformedSteps = append(job.PerformedSteps, step.Name())
		if err == nil {
			p.logger.Debug("step done", "step", step.Name(), "source", job.Source)
			continue
		}

		p.logger.Error("step failed",
			"step", step.Name(),
			"source", job.Source,
			"error", err,
		)
		job.SetError(err)
		if !p.continueOnError {
			return err
		}
	}

	return nil
}

// StepCount returns how many steps the pipeline has.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in run order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
