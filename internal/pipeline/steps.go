package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/xmldecode/internal/extractor"
	"github.com/nao1215/xmldecode/internal/input"
	"github.com/nao1215/xmldecode/internal/model"
)

// ReadStep loads the document of a job from its source.
// Jobs that already carry a document are left untouched.
type ReadStep struct {
	// stdin is read for jobs whose source is model.StdinSource.
	stdin io.Reader

	// logger for structured logging.
	logger *slog.Logger
}

// ReadStepOption configures a ReadStep.
type ReadStepOption func(*ReadStep)

// WithStdin sets the reader used for standard input jobs.
func WithStdin(r io.Reader) ReadStepOption {
	return func(s *ReadStep) {
		s.stdin = r
	}
}

// WithReadLogger sets a custom logger for the read step.
func WithReadLogger(logger *slog.Logger) ReadStepOption {
	return func(s *ReadStep) {
		s.logger = logger
	}
}

// NewReadStep creates a new read step.
func NewReadStep(opts ...ReadStepOption) *ReadStep {
	s := &ReadStep{
		stdin:  os.Stdin,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ReadStep) Name() string {
	return "read"
}

// Do reads the job's source into job.Document.
func (s *ReadStep) Do(_ context.Context, job *model.Job) error {
	if job.Document != "" {
		return nil
	}

	var (
		doc string
		err error
	)
	if job.Source == model.StdinSource || job.Source == "" {
		doc, err = input.ReadAll(s.stdin)
	} else {
		doc, err = input.ReadFile(job.Source)
	}
	if err != nil {
		return err
	}

	job.Document = doc
	s.logger.Debug("document loaded",
		"source", job.Source,
		"bytes", len(doc),
	)
	return nil
}

// ExtractStep finds and decodes the tagged payloads of a job.
//
// A document without any matching tag is not a failure of the step: the
// condition is recorded on the job and later steps still run.
type ExtractStep struct {
	extractor *extractor.Extractor
	logger    *slog.Logger
}

// ExtractStepOption configures an ExtractStep.
type ExtractStepOption func(*ExtractStep)

// WithExtractor sets the extractor used by the step.
func WithExtractor(e *extractor.Extractor) ExtractStepOption {
	return func(s *ExtractStep) {
		s.extractor = e
	}
}

// WithExtractLogger sets a custom logger for the extract step.
func WithExtractLogger(logger *slog.Logger) ExtractStepOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates a new extract step.
func NewExtractStep(opts ...ExtractStepOption) *ExtractStep {
	s := &ExtractStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.extractor == nil {
		s.extractor = extractor.New(extractor.WithLogger(s.logger))
	}

	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do extracts the job's tag from its document into job.Results.
func (s *ExtractStep) Do(_ context.Context, job *model.Job) error {
	results, err := s.extractor.Extract(job.Document, job.TagName)
	if err != nil {
		if errors.Is(err, extractor.ErrNoMatch) {
			s.logger.Warn("no matching tag",
				"source", job.Source,
				"tag", job.TagName,
			)
			job.Results = results
			job.SetError(err)
			return nil
		}
		return err
	}

	job.Results = results
	s.logger.Info("tags extracted",
		"source", job.Source,
		"matches", len(results),
		"base64", model.Base64Count(results),
	)
	return nil
}

// EmbeddedStep looks up the job's embedded element in the decoded payloads.
// Jobs without an element name are skipped.
type EmbeddedStep struct {
	extractor *extractor.Extractor
	logger    *slog.Logger
}

// EmbeddedStepOption configures an EmbeddedStep.
type EmbeddedStepOption func(*EmbeddedStep)

// WithEmbeddedExtractor sets the extractor used by the step.
func WithEmbeddedExtractor(e *extractor.Extractor) EmbeddedStepOption {
	return func(s *EmbeddedStep) {
		s.extractor = e
	}
}

// WithEmbeddedLogger sets a custom logger for the embedded step.
func WithEmbeddedLogger(logger *slog.Logger) EmbeddedStepOption {
	return func(s *EmbeddedStep) {
		s.logger = logger
	}
}

// NewEmbeddedStep creates a new embedded-element step.
func NewEmbeddedStep(opts ...EmbeddedStepOption) *EmbeddedStep {
	s := &EmbeddedStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.extractor == nil {
		s.extractor = extractor.New(extractor.WithLogger(s.logger))
	}

	return s
}

// Name returns the step name.
func (s *EmbeddedStep) Name() string {
	return "embedded"
}

// Do sets job.Embedded and job.EmbeddedFound.
func (s *EmbeddedStep) Do(_ context.Context, job *model.Job) error {
	if job.ElementName == "" {
		s.logger.Debug("skipping embedded element lookup, no element name")
		return nil
	}

	job.Embedded, job.EmbeddedFound = s.extractor.ExtractNamedElement(job.Results, job.ElementName)
	if !job.EmbeddedFound {
		s.logger.Debug("embedded element not found",
			"source", job.Source,
			"element", job.ElementName,
		)
	}
	return nil
}

// JobSaver persists finished jobs.
type JobSaver interface {
	SaveJob(ctx context.Context, job *model.Job) (string, error)
}

// SaveStep stores the job with a JobSaver. Storage failures are logged and
// do not fail the job.
type SaveStep struct {
	saver  JobSaver
	logger *slog.Logger
}

// NewSaveStep creates a new save step.
func NewSaveStep(saver JobSaver, logger *slog.Logger) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveStep{saver: saver, logger: logger}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do saves the job.
func (s *SaveStep) Do(ctx context.Context, job *model.Job) error {
	id, err := s.saver.SaveJob(ctx, job)
	if err != nil {
		s.logger.Warn("failed to save job to history",
			"source", job.Source,
			"error", err,
		)
		return nil
	}
	s.logger.Debug("job saved to history",
		"source", job.Source,
		"id", id,
	)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Extractor is shared by the extract and embedded steps.
	Extractor *extractor.Extractor

	// Stdin is read for standard input jobs.
	Stdin io.Reader

	// Saver, when set, adds a save step at the end of the pipeline.
	Saver JobSaver
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineExtractor sets the extractor for the pipeline.
func WithPipelineExtractor(e *extractor.Extractor) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Extractor = e
	}
}

// WithPipelineStdin sets the reader used for standard input jobs.
func WithPipelineStdin(r io.Reader) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Stdin = r
	}
}

// WithPipelineSaver enables saving jobs with saver.
func WithPipelineSaver(saver JobSaver) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Saver = saver
	}
}

// DefaultPipeline creates a pipeline with the read, extract and embedded
// steps, plus a save step when a saver is configured.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The variadic parameter accepts pipeline config options.
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Stdin: os.Stdin,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}
	if cfg.Extractor == nil {
		cfg.Extractor = extractor.New(extractor.WithLogger(p.logger))
	}

	p.AddSteps(
		NewReadStep(WithStdin(cfg.Stdin), WithReadLogger(p.logger)),
		NewExtractStep(WithExtractor(cfg.Extractor), WithExtractLogger(p.logger)),
		NewEmbeddedStep(WithEmbeddedExtractor(cfg.Extractor), WithEmbeddedLogger(p.logger)),
	)
	if cfg.Saver != nil {
		p.AddStep(NewSaveStep(cfg.Saver, p.logger))
	}

	return p
}
