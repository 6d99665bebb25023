package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/xmldecode/internal/config"
	"github.com/nao1215/xmldecode/internal/extractor"
	"github.com/nao1215/xmldecode/internal/model"
	"github.com/nao1215/xmldecode/internal/pipeline"
	"github.com/nao1215/xmldecode/internal/pretty"
	"github.com/nao1215/xmldecode/internal/report"
	"github.com/nao1215/xmldecode/internal/xmltoken"
	"github.com/spf13/cobra"
)

// NewDecodeCmd creates the decode command.
func NewDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file...]",
		Short: "Decode the Base64 content of a tag",
		Long: `Decode finds every element with the given tag name, decodes its text when
it is Base64 and writes the results.

Standard input is read when no file (or "-") is given.

Output formats:
  xml       export document with one <resultado> per match (default)
  json      the whole job, including the embedded element
  markdown  a report with a summary table and the decoded payloads
  pretty    human-readable terminal output

Examples:
  # Decode the <contenido> elements of a file
  xmldecode decode form.xml

  # Decode another tag and save the export into a directory
  xmldecode decode -t payload -o exports/ form.xml

  # Review several files in the terminal, with colors
  xmldecode decode -f pretty --printer token --color *.xml

  # Save the export and show it at the same time
  xmldecode decode -o exports/ --tee form.xml

  # Decode from standard input and copy the export
  cat form.xml | xmldecode decode --copy`,
		Args: cobra.ArbitraryArgs,
		RunE: runDecodeCmd,
	}

	cmd.Flags().StringP("tag", "t", config.DefaultTagName,
		"Tag whose content is decoded")
	cmd.Flags().StringP("element", "e", config.DefaultElementName,
		"Element looked up inside the decoded payloads")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format: xml, json, markdown or pretty")
	cmd.Flags().StringP("output", "o", "",
		"Write output to a file, or into a directory using the export file name")
	cmd.Flags().String("printer", config.DefaultPrinter,
		"Pretty-printer for the pretty format: tree or token")
	cmd.Flags().Bool("color", false,
		"Colorize pretty output")
	cmd.Flags().Bool("html", false,
		"Render token-printed payloads as HTML spans")
	cmd.Flags().Bool("copy", false,
		"Copy the output to the clipboard")
	cmd.Flags().Bool("tee", false,
		"With --output, also write the output to stdout")
	cmd.Flags().Bool("save", false,
		"Save the decoded jobs to the history database")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of files decoded concurrently")

	return cmd
}

// runDecodeCmd executes the decode command.
func runDecodeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	preferTokenPrinter(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	return runDecode(ctx, cmd, cfg, logger)
}

// runDecode decodes every source of cfg and writes the output.
func runDecode(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	sources := sourcesOf(cfg)
	if err := validateSources(sources); err != nil {
		return err
	}

	var saver pipeline.JobSaver
	if cfg.SaveHistory {
		db, err := openHistoryForWrite(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		saver = db
		logger.Info("history database opened", "path", db.Path())
	}

	jobs, err := decodeSources(ctx, cmd.InOrStdin(), cfg, saver, logger, sources)
	if err != nil {
		return err
	}

	if len(jobs) == 1 && jobs[0] != nil && jobs[0].Error != nil && !jobs[0].HasResults() {
		return fmt.Errorf("%s: %w", displaySource(jobs[0].Source), jobs[0].Error)
	}
	reportJobErrors(cmd.ErrOrStderr(), jobs)

	var buf bytes.Buffer
	w, err := newWriter(cfg, &buf, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if cfg.Tee && cfg.OutputFile != "" {
		stdout, err := newWriter(cfg, cmd.OutOrStdout(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		w = report.NewMultiWriter(w, stdout)
	}
	if err := writeJobs(w, cfg, jobs); err != nil {
		if errors.Is(err, report.ErrNoResults) {
			return firstJobError(jobs, err)
		}
		return err
	}

	return emit(cmd, cfg, cmd.OutOrStdout(), buf.String())
}

// decodeSources runs the default pipeline over sources and returns one job
// per source, in order.
func decodeSources(
	ctx context.Context,
	stdin io.Reader,
	cfg *config.Config,
	saver pipeline.JobSaver,
	logger *slog.Logger,
	sources []string,
) ([]*model.Job, error) {
	ext := extractor.New(
		extractor.WithLogger(logger),
		extractor.WithDefaultTagName(cfg.TagName),
	)

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineExtractor(ext),
		pipeline.WithPipelineStdin(stdin),
	}
	if saver != nil {
		configOpts = append(configOpts, pipeline.WithPipelineSaver(saver))
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline([]pipeline.Option{pipeline.WithLogger(logger)}, configOpts...)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithJobFactory(func(source string) *model.Job {
			job := model.NewJob(source, cfg.TagName)
			job.ElementName = cfg.ElementName
			return job
		}),
	)

	jobs, err := bp.ProcessBatch(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("decoding interrupted: %w", err)
	}
	return jobs, nil
}

// newWriter returns the report writer for cfg.Format writing to w.
// term is the final destination, used to decide on color support.
func newWriter(cfg *config.Config, w io.Writer, term io.Writer) (report.Writer, error) {
	switch cfg.Format {
	case config.FormatJSON:
		return report.NewJSONWriter(w, report.WithPrettyPrint()), nil
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(w), nil
	case config.FormatPretty:
		printer, err := newPrinter(cfg, term)
		if err != nil {
			return nil, err
		}
		return report.NewTerminalWriter(w,
			report.WithPrinter(printer),
			report.WithVerbose(cfg.Verbose),
		), nil
	default:
		return report.NewXMLWriter(w), nil
	}
}

// newPrinter returns the printer selected by cfg. The renderer only
// matters for the token printer.
func newPrinter(cfg *config.Config, term io.Writer) (pretty.Printer, error) {
	var renderer xmltoken.Renderer
	switch {
	case cfg.HTML:
		renderer = xmltoken.HTMLRenderer{}
	case cfg.Color:
		renderer = xmltoken.NewANSIRenderer(term, true)
	default:
		renderer = xmltoken.PlainRenderer{}
	}
	return pretty.New(pretty.Kind(cfg.Printer), renderer)
}

// writeJobs writes jobs with w. Several jobs are merged into one export
// document for the xml format and into one array for json.
func writeJobs(w report.Writer, cfg *config.Config, jobs []*model.Job) error {
	done := completedJobs(jobs)

	if len(done) == 1 {
		_, err := w.WriteJob(done[0])
		return err
	}

	switch cfg.Format {
	case config.FormatXML:
		results := make([]model.DecodedResult, 0)
		for _, job := range done {
			results = append(results, job.Results...)
		}
		_, err := w.Write(results)
		return err
	case config.FormatJSON:
		if jw, ok := w.(report.JobsWriter); ok {
			_, err := jw.WriteJobs(done)
			return err
		}
	}

	if len(done) == 0 {
		return report.ErrNoResults
	}
	for _, job := range done {
		if _, err := w.WriteJob(job); err != nil {
			return err
		}
	}
	return nil
}

// completedJobs drops the jobs that never started.
func completedJobs(jobs []*model.Job) []*model.Job {
	done := make([]*model.Job, 0, len(jobs))
	for _, job := range jobs {
		if job != nil {
			done = append(done, job)
		}
	}
	return done
}

// reportJobErrors prints one line per failed job.
func reportJobErrors(w io.Writer, jobs []*model.Job) {
	for _, job := range completedJobs(jobs) {
		if job.Error == nil {
			continue
		}
		fmt.Fprintf(w, "%s: %v\n", displaySource(job.Source), job.Error)
	}
}

// firstJobError returns the first error recorded on a job, or fallback.
func firstJobError(jobs []*model.Job, fallback error) error {
	for _, job := range completedJobs(jobs) {
		if job.Error != nil {
			return job.Error
		}
	}
	return fallback
}

// displaySource names a source for messages.
func displaySource(source string) string {
	if source == model.StdinSource || source == "" {
		return "(stdin)"
	}
	return source
}
