package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/xmldecode/internal/config"
	"github.com/nao1215/xmldecode/internal/extractor"
	"github.com/nao1215/xmldecode/internal/model"
	"github.com/nao1215/xmldecode/internal/pipeline"
	"github.com/spf13/cobra"
)

// ErrElementNotFound is returned when no decoded payload holds the element.
var ErrElementNotFound = errors.New("element not found in the decoded content")

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Print an element found inside the decoded payloads",
		Long: `Extract decodes the Base64 content of a tag and prints the first occurrence
of an element found in the decoded text, indented.

Standard input is read when no file (or "-") is given.

Examples:
  # Print the <webformData> element of the decoded payloads
  xmldecode extract form.xml

  # Look for another element and copy it to the clipboard
  xmldecode extract -e invoice --copy form.xml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtractCmd,
	}

	cmd.Flags().StringP("tag", "t", config.DefaultTagName,
		"Tag whose content is decoded")
	cmd.Flags().StringP("element", "e", config.DefaultElementName,
		"Element to print")
	cmd.Flags().StringP("output", "o", "",
		"Write the element to a file")
	cmd.Flags().Bool("copy", false,
		"Copy the element to the clipboard")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	sources := sourcesOf(cfg)
	if err := validateSources(sources); err != nil {
		return err
	}

	logger := setupLogger(cmd)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	p := pipeline.DefaultPipeline(
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithPipelineStdin(cmd.InOrStdin()),
		pipeline.WithPipelineExtractor(extractor.New(extractor.WithLogger(logger))),
	)

	job := model.NewJob(sources[0], cfg.TagName)
	job.ElementName = cfg.ElementName
	if err := p.Execute(ctx, job); err != nil {
		return fmt.Errorf("%s: %w", displaySource(job.Source), err)
	}
	if !job.HasResults() && job.Error != nil {
		return fmt.Errorf("%s: %w", displaySource(job.Source), job.Error)
	}
	if !job.EmbeddedFound {
		return fmt.Errorf("%w: <%s>", ErrElementNotFound, job.ElementName)
	}

	return emit(cmd, cfg, cmd.OutOrStdout(), job.Embedded)
}
