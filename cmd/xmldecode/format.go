package main

import (
	"fmt"

	"github.com/nao1215/xmldecode/internal/config"
	"github.com/nao1215/xmldecode/internal/input"
	"github.com/nao1215/xmldecode/internal/model"
	"github.com/spf13/cobra"
)

// NewFormatCmd creates the format command.
func NewFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Pretty-print an XML document",
		Long: `Format indents an XML document, two spaces per level.

The tree printer parses the document and returns it unchanged when it is not
well-formed. The token printer works on any text, including fragments, and
can render HTML spans (--html) or ANSI colors (--color).

Standard input is read when no file (or "-") is given.

Examples:
  xmldecode format form.xml
  xmldecode format --printer token --color fragment.xml
  xmldecode format --html form.xml > form.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFormatCmd,
	}

	cmd.Flags().String("printer", config.DefaultPrinter,
		"Pretty-printer: tree or token (default token with --html or --color)")
	cmd.Flags().Bool("html", false,
		"Render HTML spans (token printer)")
	cmd.Flags().Bool("color", false,
		"Render ANSI colors (token printer)")
	cmd.Flags().StringP("output", "o", "",
		"Write the formatted document to a file")
	cmd.Flags().Bool("copy", false,
		"Copy the formatted document to the clipboard")

	return cmd
}

// runFormatCmd executes the format command.
func runFormatCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	preferTokenPrinter(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	setupLogger(cmd)

	source := sourcesOf(cfg)[0]
	var doc string
	if source == model.StdinSource {
		doc, err = input.ReadAll(cmd.InOrStdin())
	} else {
		if err := validateSources([]string{source}); err != nil {
			return err
		}
		doc, err = input.ReadFile(source)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", displaySource(source), err)
	}

	printer, err := newPrinter(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	out := printer.Print(doc)
	if out != "" && out[len(out)-1] != '\n' {
		out += "\n"
	}
	return emit(cmd, cfg, cmd.OutOrStdout(), out)
}
