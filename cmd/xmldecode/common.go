package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/xmldecode/internal/clipboard"
	"github.com/nao1215/xmldecode/internal/config"
	"github.com/nao1215/xmldecode/internal/input"
	xlog "github.com/nao1215/xmldecode/internal/log"
	"github.com/nao1215/xmldecode/internal/model"
	"github.com/nao1215/xmldecode/internal/notify"
	"github.com/nao1215/xmldecode/internal/report"
	"github.com/spf13/cobra"
)

// stringFlag returns the value of a string flag, or "" when the command
// does not define it.
func stringFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// Log record formats selected with --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// ErrInvalidLogFormat is returned for an unknown --log-format value.
var ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

// logFormatFlag returns the --log-format value of cmd, or text when unset.
func logFormatFlag(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
	}
	if err != nil || format == "" {
		return logFormatText
	}
	return format
}

func validateLogFormat(format string) error {
	switch format {
	case logFormatText, logFormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, format)
	}
}

// newLogger returns the text or JSON logger writing to w.
func newLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	if format == logFormatJSON {
		return xlog.NewJSONLogger(w, verbose)
	}
	return xlog.NewLogger(w, verbose)
}

// setupLogger creates the logger for a command and makes it the default.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	logger := newLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd), logFormatFlag(cmd))
	slog.SetDefault(logger)
	return logger
}

// signalContext returns the command context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// buildConfig creates a Config from the configuration file and the flags of
// cmd. Flags that were set explicitly win over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = stringFlag(cmd, "config")
	cfg.Profile = stringFlag(cmd, "profile")

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Sources = args
	return cfg, nil
}

// loadConfigFile applies the configuration file to cfg.
// A missing file is only an error when it was named explicitly.
func loadConfigFile(cfg *config.Config) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		if cfg.Profile != "" {
			return fmt.Errorf("%w: %s (no configuration file)", config.ErrProfileNotFound, cfg.Profile)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := file.ApplyTo(cfg); err != nil {
		return fmt.Errorf("%w: %s", err, cfg.Profile)
	}
	return nil
}

// applyFlags overwrites cfg with every flag the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	stringFlags := map[string]*string{
		"tag":     &cfg.TagName,
		"element": &cfg.ElementName,
		"format":  &cfg.Format,
		"printer": &cfg.Printer,
		"output":  &cfg.OutputFile,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	boolFlags := map[string]*bool{
		"color": &cfg.Color,
		"html":  &cfg.HTML,
		"copy":  &cfg.Copy,
		"tee":   &cfg.Tee,
		"save":  &cfg.SaveHistory,
	}
	for name, dst := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if flags.Changed("batch") {
		v, err := flags.GetInt("batch")
		if err != nil {
			return err
		}
		cfg.BatchSize = v
	}

	return nil
}

// preferTokenPrinter selects the token printer for --html and --color,
// which only it can render, unless --printer was given.
func preferTokenPrinter(cmd *cobra.Command, cfg *config.Config) {
	if (cfg.HTML || cfg.Color) && !cmd.Flags().Changed("printer") {
		cfg.Printer = config.PrinterToken
	}
}

// sourcesOf returns the sources to process: the file arguments, or
// standard input when there are none.
func sourcesOf(cfg *config.Config) []string {
	if cfg.Stdin() {
		return []string{model.StdinSource}
	}
	return cfg.Sources
}

// validateSources rejects files that are neither text/xml nor *.xml.
func validateSources(sources []string) error {
	for _, source := range sources {
		if source == model.StdinSource {
			continue
		}
		if !input.IsValidFile(source, input.DetectMIMEType(source)) {
			return fmt.Errorf("%w: %s", input.ErrInvalidFile, source)
		}
	}
	return nil
}

// resolveOutputPath returns path, or the export file name inside path when
// path is an existing directory.
func resolveOutputPath(path string, now time.Time) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, report.FileName(now))
	}
	return path
}

// emit writes content to cfg.OutputFile, or to w when no file is set, and
// copies it to the clipboard when requested.
func emit(cmd *cobra.Command, cfg *config.Config, w io.Writer, content string) error {
	if cfg.OutputFile != "" {
		path := resolveOutputPath(cfg.OutputFile, time.Now())

		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Decoded payloads may hold personal data: owner-only permissions.
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	} else if _, err := io.WriteString(w, content); err != nil {
		return err
	}

	if cfg.Copy {
		return copyToClipboard(cmd.ErrOrStderr(), content)
	}
	return nil
}

// copyToClipboard copies content and reports the outcome on w as a
// transient notification.
func copyToClipboard(w io.Writer, content string) error {
	board := notify.NewBoard(notify.WithOnChange(func(n notify.Notification) {
		if !n.Empty() {
			fmt.Fprintf(w, "[%s] %s\n", n.Type, n.Message)
		}
	}))
	defer board.Stop()

	err := clipboard.Copy(content)
	if err != nil {
		board.Show(notify.Notification{Type: notify.TypeError, Message: err.Error(), Timeout: notify.CopyTimeout})
		if errors.Is(err, clipboard.ErrEmptyContent) {
			return nil
		}
		return err
	}
	board.Show(notify.Notification{Type: notify.TypeSuccess, Message: "copied to clipboard", Timeout: notify.CopyTimeout})
	return nil
}
