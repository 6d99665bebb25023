package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nao1215/xmldecode/internal/config"
	"github.com/nao1215/xmldecode/internal/extractor"
	"github.com/nao1215/xmldecode/internal/input"
	"github.com/nao1215/xmldecode/internal/model"
	"github.com/nao1215/xmldecode/internal/notify"
	"github.com/nao1215/xmldecode/internal/pipeline"
	"github.com/nao1215/xmldecode/internal/report"
	"github.com/spf13/cobra"
)

// decodedSuffix marks export files written by watch. Files with it are
// never decoded again.
const decodedSuffix = ".decoded.xml"

// defaultDebounce is how long a file must stay unchanged before it is
// decoded.
const defaultDebounce = 300 * time.Millisecond

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Decode XML files as they are dropped into a directory",
		Long: `Watch decodes every .xml file created or modified in a directory and writes
its export next to it as <name>.decoded.xml (or into --output).

A status line is printed for each file. Press Ctrl+C to stop.

Examples:
  xmldecode watch ~/Downloads
  xmldecode watch -o ~/exports -t payload inbox/`,
		Args: cobra.ExactArgs(1),
		RunE: runWatchCmd,
	}

	cmd.Flags().StringP("tag", "t", config.DefaultTagName,
		"Tag whose content is decoded")
	cmd.Flags().StringP("output", "o", "",
		"Directory receiving the exports (default: the watched directory)")
	cmd.Flags().Bool("save", false,
		"Save the decoded jobs to the history database")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	w, err := newDirWatcher(args[0], cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if cfg.SaveHistory {
		db, err := openHistoryForWrite(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		w.saver = db
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", w.dir)
	return w.Run(ctx)
}

// dirWatcher decodes the XML files written into one directory.
type dirWatcher struct {
	dir      string
	outDir   string
	tagName  string
	element  string
	debounce time.Duration

	// concurrency bounds how many ready files are decoded at once.
	concurrency int

	logger   *slog.Logger
	board    *notify.Board
	selector *input.Selector
	saver    pipeline.JobSaver

	// mu serializes status output.
	mu     sync.Mutex
	status io.Writer
}

// newDirWatcher checks that dir is a directory and returns a watcher for it.
func newDirWatcher(dir string, cfg *config.Config, logger *slog.Logger, status io.Writer) (*dirWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	outDir := cfg.OutputFile
	if outDir == "" {
		outDir = dir
	}

	w := &dirWatcher{
		dir:         dir,
		outDir:      outDir,
		tagName:     cfg.TagName,
		element:     cfg.ElementName,
		debounce:    defaultDebounce,
		concurrency: cfg.BatchSize,
		logger:      logger,
		selector:    input.NewSelector(),
		status:      status,
	}
	w.board = notify.NewBoard(notify.WithOnChange(w.printStatus))
	return w, nil
}

// printStatus prints every visible notification.
func (w *dirWatcher) printStatus(n notify.Notification) {
	if n.Empty() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.status, "[%s] %s\n", n.Type, n.Message)
}

// Run watches the directory until ctx is done.
func (w *dirWatcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()
	defer w.board.Stop()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	ticker := time.NewTicker(w.debounce / 3)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				if w.wants(event.Name) {
					pending[event.Name] = time.Now()
				}
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
			w.board.Error(err.Error())

		case now := <-ticker.C:
			ready := make([]string, 0, len(pending))
			for path, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, path)
				ready = append(ready, path)
			}
			if len(ready) > 0 {
				sort.Strings(ready)
				w.processBatch(ctx, ready)
			}
		}
	}
}

// wants reports whether path is a file watch should decode.
func (w *dirWatcher) wants(path string) bool {
	name := filepath.Base(path)
	return !strings.HasPrefix(name, ".") && !strings.HasSuffix(strings.ToLower(name), decodedSuffix)
}

// readReady validates and reads the files in paths. Files that are not
// XML are skipped; read failures are reported on the board.
func (w *dirWatcher) readReady(paths []string) map[string]string {
	docs := make(map[string]string, len(paths))
	for _, path := range paths {
		if err := w.selector.Select(path); err != nil {
			w.logger.Debug("ignoring file", "path", path, "error", err)
			continue
		}
		doc, err := w.selector.Read()
		w.selector.Clear()
		if err != nil {
			w.board.Error(fmt.Sprintf("%s: %v", filepath.Base(path), err))
			continue
		}
		docs[path] = doc
	}
	return docs
}

// processBatch decodes the files in paths concurrently and writes each
// export as soon as its job is done.
func (w *dirWatcher) processBatch(ctx context.Context, paths []string) {
	docs := w.readReady(paths)
	sources := make([]string, 0, len(docs))
	for _, path := range paths {
		if _, ok := docs[path]; ok {
			sources = append(sources, path)
		}
	}
	if len(sources) == 0 {
		return
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineExtractor(extractor.New(extractor.WithLogger(w.logger))),
	}
	if w.saver != nil {
		configOpts = append(configOpts, pipeline.WithPipelineSaver(w.saver))
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline([]pipeline.Option{pipeline.WithLogger(w.logger)}, configOpts...)
		},
		pipeline.WithConcurrency(w.concurrency),
		pipeline.WithBatchLogger(w.logger),
		pipeline.WithJobFactory(func(source string) *model.Job {
			job := model.NewJob(source, w.tagName)
			job.ElementName = w.element
			job.Document = docs[source]
			return job
		}),
	)

	err := bp.ProcessBatchWithCallback(ctx, sources, func(job *model.Job, _ int) {
		w.finish(job)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Warn("watch batch interrupted", "error", err)
	}
}

// finish writes the export of a decoded job and reports the outcome.
func (w *dirWatcher) finish(job *model.Job) {
	name := filepath.Base(job.Source)

	var buf bytes.Buffer
	if _, err := report.NewXMLWriter(&buf).WriteJob(job); err != nil {
		if errors.Is(err, report.ErrNoResults) && job.Error != nil {
			err = job.Error
		}
		w.board.Error(fmt.Sprintf("%s: %v", name, err))
		return
	}

	out := filepath.Join(w.outDir, exportName(job.Source))
	if err := os.MkdirAll(w.outDir, 0750); err != nil {
		w.board.Error(fmt.Sprintf("failed to create output directory: %v", err))
		return
	}
	if err := os.WriteFile(out, buf.Bytes(), 0600); err != nil {
		w.board.Error(fmt.Sprintf("failed to write %s: %v", out, err))
		return
	}

	w.board.Success(fmt.Sprintf("%s: %d match(es), %d Base64, wrote %s",
		name, len(job.Results), job.Base64Count(), out))
}

// exportName returns the export file name for the source at path.
func exportName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + decodedSuffix
}
