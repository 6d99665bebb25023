package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/xmldecode/internal/extractor"
	"github.com/nao1215/xmldecode/internal/input"
	"github.com/nao1215/xmldecode/internal/model"
)

const sampleDocument = `<root><contenido>PHdlYmZvcm1EYXRhPjxhPjE8L2E+PC93ZWJmb3JtRGF0YT4=</contenido><contenido>plain</contenido></root>`

// fakeSaver records saved jobs.
type fakeSaver struct {
	mu    sync.Mutex
	saved []*model.Job
	err   error
}

func (f *fakeSaver) SaveJob(_ context.Context, job *model.Job) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, job)
	return "id-1", nil
}

func TestReadStep(t *testing.T) {
	t.Parallel()

	t.Run("reads document from file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.xml")
		if err := os.WriteFile(path, []byte(sampleDocument), 0o600); err != nil {
			t.Fatal(err)
		}

		job := model.NewJob(path, "")
		step := NewReadStep(WithReadLogger(discardLogger()))
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Document != sampleDocument {
			t.Errorf("unexpected document %q", job.Document)
		}
	})

	t.Run("reads document from stdin", func(t *testing.T) {
		t.Parallel()

		job := model.NewJob(model.StdinSource, "")
		step := NewReadStep(WithStdin(strings.NewReader(sampleDocument)), WithReadLogger(discardLogger()))
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Document != sampleDocument {
			t.Errorf("unexpected document %q", job.Document)
		}
	})

	t.Run("keeps a document already set", func(t *testing.T) {
		t.Parallel()

		job := model.NewJob("missing.xml", "")
		job.Document = "<a/>"
		step := NewReadStep(WithReadLogger(discardLogger()))
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Document != "<a/>" {
			t.Errorf("document was replaced: %q", job.Document)
		}
	})

	t.Run("fails on empty stdin", func(t *testing.T) {
		t.Parallel()

		job := model.NewJob(model.StdinSource, "")
		step := NewReadStep(WithStdin(strings.NewReader("  ")), WithReadLogger(discardLogger()))
		if err := step.Do(context.Background(), job); !errors.Is(err, input.ErrEmptyFile) {
			t.Errorf("expected ErrEmptyFile, got %v", err)
		}
	})
}

func TestExtractStep(t *testing.T) {
	t.Parallel()

	t.Run("fills results", func(t *testing.T) {
		t.Parallel()

		job := model.NewJob("doc.xml", "")
		job.Document = sampleDocument

		step := NewExtractStep(WithExtractLogger(discardLogger()))
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(job.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(job.Results))
		}
		if job.Results[0].DecodedText != "<webformData><a>1</a></webformData>" {
			t.Errorf("unexpected decoded text %q", job.Results[0].DecodedText)
		}
		if job.Results[1].IsBase64 {
			t.Error("expected second result not to be Base64")
		}
	})

	t.Run("records missing tag on the job", func(t *testing.T) {
		t.Parallel()

		job := model.NewJob("doc.xml", "absent")
		job.Document = sampleDocument

		step := NewExtractStep(WithExtractLogger(discardLogger()))
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !errors.Is(job.Error, extractor.ErrNoMatch) {
			t.Errorf("expected ErrNoMatch on job, got %v", job.Error)
		}
		if job.Results == nil || len(job.Results) != 0 {
			t.Errorf("expected empty results, got %v", job.Results)
		}
	})

	t.Run("fails on malformed document", func(t *testing.T) {
		t.Parallel()

		job := model.NewJob("doc.xml", "")
		job.Document = "<root><contenido>"

		step := NewExtractStep(WithExtractLogger(discardLogger()))
		if err := step.Do(context.Background(), job); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestEmbeddedStep(t *testing.T) {
	t.Parallel()

	t.Run("finds embedded element", func(t *testing.T) {
		t.Parallel()

		job := model.NewJob("doc.xml", "")
		job.ElementName = "webformData"
		job.Results = []model.DecodedResult{
			model.NewDecodedResult("contenido", "x", "<webformData><a>1</a></webformData>", true),
		}

		step := NewEmbeddedStep(WithEmbeddedLogger(discardLogger()))
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !job.EmbeddedFound {
			t.Fatal("expected embedded element to be found")
		}
		want := "<webformData>\n  <a>1</a>\n</webformData>\n"
		if job.Embedded != want {
			t.Errorf("got %q, want %q", job.Embedded, want)
		}
	})

	t.Run("skips without element name", func(t *testing.T) {
		t.Parallel()

		job := model.NewJob("doc.xml", "")
		job.Results = []model.DecodedResult{
			model.NewDecodedResult("contenido", "x", "<webformData/>", true),
		}

		step := NewEmbeddedStep(WithEmbeddedLogger(discardLogger()))
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.EmbeddedFound {
			t.Error("expected lookup to be skipped")
		}
	})
}

func TestSaveStep(t *testing.T) {
	t.Parallel()

	t.Run("saves job", func(t *testing.T) {
		t.Parallel()

		saver := &fakeSaver{}
		job := model.NewJob("doc.xml", "")
		if err := NewSaveStep(saver, discardLogger()).Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(saver.saved) != 1 || saver.saved[0] != job {
			t.Error("expected job to be saved")
		}
	})

	t.Run("ignores storage failures", func(t *testing.T) {
		t.Parallel()

		saver := &fakeSaver{err: errors.New("disk full")}
		job := model.NewJob("doc.xml", "")
		if err := NewSaveStep(saver, discardLogger()).Do(context.Background(), job); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if job.Error != nil {
			t.Errorf("storage failure should not be recorded on job, got %v", job.Error)
		}
	})
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("has read, extract and embedded steps", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline([]Option{WithLogger(discardLogger())})

		names := p.StepNames()
		want := []string{"read", "extract", "embedded"}
		if len(names) != len(want) {
			t.Fatalf("got %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("step %d: got %q, want %q", i, names[i], want[i])
			}
		}
	})

	t.Run("adds save step with a saver", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline([]Option{WithLogger(discardLogger())}, WithPipelineSaver(&fakeSaver{}))

		if p.StepCount() != 4 {
			t.Errorf("expected 4 steps, got %d", p.StepCount())
		}
	})

	t.Run("decodes a document end to end", func(t *testing.T) {
		t.Parallel()

		saver := &fakeSaver{}
		p := DefaultPipeline(
			[]Option{WithLogger(discardLogger())},
			WithPipelineStdin(strings.NewReader(sampleDocument)),
			WithPipelineExtractor(extractor.New(extractor.WithLogger(discardLogger()))),
			WithPipelineSaver(saver),
		)

		job := model.NewJob(model.StdinSource, "")
		job.ElementName = extractor.DefaultElementName
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if job.Base64Count() != 1 {
			t.Errorf("expected 1 Base64 result, got %d", job.Base64Count())
		}
		if !job.EmbeddedFound {
			t.Error("expected embedded element")
		}
		if len(job.PerformedSteps) != 4 {
			t.Errorf("unexpected performed steps %v", job.PerformedSteps)
		}
		if len(saver.saved) != 1 {
			t.Error("expected job to be saved")
		}
	})
}
