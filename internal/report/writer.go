package report

import (
	"errors"
	"io"

	"github.com/nao1215/xmldecode/internal/model"
)

// ErrNoResults is returned by writers that have nothing to write.
var ErrNoResults = errors.New("no results to write")

// Writer defines the interface for result output.
// Implementations write decode results in various formats.
type Writer interface {
	// Write outputs the results to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(results []model.DecodedResult) (int, error)

	// WriteJob outputs a whole job, including where the document came
	// from and the embedded element when one was found.
	WriteJob(job *model.Job) (int, error)
}

// JobsWriter is implemented by writers that can put several jobs into one
// output, such as a JSON array.
type JobsWriter interface {
	WriteJobs(jobs []*model.Job) (int, error)
}

// MultiWriter writes the same output to several Writers, for example the
// output file and stdout.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the results to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(results []model.DecodedResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteJob outputs the job to all configured Writers.
func (m *MultiWriter) WriteJob(job *model.Job) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteJob(job)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteJobs writes jobs to every Writer. Writers implementing JobsWriter
// get all jobs at once; the others get one WriteJob call per job.
func (m *MultiWriter) WriteJobs(jobs []*model.Job) (int, error) {
	var total int
	for _, w := range m.writers {
		if jw, ok := w.(JobsWriter); ok {
			n, err := jw.WriteJobs(jobs)
			total += n
			if err != nil {
				return total, err
			}
			continue
		}
		for _, job := range jobs {
			n, err := w.WriteJob(job)
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// XMLWriter writes the export envelope produced by Export.
type XMLWriter struct {
	baseWriter
}

// NewXMLWriter creates an XMLWriter that outputs to the given writer.
func NewXMLWriter(output io.Writer) *XMLWriter {
	return &XMLWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the export envelope followed by a newline.
// Returns ErrNoResults when results is empty.
func (w *XMLWriter) Write(results []model.DecodedResult) (int, error) {
	doc := Export(results)
	if doc == "" {
		return 0, ErrNoResults
	}
	return io.WriteString(w.output, doc+"\n")
}

// WriteJob outputs the export envelope of the job's results.
func (w *XMLWriter) WriteJob(job *model.Job) (int, error) {
	return w.Write(job.Results)
}
