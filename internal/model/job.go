package model

import "time"

// StdinSource is the Source value used for documents read from standard input.
const StdinSource = "-"

// Job is the unit of work processed by the pipeline: one source document,
// the tag searched in it and everything extracted from it.
//
// Design decision: like a scan report, a Job accumulates the output of each
// pipeline step so that writers and the history store only ever need to look
// at one value.
type Job struct {
	// Source is the path of the input file, or StdinSource.
	Source string `json:"source"`

	// Document is the full XML text of the source.
	// Excluded from JSON because it can be large and is already on disk.
	Document string `json:"-"`

	// TagName is the tag whose content is decoded.
	TagName string `json:"tag_name"`

	// ElementName is the element looked up inside the decoded payloads.
	// Empty disables embedded-element extraction.
	ElementName string `json:"element_name,omitempty"`

	// Results holds one entry per matched tag in document order.
	Results []DecodedResult `json:"results"`

	// Embedded is the indented embedded element, if one was found.
	Embedded string `json:"embedded,omitempty"`

	// EmbeddedFound distinguishes "not found" from "found but empty".
	EmbeddedFound bool `json:"embedded_found"`

	// DateProcessed is when the job was created.
	DateProcessed time.Time `json:"date_processed"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the last error recorded by a pipeline step.
	Error error `json:"-"`

	// ErrorMessage is Error rendered as text for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewJob creates a Job for the given source and tag name.
// An empty tagName falls back to DefaultTagName.
func NewJob(source, tagName string) *Job {
	if tagName == "" {
		tagName = DefaultTagName
	}
	return &Job{
		Source:        source,
		TagName:       tagName,
		Results:       make([]DecodedResult, 0),
		DateProcessed: time.Now(),
	}
}

// HasResults reports whether any tag matched.
func (j *Job) HasResults() bool {
	return len(j.Results) > 0
}

// Base64Count returns how many of the job's results hold Base64 content.
func (j *Job) Base64Count() int {
	return Base64Count(j.Results)
}

// SetError records err on the job. A nil err clears nothing.
func (j *Job) SetError(err error) {
	if err == nil {
		return
	}
	j.Error = err
	j.ErrorMessage = err.Error()
}
