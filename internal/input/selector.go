package input

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// IsValidFile reports whether a file is accepted as XML: its media type is
// text/xml (parameters ignored) or its extension is .xml in any case.
func IsValidFile(name, mimeType string) bool {
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil && mediaType == XMLMIMEType {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".xml")
}

// DetectMIMEType sniffs the media type of the file at path from its first
// bytes. It returns "" when the file cannot be read.
func DetectMIMEType(path string) string {
	f, err := os.Open(path) //nolint:gosec // reading user-selected files is the purpose
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && n == 0 {
		return ""
	}
	return http.DetectContentType(head[:n])
}

// Status is the state of a Selector.
type Status string

const (
	// StatusIdle means nothing is selected.
	StatusIdle Status = "idle"
	// StatusReady means a valid file is selected.
	StatusReady Status = "ready"
	// StatusError means the last selection was rejected.
	StatusError Status = "error"
)

// State is a snapshot of a Selector.
type State struct {
	Status  Status
	Path    string
	Message string
}

// Selector tracks the file chosen for processing, the way a file picker or
// a drop zone does. It is safe for concurrent use.
type Selector struct {
	mu    sync.Mutex
	state State
}

// NewSelector returns an idle Selector.
func NewSelector() *Selector {
	return &Selector{state: State{Status: StatusIdle}}
}

// Select takes the first of paths. A rejected selection keeps the
// previously selected path and moves the Selector to StatusError.
func (s *Selector) Select(paths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(paths) == 0 {
		s.state.Status = StatusError
		s.state.Message = ErrNoFile.Error()
		return ErrNoFile
	}

	path := paths[0]
	if !IsValidFile(path, DetectMIMEType(path)) {
		s.state.Status = StatusError
		s.state.Message = ErrInvalidFile.Error()
		return ErrInvalidFile
	}

	s.state = State{Status: StatusReady, Path: path}
	return nil
}

// Clear drops the selection and returns to StatusIdle.
func (s *Selector) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{Status: StatusIdle}
}

// State returns the current state.
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Read reads the selected file. It returns ErrNoFile unless the Selector is
// ready.
func (s *Selector) Read() (string, error) {
	st := s.State()
	if st.Status != StatusReady {
		return "", ErrNoFile
	}
	return ReadFile(st.Path)
}
