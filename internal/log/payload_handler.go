package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// payloadKeys contains attribute keys whose values are always previewed.
var payloadKeys = map[string]bool{
	"payload":  true,
	"content":  true,
	"decoded":  true,
	"document": true,
	"base64":   true,
	"xml":      true,
	"embedded": true,
	"original": true,
	"body":     true,
}

// payloadKeywords are matched anywhere inside a key.
var payloadKeywords = []string{
	"payload", "content", "decoded", "document", "base64",
}

// base64Value matches long standard Base64 strings.
var base64Value = regexp.MustCompile(`^[A-Za-z0-9+/]{48,}={0,2}$`)

// PreviewLength is the number of runes kept from a previewed value.
const PreviewLength = 24

// PayloadHandler wraps an slog.Handler to shorten payload values.
// It intercepts log records and replaces attribute values that match
// payload key names or look like Base64 with a preview before passing them
// to the underlying handler.
type PayloadHandler struct {
	// handler is the underlying slog handler that receives shortened records.
	handler slog.Handler
}

// NewPayloadHandler creates a new PayloadHandler wrapping the given handler.
// If handler is nil, the returned PayloadHandler uses slog.Default().Handler().
func NewPayloadHandler(handler slog.Handler) *PayloadHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PayloadHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PayloadHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle shortens the record's attributes and passes it to the underlying handler.
func (h *PayloadHandler) Handle(ctx context.Context, r slog.Record) error {
	shortened := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		shortened.AddAttrs(h.shortenAttr(a))
		return true
	})

	return h.handler.Handle(ctx, shortened)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are shortened before being added.
func (h *PayloadHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	shortened := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		shortened[i] = h.shortenAttr(a)
	}
	return &PayloadHandler{handler: h.handler.WithAttrs(shortened)}
}

// WithGroup returns a new handler with the given group name.
func (h *PayloadHandler) WithGroup(name string) slog.Handler {
	return &PayloadHandler{handler: h.handler.WithGroup(name)}
}

// shortenAttr shortens a single attribute, recursively handling groups.
func (h *PayloadHandler) shortenAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		shortened := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			shortened[i] = h.shortenAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(shortened...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	value := a.Value.String()
	if isPayloadKey(strings.ToLower(a.Key)) || isPayloadValue(value) {
		return slog.String(a.Key, Preview(value))
	}
	return a
}

// isPayloadKey checks if the key names payload data.
func isPayloadKey(key string) bool {
	if payloadKeys[key] {
		return true
	}
	for _, keyword := range payloadKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isPayloadValue checks if a value looks like a Base64 payload.
func isPayloadValue(value string) bool {
	return base64Value.MatchString(value)
}

// Preview returns the first PreviewLength runes of value followed by its
// size in bytes. Values that already fit are returned unchanged.
func Preview(value string) string {
	if utf8.RuneCountInString(value) <= PreviewLength {
		return value
	}

	end := 0
	for i := 0; i < PreviewLength; i++ {
		_, size := utf8.DecodeRuneInString(value[end:])
		end += size
	}
	return value[:end] + "…(" + strconv.Itoa(len(value)) + " bytes)"
}

// NewLogger creates a new slog.Logger writing text records to w with
// payload values shortened.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPayloadHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger creates a new slog.Logger that outputs JSON format with
// payload values shortened. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPayloadHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
