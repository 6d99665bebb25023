package xmltoken

import "strings"

const (
	openDelim       = "&lt;"
	closeDelim      = "&gt;"
	closingPrefix   = "&lt;/"
	selfCloseSuffix = "/&gt;"
)

// Kind classifies a chunk.
type Kind int

const (
	// KindTag is markup between an opening and a closing delimiter.
	KindTag Kind = iota
	// KindContent is non-whitespace text between tags.
	KindContent
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindTag {
		return "tag"
	}
	return "content"
}

// Chunk is one emitted line of the token printer.
// Text is escaped.
type Chunk struct {
	Kind  Kind
	Text  string
	Depth int
}

// Scan splits xml into indented chunks.
//
// A tag chunk starting with "</" is a closing tag and is emitted one level
// shallower than the current depth; a tag chunk that is neither closing nor
// ending in "/>" opens a level for the chunks after it. That includes
// "<?xml ...?>" declarations and "<!-- -->" comments. An opening delimiter
// with no closing delimiter after it turns the rest of the input into one
// final tag chunk.
func Scan(xml string) []Chunk {
	escaped := Escape(xml)

	var chunks []Chunk
	depth := 0
	pos := 0

	for pos < len(escaped) {
		if strings.HasPrefix(escaped[pos:], openDelim) {
			end := strings.Index(escaped[pos+len(openDelim):], closeDelim)
			if end < 0 {
				chunks = append(chunks, Chunk{Kind: KindTag, Text: escaped[pos:], Depth: depth})
				break
			}

			stop := pos + len(openDelim) + end + len(closeDelim)
			tag := escaped[pos:stop]
			pos = stop

			closing := strings.HasPrefix(tag, closingPrefix)
			selfClosing := strings.HasSuffix(tag, selfCloseSuffix)

			if closing {
				depth = max(0, depth-1)
			}
			chunks = append(chunks, Chunk{Kind: KindTag, Text: tag, Depth: depth})
			if !closing && !selfClosing {
				depth++
			}
			continue
		}

		next := strings.Index(escaped[pos:], openDelim)
		var content string
		if next < 0 {
			content = escaped[pos:]
			pos = len(escaped)
		} else {
			content = escaped[pos : pos+next]
			pos += next
		}

		if text := strings.TrimSpace(content); text != "" {
			chunks = append(chunks, Chunk{Kind: KindContent, Text: text, Depth: depth})
		}
	}

	return chunks
}
