package model

// DefaultTagName is the tag searched for when the caller does not name one.
const DefaultTagName = "contenido"

// DecodedResult pairs the raw text of one matched tag with its decoded form.
// One DecodedResult is produced per matched tag, in document order, and is
// never modified after creation.
//
// DecodedText is non-empty only when IsBase64 is true.
type DecodedResult struct {
	// TagName is the tag that was searched for (and matched).
	TagName string `json:"tag_name"`

	// OriginalBase64 is the text content of the matched element as found
	// in the document. Despite the name it holds the raw text even when the
	// content turned out not to be Base64.
	OriginalBase64 string `json:"original_base64"`

	// DecodedText is the UTF-8 text decoded from OriginalBase64.
	// Empty when IsBase64 is false or when decoding failed.
	DecodedText string `json:"decoded_text"`

	// IsBase64 reports whether OriginalBase64 is a canonical Base64 encoding.
	IsBase64 bool `json:"is_base64"`
}

// NewDecodedResult builds a DecodedResult enforcing that decoded text is
// only kept for Base64 content.
func NewDecodedResult(tagName, original, decoded string, isBase64 bool) DecodedResult {
	if !isBase64 {
		decoded = ""
	}
	return DecodedResult{
		TagName:        tagName,
		OriginalBase64: original,
		DecodedText:    decoded,
		IsBase64:       isBase64,
	}
}

// HasDecodedText reports whether the result carries decoded content.
func (r DecodedResult) HasDecodedText() bool {
	return r.IsBase64 && r.DecodedText != ""
}

// Base64Count returns how many results hold Base64 content.
func Base64Count(results []DecodedResult) int {
	count := 0
	for _, r := range results {
		if r.IsBase64 {
			count++
		}
	}
	return count
}
