// Package report renders decode results for people and tools.
//
// Export builds the <resultados> XML envelope that is offered for download
// or clipboard copy. The writers wrap it and the other formats:
//   - XMLWriter: the export envelope
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: a shareable summary with the decoded XML in code blocks
//   - TerminalWriter: human-readable text with pretty-printed payloads
//
// Writers implement the Writer interface, so they can be used
// interchangeably and composed for multi-format output.
package report
