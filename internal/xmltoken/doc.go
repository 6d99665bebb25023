// Package xmltoken pretty-prints XML without building a tree.
//
// The input is escaped first and then scanned for the escaped delimiters
// "&lt;" and "&gt;". Every run between them becomes a tag chunk, everything
// else a content chunk. Depth only moves on tag chunks, so unbalanced or
// truncated markup still renders, and the scanner always terminates.
//
// How a chunk looks is up to a Renderer: HTMLRenderer wraps chunks in
// classed spans for a stylesheet, ANSIRenderer colors them for a terminal
// and PlainRenderer emits the markup as text.
package xmltoken
