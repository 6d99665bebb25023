// Package xmltree parses well-formed XML into a document tree and renders it
// back with two-space indentation.
//
// Parsing is strict: anything the tree cannot represent faithfully (syntax
// errors, unclosed or mismatched tags, zero or several root elements, text
// outside the root) is reported as ErrParse. PrettyPrint never reports that
// error; it returns its input unchanged instead.
package xmltree
