// Package extractor finds Base64 payloads inside XML tags and pulls known
// elements out of the decoded text.
//
// Extract walks a parsed document and produces one model.DecodedResult per
// element whose qualified name matches, in document order.
// ExtractNamedElement then searches the decoded results for an embedded
// element such as webformData. That search works on text, not on a tree:
// it stops at the first closing tag with the same name, so nested elements
// sharing the name are cut short.
package extractor
