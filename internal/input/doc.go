// Package input selects and reads XML documents.
//
// Files are accepted when their media type is text/xml or their extension
// is .xml. Content must be UTF-8; a leading byte order mark is removed.
package input
