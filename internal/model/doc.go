// Package model defines the core data structures used throughout xmldecode.
//
// This package contains the following main types:
//   - DecodedResult: One matched tag with its original and decoded content
//   - Job: One source document and everything extracted from it
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The extractor, pipeline, report and database packages all
// exchange these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// history storage.
package model
