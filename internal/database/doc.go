// Package database provides SQLite-based storage for decode history.
//
// Each decoded document is stored as one run: the source it came from, the
// tag that was searched, a SHA3-256 digest of the document and the full job
// serialized as JSON. The history lets a document decoded earlier be found
// again without keeping the source file around.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// history is a single local file and the driver needs no CGO.
package database
