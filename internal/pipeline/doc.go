// Package pipeline provides a framework for executing processing steps in
// sequence.
//
// A Job moves through read, extract, embedded-element and save steps. Each
// stage is implemented as a Step that receives the job and can modify it.
// The pipeline gives every step the same error handling and logging, and
// checks for cancellation between steps.
//
// BatchProcessor runs one pipeline per source file concurrently using
// errgroup, keeping the jobs in input order.
package pipeline
