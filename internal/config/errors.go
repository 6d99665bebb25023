package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() for programmatic handling.
var (
	// ErrEmptyTagName is returned when no tag name is configured.
	ErrEmptyTagName = errors.New("tag name must not be empty")

	// ErrEmptyElementName is returned when no embedded element name is configured.
	ErrEmptyElementName = errors.New("element name must not be empty")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid format: must be one of xml, json, markdown, pretty")

	// ErrInvalidPrinter is returned for an unknown printer kind.
	ErrInvalidPrinter = errors.New("invalid printer: must be tree or token")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingOutputs is returned when both --html and --color are set.
	ErrConflictingOutputs = errors.New("conflicting outputs: --html and --color cannot be used together")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrProfileNotFound is returned when a named profile is missing from
	// the configuration file.
	ErrProfileNotFound = errors.New("profile not found in configuration file")
)
