// Package config provides configuration structures and utilities for xmldecode.
// It defines the options for locating and decoding tagged payloads, choosing
// the output format and printer, and where run history is stored.
package config
