// +build !logless

// Package nlog provides the conversion pass's structured logger.
//
// It mirrors the teacher's pkg/logger package: a zerolog-backed logger by
// default, swapped for a no-op under the logless build tag. Unlike the
// teacher's bare package-level Log, callers construct one and inject it
// into lower.Pass explicitly, since the pass owns its state exclusively
// for the duration of a single conversion (spec.md §5).
package nlog

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a console-writer zerolog.Logger, matching the teacher's
// pkg/logger.Log construction.
func New() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger()
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
