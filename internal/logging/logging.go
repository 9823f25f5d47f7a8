// Package logging builds the process-wide zerolog logger.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON to stderr, or a console writer in
// development.
func New(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
