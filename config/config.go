// Package config holds the process-wide environment-driven configuration:
// the server reads no config files, only environment variables, so a
// client can launch it with configuration-free defaults.
package config

import (
	"os"
	"strconv"
)

// Config contains configuration for the music document server.
type Config struct {
	SentryDSN        string // Sentry DSN for error reporting; empty disables reporting
	LogVerbose       bool   // keep date/time prefixes on log lines; tool calls are logged either way
	DefaultExportDir string // directory export_midi resolves relative paths against
}

// FromEnv builds a Config from environment variables, applying defaults
// for anything unset.
func FromEnv() Config {
	verbose, _ := strconv.ParseBool(os.Getenv("MUSICSERVER_VERBOSE"))
	exportDir := os.Getenv("MUSICSERVER_EXPORT_DIR")
	if exportDir == "" {
		exportDir = "."
	}
	return Config{
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		LogVerbose:       verbose,
		DefaultExportDir: exportDir,
	}
}
