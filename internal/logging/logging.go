// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package logging provides the small leveled logging facade used across
// Signet. The TUI owns the terminal, so log output goes to stderr and
// stays terse; it is mostly useful for the CLI surface and for debugging.
package logging

import (
	"os"

	log "github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

// SetDebug enables or disables debug logging for the application.
func SetDebug(enabled bool) {
	if enabled {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// Debugf logs a formatted debug message when debug is enabled.
func Debugf(format string, v ...any) {
	logger.Debugf(format, v...)
}

// Infof logs an informational formatted message.
func Infof(format string, v ...any) {
	logger.Infof(format, v...)
}

// Warnf logs a warning formatted message.
func Warnf(format string, v ...any) {
	logger.Warnf(format, v...)
}

// Errorf logs an error formatted message.
func Errorf(format string, v ...any) {
	logger.Errorf(format, v...)
}
