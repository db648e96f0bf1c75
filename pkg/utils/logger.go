// Package utils provides shared utilities for text, math, and logging.
package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger. When debug is true, uses development config
// (human-readable, debug level); otherwise uses production config (JSON, info level).
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewTestLogger returns a no-op logger for tests and optional dependencies.
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}
