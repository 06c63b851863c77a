// Package logging constructs the slog loggers used across m4bforge,
// with a compact console handler for interactive runs and a JSON
// handler for machine consumption.
package logging
