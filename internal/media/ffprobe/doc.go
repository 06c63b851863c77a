// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no m4bforge-specific dependencies and could be
// extracted as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output with streams, format, and chapters
//   - Format: container-level metadata (duration, size, tags)
//   - Chapter: one embedded chapter from -show_chapters
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns a parsed Result
package ffprobe
