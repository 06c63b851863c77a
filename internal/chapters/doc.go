// Package chapters turns an ordered, duration-resolved file list into
// the two build artifacts: the ffmpeg concat manifest and the
// FFMETADATA chapter document.
//
// Offsets are whole milliseconds, floored from the cumulative duration
// sum. Chapter sequences are contiguous and non-overlapping, the first
// chapter always starts at 0, and re-running on unchanged inputs yields
// byte-identical output. MergeParts handles the pre-encoded variant
// where each part carries its own embedded chapter track.
package chapters
