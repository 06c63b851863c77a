// Package scan discovers audio files under a root directory and assigns
// the deterministic playback order every other component relies on.
//
// Ordering uses numeric-aware comparison over root-relative paths so
// "2.mp3" sorts before "10.mp3" and "disc2/" before "disc10/". The
// resulting sequence is the sole determinant of playback and chapter
// order; embedded track tags and modification times are never consulted
// here (see internal/order for tag-driven ordering proposals).
package scan
