// Package probecache stores probed media durations in SQLite so
// re-planning an unchanged tree skips the external inspector entirely.
//
// Entries are keyed by (path, size, mtime); a changed file never matches
// its old key, so cached values cannot go stale.
package probecache
