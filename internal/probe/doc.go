// Package probe resolves media durations through an external inspector,
// optionally in parallel and backed by a persistent cache.
//
// Probing is the only concurrent phase of a build. Results are keyed by
// entry position, never by completion order, because every downstream
// offset depends on the durations of all preceding files.
package probe
