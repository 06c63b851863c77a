// Package order proposes a playback order for pre-encoded audiobook
// parts from embedded disc and track tags, reporting when that evidence
// conflicts with natural filename order so a human can resolve it.
package order
