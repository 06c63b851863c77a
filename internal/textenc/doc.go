// Package textenc normalizes legacy tag text to UTF-8 with a fixed,
// configured fallback charset instead of heuristic detection.
package textenc
