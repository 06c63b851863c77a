// Package config loads, normalizes, and validates m4bforge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every
// knob the CLI needs: scan rules, chapter mode, probe parallelism and
// cache location, external tool binaries, and logging.
//
// Always obtain settings through this package so downstream code
// receives sanitized paths, canonical chapter modes, and clear
// validation errors.
package config
