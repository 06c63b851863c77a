// Package main hosts the m4bforge CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into audiobook
// assembly runs: planning chapter layouts, building M4B files, merging
// pre-encoded parts, proposing tag-based playback orders, and extracting
// cover art. It centralizes configuration resolution and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
