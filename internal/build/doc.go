// Package build orchestrates audiobook assembly: scanning inputs,
// resolving durations, constructing chapters, writing the ffmpeg
// manifests, and running the external tools that produce the final M4B.
package build
