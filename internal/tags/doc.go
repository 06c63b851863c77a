// Package tags reads embedded audio metadata (titles, track and disc
// numbers, cover art) without shelling out to external tools.
package tags
