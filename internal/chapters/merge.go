package chapters

import (
	"fmt"
	"strings"
)

// Part is one pre-encoded audiobook container contributing to a merged
// chapter sequence.
type Part struct {
	Path string
	// Title labels the fallback chapter when the part carries no embedded
	// chapters of its own.
	Title string
	// DurationSeconds is the probed container duration, authoritative for
	// part boundaries.
	DurationSeconds float64
	// Embedded holds the part's own chapter track, offsets relative to
	// the start of the part.
	Embedded []PartChapter
}

// PartChapter is one embedded chapter as reported by the container
// inspector, in seconds relative to its part.
type PartChapter struct {
	StartSeconds float64
	EndSeconds   float64
	Title        string
}

// driftToleranceMillis bounds how far an embedded chapter end may overrun
// its part's probed duration before the merge reports it. Overruns are
// always clamped to the part boundary; the probe is authoritative.
const driftToleranceMillis = 500

// MergeParts combines the embedded chapter tracks of pre-encoded parts
// into a single sequence, offsetting each part's chapters by the
// cumulative start time of the part. Parts without embedded chapters
// contribute one chapter spanning the whole part. The returned warnings
// describe clamped overruns exceeding the drift tolerance.
func MergeParts(parts []Part) ([]Chapter, []string, error) {
	if len(parts) == 0 {
		return nil, nil, ErrNoInputs
	}

	var merged []Chapter
	var warnings []string
	var cumulative float64

	for _, part := range parts {
		if part.DurationSeconds < 0 {
			return nil, nil, fmt.Errorf("negative duration for %s", part.Path)
		}
		partStart := floorMillis(cumulative)
		cumulative += part.DurationSeconds
		partEnd := floorMillis(cumulative)

		if len(part.Embedded) == 0 {
			merged = append(merged, Chapter{
				StartMillis: partStart,
				EndMillis:   partEnd,
				Title:       partFallbackTitle(part),
			})
			continue
		}

		for i, embedded := range part.Embedded {
			start := partStart + floorMillis(embedded.StartSeconds)
			end := partStart + floorMillis(embedded.EndSeconds)
			if start < partStart {
				start = partStart
			}
			if end > partEnd {
				if end-partEnd > driftToleranceMillis {
					warnings = append(warnings, fmt.Sprintf(
						"%s: chapter %d end overruns part duration by %dms, clamped",
						part.Path, i+1, end-partEnd))
				}
				end = partEnd
			}
			if start > partEnd {
				start = partEnd
			}
			title := strings.TrimSpace(embedded.Title)
			if title == "" {
				title = fmt.Sprintf("%s (%d)", partFallbackTitle(part), i+1)
			}
			merged = append(merged, Chapter{StartMillis: start, EndMillis: end, Title: title})
		}
	}

	// Re-close the sequence so chapters stay contiguous after clamping.
	for i := range merged {
		if i+1 < len(merged) {
			merged[i].EndMillis = merged[i+1].StartMillis
		}
	}
	return merged, warnings, nil
}

func partFallbackTitle(part Part) string {
	if title := strings.TrimSpace(part.Title); title != "" {
		return title
	}
	base := part.Path
	if idx := strings.LastIndexAny(base, `/\`); idx >= 0 {
		base = base[idx+1:]
	}
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	return base
}
