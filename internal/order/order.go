package order

import (
	"errors"
	"fmt"
	"sort"

	"m4bforge/internal/scan"
	"m4bforge/internal/tags"
)

// ErrAmbiguousOrder signals that embedded sequence tags disagree with
// the natural filename order. The conflict is surfaced for manual
// resolution, never guessed.
var ErrAmbiguousOrder = errors.New("ambiguous part order")

// Candidate pairs a discovered file with its embedded metadata.
type Candidate struct {
	Entry scan.Entry
	Meta  tags.Metadata
}

// Proposal is a suggested playback order with the evidence behind it.
type Proposal struct {
	// Ordered lists candidates in proposed playback order.
	Ordered []Candidate
	// Warnings describe gaps in the evidence (missing track numbers,
	// filename fallback).
	Warnings []string
	// Ambiguous is set when tag-derived order disagrees with natural
	// filename order; callers must confirm before acting on it.
	Ambiguous bool
	// MetadataSource is the path of the candidate with the most complete
	// descriptive tags, or "" when every candidate scores zero.
	MetadataSource string
}

// Propose derives a playback order from embedded disc/track tags,
// falling back to natural filename order when no candidate carries a
// track number. Candidates must arrive in natural order.
func Propose(candidates []Candidate) Proposal {
	proposal := Proposal{MetadataSource: chooseMetadataSource(candidates)}
	if len(candidates) == 0 {
		return proposal
	}

	hasTrack := false
	missingTrack := false
	for _, candidate := range candidates {
		if candidate.Meta.Track > 0 {
			hasTrack = true
		} else {
			missingTrack = true
		}
	}

	if !hasTrack {
		proposal.Ordered = append([]Candidate(nil), candidates...)
		proposal.Warnings = append(proposal.Warnings,
			"no track numbers detected; falling back to filename order")
		return proposal
	}
	if missingTrack {
		proposal.Warnings = append(proposal.Warnings,
			"some files are missing track numbers; ordering may be incomplete")
	}

	ordered := append([]Candidate(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if da, db := discOrDefault(a.Meta), discOrDefault(b.Meta); da != db {
			return da < db
		}
		if ta, tb := trackOrLast(a.Meta), trackOrLast(b.Meta); ta != tb {
			return ta < tb
		}
		return scan.NaturalLess(a.Entry.RelPath, b.Entry.RelPath)
	})
	proposal.Ordered = ordered

	for i := range ordered {
		if ordered[i].Entry.Path != candidates[i].Entry.Path {
			proposal.Ambiguous = true
			proposal.Warnings = append(proposal.Warnings, fmt.Sprintf(
				"tag order disagrees with filename order (first difference at position %d: %s)",
				i+1, ordered[i].Entry.RelPath))
			break
		}
	}
	return proposal
}

// CoverSource describes where cover art would come from.
type CoverSource struct {
	// Kind is "sidecar" or "embedded"; empty when nothing was found.
	Kind string
	// Path is the sidecar image path or the audio file carrying art.
	Path string
}

func (s CoverSource) String() string {
	if s.Kind == "" {
		return ""
	}
	return s.Kind + ":" + s.Path
}

// ChooseCoverSource prefers a sidecar image; otherwise the first
// candidate (in proposed order) with embedded art.
func ChooseCoverSource(sidecar string, ordered []Candidate) CoverSource {
	if sidecar != "" {
		return CoverSource{Kind: "sidecar", Path: sidecar}
	}
	for _, candidate := range ordered {
		if candidate.Meta.HasPicture {
			return CoverSource{Kind: "embedded", Path: candidate.Entry.Path}
		}
	}
	return CoverSource{}
}

func chooseMetadataSource(candidates []Candidate) string {
	best := ""
	bestScore := 0
	for _, candidate := range candidates {
		if score := candidate.Meta.Score(); score > bestScore {
			bestScore = score
			best = candidate.Entry.Path
		}
	}
	return best
}

func discOrDefault(meta tags.Metadata) int {
	if meta.Disc > 0 {
		return meta.Disc
	}
	return 1
}

func trackOrLast(meta tags.Metadata) int {
	if meta.Track > 0 {
		return meta.Track
	}
	return int(^uint(0) >> 1)
}
