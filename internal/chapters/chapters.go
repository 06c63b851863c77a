package chapters

import (
	"errors"
	"fmt"
	"math"
	"path"
	"strings"
)

// Mode selects chapter granularity.
type Mode string

const (
	// ModeNone emits only the concat list, no chapter document.
	ModeNone Mode = "none"
	// ModeFile creates one chapter per input file.
	ModeFile Mode = "file"
	// ModeDir creates one chapter per distinct input directory.
	ModeDir Mode = "dir"
)

// ParseMode validates a chapter mode value.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeNone:
		return ModeNone, nil
	case ModeFile:
		return ModeFile, nil
	case ModeDir:
		return ModeDir, nil
	default:
		return "", fmt.Errorf("chapter mode %q: must be one of none, file, dir", value)
	}
}

// Input is one media file with its resolved duration, in playback order.
type Input struct {
	// Path is the absolute file location, emitted into the concat list.
	Path string
	// RelPath is the slash-separated path relative to the scan root.
	RelPath string
	// DirKey is the root-relative parent directory ("." for root files).
	DirKey string
	// Title is the embedded tag title, when one exists. File mode prefers
	// it over the filename stem.
	Title string
	// DurationSeconds is the probed playback length. Must be >= 0.
	DurationSeconds float64
}

// Chapter is one entry in the output chapter track. Offsets are whole
// milliseconds; chapters are contiguous and non-overlapping.
type Chapter struct {
	StartMillis int64
	EndMillis   int64
	Title       string
}

// ErrNoInputs signals an empty input set. Callers treat it as a distinct
// empty-result condition rather than a failure so downstream tools are
// never invoked on an empty list.
var ErrNoInputs = errors.New("no input files")

// Build constructs the chapter sequence for the given mode. rootTitle
// names the chapter covering files that sit directly under the scan root
// in dir mode. ModeNone yields an empty, non-nil slice.
func Build(mode Mode, inputs []Input, rootTitle string) ([]Chapter, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	for _, input := range inputs {
		if input.DurationSeconds < 0 {
			return nil, fmt.Errorf("negative duration for %s", input.Path)
		}
	}

	switch mode {
	case ModeNone:
		return []Chapter{}, nil
	case ModeFile:
		return buildPerFile(inputs), nil
	case ModeDir:
		return buildPerDirectory(inputs, rootTitle), nil
	default:
		return nil, fmt.Errorf("chapter mode %q: must be one of none, file, dir", mode)
	}
}

func buildPerFile(inputs []Input) []Chapter {
	out := make([]Chapter, 0, len(inputs))
	var cumulative float64
	start := int64(0)
	for _, input := range inputs {
		cumulative += input.DurationSeconds
		end := floorMillis(cumulative)
		out = append(out, Chapter{
			StartMillis: start,
			EndMillis:   end,
			Title:       fileTitle(input),
		})
		start = end
	}
	return out
}

func buildPerDirectory(inputs []Input, rootTitle string) []Chapter {
	var out []Chapter
	var cumulative float64
	currentKey := ""
	haveCurrent := false

	for _, input := range inputs {
		if !haveCurrent || input.DirKey != currentKey {
			start := floorMillis(cumulative)
			out = append(out, Chapter{
				StartMillis: start,
				Title:       dirTitle(input.DirKey, rootTitle),
			})
			currentKey = input.DirKey
			haveCurrent = true
		}
		cumulative += input.DurationSeconds
	}

	total := floorMillis(cumulative)
	for i := range out {
		if i+1 < len(out) {
			out[i].EndMillis = out[i+1].StartMillis
		} else {
			out[i].EndMillis = total
		}
	}
	return out
}

// TotalMillis returns the summed duration of the inputs in whole
// milliseconds, rounded down.
func TotalMillis(inputs []Input) int64 {
	var cumulative float64
	for _, input := range inputs {
		cumulative += input.DurationSeconds
	}
	return floorMillis(cumulative)
}

func fileTitle(input Input) string {
	if title := strings.TrimSpace(input.Title); title != "" {
		return title
	}
	base := path.Base(input.RelPath)
	if base == "." || base == "/" || base == "" {
		base = path.Base(input.Path)
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func dirTitle(dirKey, rootTitle string) string {
	if dirKey == "." || dirKey == "" {
		if rootTitle != "" {
			return rootTitle
		}
		return "Root"
	}
	return dirKey
}

func floorMillis(seconds float64) int64 {
	return int64(math.Floor(seconds * 1000))
}
