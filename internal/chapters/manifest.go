package chapters

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteConcatList renders the ffmpeg concat manifest: one
// `file '<path>'` line per input, in playback order. Embedded single
// quotes are escaped with the concat demuxer quoting convention.
func WriteConcatList(w io.Writer, paths []string) error {
	bw := bufio.NewWriter(w)
	for _, path := range paths {
		if _, err := fmt.Fprintf(bw, "file '%s'\n", escapeConcatPath(path)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFFMetadata renders the chapter document consumed by ffmpeg's
// metadata muxer: a fixed header followed by one [CHAPTER] block per
// chapter with a 1/1000 time base.
func WriteFFMetadata(w io.Writer, chaps []Chapter) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(";FFMETADATA1\n"); err != nil {
		return err
	}
	for _, chapter := range chaps {
		if _, err := bw.WriteString("[CHAPTER]\n"); err != nil {
			return err
		}
		if _, err := bw.WriteString("TIMEBASE=1/1000\n"); err != nil {
			return err
		}
		if _, err := bw.WriteString("START=" + strconv.FormatInt(chapter.StartMillis, 10) + "\n"); err != nil {
			return err
		}
		if _, err := bw.WriteString("END=" + strconv.FormatInt(chapter.EndMillis, 10) + "\n"); err != nil {
			return err
		}
		if _, err := bw.WriteString("title=" + escapeFFMetadataValue(chapter.Title) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFileAtomic renders content through the provided function into a
// temporary file and renames it into place, so a failed run never leaves
// a partial artifact behind.
func WriteFileAtomic(path string, render func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if err := render(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	tmpName = ""
	return nil
}

func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}

// escapeFFMetadataValue escapes the characters the ffmetadata format
// treats specially in values: '=', ';', '#', '\' and newline.
func escapeFFMetadataValue(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case '=', ';', '#', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString("\\\n")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
