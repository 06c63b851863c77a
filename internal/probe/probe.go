package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tcolgate/mp3"
	"golang.org/x/sync/errgroup"

	"m4bforge/internal/media/ffprobe"
	"m4bforge/internal/scan"
)

// Prober reports a media file's playback length in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Error is a fatal probe failure naming the offending file. Any probe
// failure aborts the whole build; offsets cannot be computed with an
// unknown duration and local-file probes are not retried.
type Error struct {
	Path  string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FFProbe probes durations by running ffprobe.
type FFProbe struct {
	// Binary is the ffprobe executable; empty means "ffprobe" on PATH.
	Binary string
}

// Duration implements Prober.
func (p FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		return 0, err
	}
	duration := result.DurationSeconds()
	if duration <= 0 {
		return 0, fmt.Errorf("container reports no duration")
	}
	return duration, nil
}

// MP3Decode probes MP3 durations by walking frames natively, used as a
// fallback when ffprobe is not installed. Other formats are rejected.
type MP3Decode struct{}

// Duration implements Prober.
func (MP3Decode) Duration(ctx context.Context, path string) (float64, error) {
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return 0, fmt.Errorf("native decoding supports only mp3, not %s", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total float64
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}
	if total <= 0 {
		return 0, fmt.Errorf("no decodable mp3 frames")
	}
	return total, nil
}

// Resolve probes every entry's duration, up to parallelism files at a
// time, and returns the durations aligned with the entries slice. The
// cumulative-offset arithmetic downstream is strictly sequential, so
// results are slotted by entry index regardless of completion order.
// The first failure cancels outstanding probes and aborts the run.
func Resolve(ctx context.Context, prober Prober, entries []scan.Entry, parallelism int) ([]float64, error) {
	if prober == nil {
		return nil, errors.New("nil prober")
	}
	if parallelism < 1 {
		parallelism = 1
	}

	durations := make([]float64, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			duration, err := prober.Duration(gctx, entry.Path)
			if err != nil {
				return &Error{Path: entry.Path, Cause: err}
			}
			if duration < 0 {
				return &Error{Path: entry.Path, Cause: fmt.Errorf("negative duration %f", duration)}
			}
			durations[i] = duration
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return durations, nil
}
