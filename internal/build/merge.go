package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"m4bforge/internal/chapters"
	"m4bforge/internal/probe"
)

// MergeRequest describes a multi-part merge. Paths are taken in the
// given order; callers sort them before handing them over.
type MergeRequest struct {
	Paths      []string
	OutputName string
}

// Merge inspects each pre-encoded part, combines their chapter tracks
// into one sequence, and returns a plan ready for WriteArtifacts and
// Assemble. Parts without chapters contribute a single chapter each.
func (b *Builder) Merge(ctx context.Context, req MergeRequest) (*Plan, error) {
	if len(req.Paths) == 0 {
		return nil, ErrNoAudioFiles
	}

	binary := b.cfg.FFprobeBinary()
	parts := make([]chapters.Part, len(req.Paths))
	inputs := make([]chapters.Input, len(req.Paths))
	var totalBytes int64

	for i, path := range req.Paths {
		abs, err := filepath.Abs(strings.TrimSpace(path))
		if err != nil {
			return nil, fmt.Errorf("resolve part: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, &probe.Error{Path: abs, Cause: err}
		}

		result, err := b.inspect(ctx, binary, abs)
		if err != nil {
			return nil, &probe.Error{Path: abs, Cause: err}
		}
		duration := result.DurationSeconds()
		if duration <= 0 {
			return nil, &probe.Error{Path: abs, Cause: fmt.Errorf("container reports no duration")}
		}

		embedded := make([]chapters.PartChapter, len(result.Chapters))
		for j, chapter := range result.Chapters {
			start, end := chapter.Span()
			embedded[j] = chapters.PartChapter{
				StartSeconds: start,
				EndSeconds:   end,
				Title:        b.norm.Normalize(chapter.Tags.Title),
			}
		}

		parts[i] = chapters.Part{
			Path:            abs,
			Title:           b.norm.Normalize(result.Format.Tags.Title),
			DurationSeconds: duration,
			Embedded:        embedded,
		}
		inputs[i] = chapters.Input{
			Path:            abs,
			RelPath:         filepath.Base(abs),
			DirKey:          ".",
			Title:           parts[i].Title,
			DurationSeconds: duration,
		}
		totalBytes += info.Size()
	}

	merged, warnings, err := chapters.MergeParts(parts)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		ID:          uuid.NewString(),
		Root:        filepath.Dir(parts[0].Path),
		OutputName:  outputName(req.OutputName, filepath.Dir(parts[0].Path)),
		Mode:        chapters.ModeFile,
		Inputs:      inputs,
		Chapters:    merged,
		TotalMillis: chapters.TotalMillis(inputs),
		TotalBytes:  totalBytes,
		Warnings:    warnings,
	}
	plan.ScratchDir = filepath.Join(b.cfg.Paths.WorkDir, plan.ID)
	plan.ConcatListPath = filepath.Join(plan.ScratchDir, plan.OutputName+".txt")
	plan.MetadataPath = filepath.Join(plan.ScratchDir, plan.OutputName+".meta")
	plan.OutputPath = filepath.Join(b.cfg.Paths.OutputDir, plan.OutputName+".m4b")

	b.logger.Info("merge plan ready",
		"run", plan.ID,
		"parts", len(parts),
		"chapters", len(plan.Chapters),
		"total_ms", plan.TotalMillis)

	return plan, nil
}
