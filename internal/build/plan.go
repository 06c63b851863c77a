package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"m4bforge/internal/chapters"
	"m4bforge/internal/probe"
	"m4bforge/internal/scan"
	"m4bforge/internal/tags"
	"m4bforge/internal/textutil"
)

// ErrNoAudioFiles signals an empty scan. Commands report it without
// treating the run as a failure of the pipeline itself.
var ErrNoAudioFiles = errors.New("no audio files found")

// PlanRequest describes one assembly run. Commands populate it from
// config plus flag overrides.
type PlanRequest struct {
	Root       string
	OutputName string
	Mode       chapters.Mode
	Recursive  bool
	Extensions []string
}

// Plan is a fully resolved assembly: ordered inputs with durations, the
// chapter sequence, and every path the run will touch. Producing a Plan
// performs no writes.
type Plan struct {
	ID         string
	Root       string
	OutputName string
	Mode       chapters.Mode

	Inputs      []chapters.Input
	Chapters    []chapters.Chapter
	TotalMillis int64
	TotalBytes  int64
	Warnings    []string

	ScratchDir     string
	ConcatListPath string
	// MetadataPath is empty in chapterless mode.
	MetadataPath string
	OutputPath   string
}

// Plan scans the root, probes every file, and constructs the chapter
// sequence. Probe failures abort before anything is written.
func (b *Builder) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	root, err := filepath.Abs(strings.TrimSpace(req.Root))
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	entries, err := scan.Collect(scan.Options{
		Root:       root,
		Recursive:  req.Recursive,
		Extensions: req.Extensions,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoAudioFiles, root)
	}

	durations, err := probe.Resolve(ctx, b.prober, entries, b.cfg.Probe.Parallelism)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		ID:         uuid.NewString(),
		Root:       root,
		OutputName: outputName(req.OutputName, root),
		Mode:       req.Mode,
	}

	inputs := make([]chapters.Input, len(entries))
	var totalBytes int64
	for i, entry := range entries {
		meta, tagErr := tags.Read(entry.Path)
		if tagErr != nil {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf("tags unreadable for %s: %v", entry.RelPath, tagErr))
		}
		inputs[i] = chapters.Input{
			Path:            entry.Path,
			RelPath:         entry.RelPath,
			DirKey:          entry.DirKey,
			Title:           b.norm.Normalize(meta.Title),
			DurationSeconds: durations[i],
		}
		totalBytes += entry.Size
	}
	plan.Inputs = inputs
	plan.TotalBytes = totalBytes
	plan.TotalMillis = chapters.TotalMillis(inputs)

	chaps, err := chapters.Build(plan.Mode, inputs, plan.OutputName)
	if err != nil {
		return nil, err
	}
	plan.Chapters = chaps

	plan.ScratchDir = filepath.Join(b.cfg.Paths.WorkDir, plan.ID)
	plan.ConcatListPath = filepath.Join(plan.ScratchDir, plan.OutputName+".txt")
	if plan.Mode != chapters.ModeNone {
		plan.MetadataPath = filepath.Join(plan.ScratchDir, plan.OutputName+".meta")
	}
	plan.OutputPath = filepath.Join(b.cfg.Paths.OutputDir, plan.OutputName+".m4b")

	b.logger.Info("plan ready",
		"run", plan.ID,
		"root", plan.Root,
		"files", len(plan.Inputs),
		"chapters", len(plan.Chapters),
		"total_ms", plan.TotalMillis)

	return plan, nil
}

// WriteArtifacts renders the concat list and, outside chapterless mode,
// the FFMETADATA chapter document. Writes are atomic and the rendered
// bytes are deterministic for a given plan.
func (b *Builder) WriteArtifacts(plan *Plan) error {
	if plan == nil || len(plan.Inputs) == 0 {
		return ErrNoAudioFiles
	}
	if err := os.MkdirAll(plan.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}

	paths := make([]string, len(plan.Inputs))
	for i, input := range plan.Inputs {
		paths[i] = input.Path
	}
	if err := chapters.WriteFileAtomic(plan.ConcatListPath, func(w io.Writer) error {
		return chapters.WriteConcatList(w, paths)
	}); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	if plan.MetadataPath != "" {
		if err := chapters.WriteFileAtomic(plan.MetadataPath, func(w io.Writer) error {
			return chapters.WriteFFMetadata(w, plan.Chapters)
		}); err != nil {
			return fmt.Errorf("write chapter metadata: %w", err)
		}
	}

	b.logger.Debug("artifacts written", "run", plan.ID, "list", plan.ConcatListPath, "metadata", plan.MetadataPath)
	return nil
}

func outputName(requested, root string) string {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = filepath.Base(root)
	}
	name = textutil.SanitizeFileName(strings.TrimSuffix(name, ".m4b"))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "audiobook"
	}
	return name
}
