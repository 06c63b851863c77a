package cover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"m4bforge/internal/scan"
	"m4bforge/internal/tags"
)

// ErrNoCoverArt signals that neither a sidecar image nor embedded art
// was found under the root.
var ErrNoCoverArt = errors.New("no cover art found")

// Options controls cover extraction.
type Options struct {
	Root       string
	Recursive  bool
	Output     string
	ImageNames []string
	Extensions []string
}

// Result reports where the extracted cover came from.
type Result struct {
	Output string
	// Source is "sidecar" or "embedded".
	Source string
	// SourcePath is the image file or the audio file the art came from.
	SourcePath string
}

// Extract locates cover art for an audiobook tree and writes it to the
// output path. Sidecar images win; otherwise candidates are searched in
// natural order with .m4b files first, and the first embedded picture is
// used.
func Extract(opts Options) (Result, error) {
	sidecar, err := scan.FindSidecar(opts.Root, opts.Recursive, opts.ImageNames)
	if err != nil {
		return Result{}, err
	}
	if sidecar != "" {
		if err := copySidecar(sidecar, opts.Output); err != nil {
			return Result{}, err
		}
		return Result{Output: opts.Output, Source: "sidecar", SourcePath: sidecar}, nil
	}

	entries, err := scan.Collect(scan.Options{
		Root:       opts.Root,
		Recursive:  opts.Recursive,
		Extensions: opts.Extensions,
	})
	if err != nil {
		return Result{}, err
	}

	// Already-assembled containers are the most likely art carriers.
	sort.SliceStable(entries, func(i, j int) bool {
		mi, mj := isM4B(entries[i].Path), isM4B(entries[j].Path)
		if mi != mj {
			return mi
		}
		return scan.NaturalLess(entries[i].RelPath, entries[j].RelPath)
	})

	for _, entry := range entries {
		picture, picErr := tags.ReadPicture(entry.Path)
		if picErr != nil || picture == nil {
			continue
		}
		if err := writePicture(picture, opts.Output); err != nil {
			return Result{}, err
		}
		return Result{Output: opts.Output, Source: "embedded", SourcePath: entry.Path}, nil
	}

	return Result{}, ErrNoCoverArt
}

// Embed attaches the cover image to a target M4B via AtomicParsley.
func Embed(ctx context.Context, binary, cover, target string) error {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "AtomicParsley"
	}
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("target m4b: %w", err)
	}

	cmd := exec.CommandContext(ctx, binary, target, "--artwork", cover, "--overWrite")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("atomicparsley embed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func copySidecar(source, output string) error {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return err
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return err
	}
	if absSource == absOutput {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(absOutput), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	in, err := os.Open(absSource)
	if err != nil {
		return fmt.Errorf("open sidecar: %w", err)
	}
	defer in.Close()
	out, err := os.Create(absOutput)
	if err != nil {
		return fmt.Errorf("create output image: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy sidecar: %w", err)
	}
	return out.Close()
}

func writePicture(picture *tags.Picture, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(output, picture.Data, 0o644); err != nil {
		return fmt.Errorf("write cover image: %w", err)
	}
	return nil
}

func isM4B(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".m4b")
}
