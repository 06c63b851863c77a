package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry is one discovered media file in playback order.
type Entry struct {
	// Path is the absolute location of the file.
	Path string
	// RelPath is the slash-separated path relative to the scan root.
	RelPath string
	// DirKey identifies the immediate parent directory relative to the
	// root ("." for files directly under the root). Entries sharing a
	// DirKey belong to the same directory-mode chapter.
	DirKey string
	// SequenceIndex is the position in playback order.
	SequenceIndex int
	Size          int64
	ModTime       time.Time
}

// Options controls a media scan.
type Options struct {
	Root       string
	Recursive  bool
	Extensions []string
}

// DefaultExtensions returns the recognized audio extensions, lowercase,
// without leading dots.
func DefaultExtensions() []string {
	return []string{"aac", "flac", "m4a", "m4b", "mp3", "ogg", "wav"}
}

// NormalizeExtensions lowercases and strips dots from the provided
// extension list, dropping empty items. An empty input yields the
// default allow-list.
func NormalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		cleaned := strings.ToLower(strings.TrimSpace(value))
		cleaned = strings.TrimPrefix(cleaned, ".")
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	if len(out) == 0 {
		return DefaultExtensions()
	}
	sort.Strings(out)
	return out
}

// Collect enumerates files under the root matching the extension
// allow-list and returns them in natural order with sequence indexes
// assigned. Files with unrecognized extensions are skipped silently.
// An empty result is not an error; callers decide how to surface it.
func Collect(opts Options) ([]Entry, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	allowed := extensionSet(opts.Extensions)

	var entries []Entry
	appendCandidate := func(path string, info fs.FileInfo) {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := allowed[ext]; !ok {
			return
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return
		}
		rel = filepath.ToSlash(rel)
		dirKey := filepath.ToSlash(filepath.Dir(rel))
		entries = append(entries, Entry{
			Path:    path,
			RelPath: rel,
			DirKey:  dirKey,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	if opts.Recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			info, infoErr := d.Info()
			if infoErr != nil {
				return infoErr
			}
			appendCandidate(path, info)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	} else {
		listing, readErr := os.ReadDir(root)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", root, readErr)
		}
		for _, item := range listing {
			if item.IsDir() {
				continue
			}
			info, infoErr := item.Info()
			if infoErr != nil {
				return nil, fmt.Errorf("inspect %s: %w", item.Name(), infoErr)
			}
			appendCandidate(filepath.Join(root, item.Name()), info)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return NaturalLess(entries[i].RelPath, entries[j].RelPath)
	})
	for i := range entries {
		entries[i].SequenceIndex = i
	}
	return entries, nil
}

// DefaultImageNames lists the sidecar cover filenames searched for, lowercase.
func DefaultImageNames() []string {
	return []string{
		"artwork.jpg", "artwork.png",
		"cover.jpeg", "cover.jpg", "cover.png",
		"folder.jpg", "folder.png",
		"front.jpg", "front.png",
	}
}

// FindSidecar returns the first sidecar image (by natural order of the
// root-relative path) whose base name matches the allow-list, or ""
// when none exists.
func FindSidecar(root string, recursive bool, names []string) (string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve scan root: %w", err)
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		cleaned := strings.ToLower(strings.TrimSpace(name))
		if cleaned != "" {
			wanted[cleaned] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		for _, name := range DefaultImageNames() {
			wanted[name] = struct{}{}
		}
	}

	var matches []string
	record := func(path string) {
		if _, ok := wanted[strings.ToLower(filepath.Base(path))]; !ok {
			return
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			matches = append(matches, filepath.ToSlash(rel))
		}
	}

	if recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() {
				record(path)
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("walk %s: %w", root, err)
		}
	} else {
		listing, readErr := os.ReadDir(root)
		if readErr != nil {
			return "", fmt.Errorf("read %s: %w", root, readErr)
		}
		for _, item := range listing {
			if !item.IsDir() {
				record(filepath.Join(root, item.Name()))
			}
		}
	}

	if len(matches) == 0 {
		return "", nil
	}
	SortNatural(matches)
	return filepath.Join(root, filepath.FromSlash(matches[0])), nil
}

func extensionSet(values []string) map[string]struct{} {
	normalized := NormalizeExtensions(values)
	set := make(map[string]struct{}, len(normalized))
	for _, ext := range normalized {
		set[ext] = struct{}{}
	}
	return set
}
