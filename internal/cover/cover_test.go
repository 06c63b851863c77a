package cover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractSidecarWins(t *testing.T) {
	root := t.TempDir()
	sidecar := filepath.Join(root, "cover.jpg")
	if err := os.WriteFile(sidecar, []byte("jpegdata"), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	output := filepath.Join(t.TempDir(), "out.jpg")

	result, err := Extract(Options{Root: root, Output: output})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.Source != "sidecar" || result.SourcePath != sidecar {
		t.Fatalf("result = %+v", result)
	}
	data, readErr := os.ReadFile(output)
	if readErr != nil || string(data) != "jpegdata" {
		t.Fatalf("output = %q, %v", data, readErr)
	}
}

func TestExtractSidecarSameFileNoCopy(t *testing.T) {
	root := t.TempDir()
	sidecar := filepath.Join(root, "cover.jpg")
	if err := os.WriteFile(sidecar, []byte("jpegdata"), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	result, err := Extract(Options{Root: root, Output: sidecar})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.Output != sidecar {
		t.Fatalf("result = %+v", result)
	}
}

func TestExtractNothingFound(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.mp3"), []byte("untagged"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	_, err := Extract(Options{Root: root, Output: filepath.Join(t.TempDir(), "out.jpg")})
	if !errors.Is(err, ErrNoCoverArt) {
		t.Fatalf("expected ErrNoCoverArt, got %v", err)
	}
}
