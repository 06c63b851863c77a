package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteAudioTree creates small placeholder files for each slash-separated
// relative path under root.
func WriteAudioTree(t testing.TB, root string, relPaths ...string) {
	t.Helper()
	for _, rel := range relPaths {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), 16)
	}
}

// StubFFprobe writes an executable shell script that mimics ffprobe by
// printing a minimal JSON payload reporting the given duration for every
// inspected file.
func StubFFprobe(t testing.TB, dir string, durationSeconds float64) string {
	t.Helper()

	script := fmt.Sprintf("#!/bin/sh\nprintf '{\"streams\":[{\"codec_type\":\"audio\"}],\"format\":{\"duration\":\"%.6f\"}}'\n", durationSeconds)
	path := filepath.Join(dir, "ffprobe-stub")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}
	return path
}

// StubFFmpeg writes an executable shell script that mimics ffmpeg by
// creating its final argument as a small output file.
func StubFFmpeg(t testing.TB, dir string) string {
	t.Helper()

	script := "#!/bin/sh\nfor last; do :; done\nprintf 'm4b' > \"$last\"\n"
	path := filepath.Join(dir, "ffmpeg-stub")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return path
}
