// Package testsupport provides fixtures shared by package tests: seeded
// configurations, audio tree builders, and stub external tools.
package testsupport

import (
	"path/filepath"
	"testing"

	"m4bforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The probe cache is disabled unless WithProbeCache is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Probe.CacheEnabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	return builder.cfg
}

// WithChapterMode overrides the chapter mode on the test config.
func WithChapterMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Chapters.Mode = mode
	}
}

// WithFFprobe points the config at a specific ffprobe binary, usually a
// stub created with StubFFprobe.
func WithFFprobe(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Probe.FFprobeBinary = path
	}
}

// WithFFmpeg points the config at a specific ffmpeg binary.
func WithFFmpeg(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoding.FFmpegBinary = path
	}
}

// WithProbeCache enables the SQLite probe cache under the test base dir.
func WithProbeCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Probe.CacheEnabled = true
		b.cfg.Probe.CachePath = filepath.Join(b.baseDir, "cache", "probe.db")
	}
}
