package build

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"m4bforge/internal/config"
	"m4bforge/internal/media/ffprobe"
	"m4bforge/internal/probe"
	"m4bforge/internal/probecache"
	"m4bforge/internal/textenc"
)

// commandRunner executes an external command and returns its combined
// output. Injectable for tests.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// inspectFunc inspects a media container. Injectable for tests.
type inspectFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Builder wires the scan, probe, and chapter packages into the
// plan/assemble pipeline the CLI commands drive.
type Builder struct {
	cfg     *config.Config
	logger  *slog.Logger
	prober  probe.Prober
	cache   *probecache.Cache
	norm    *textenc.Normalizer
	run     commandRunner
	inspect inspectFunc
}

// New constructs a Builder for the given configuration. The probe cache
// is opened here when enabled; callers own Close.
func New(cfg *config.Config, logger *slog.Logger) (*Builder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("build: nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}

	norm, err := textenc.NewNormalizer(cfg.Encoding.FallbackCharset)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	b := &Builder{
		cfg:     cfg,
		logger:  logger.With("component", "build"),
		norm:    norm,
		run:     runCommand,
		inspect: ffprobe.Inspect,
	}

	b.prober = b.selectProber()

	if cfg.Probe.CacheEnabled && strings.TrimSpace(cfg.Probe.CachePath) != "" {
		cache, err := probecache.Open(cfg.Probe.CachePath)
		if err != nil {
			// A broken cache must never block a build.
			b.logger.Warn("probe cache unavailable", "path", cfg.Probe.CachePath, "error", err)
		} else {
			b.cache = cache
			b.prober = probe.Cached{Prober: b.prober, Cache: cache}
		}
	}

	return b, nil
}

// Close releases the probe cache, when one was opened.
func (b *Builder) Close() error {
	if b.cache == nil {
		return nil
	}
	return b.cache.Close()
}

// selectProber prefers ffprobe and falls back to native MP3 decoding
// when ffprobe is absent and the fallback is enabled.
func (b *Builder) selectProber() probe.Prober {
	binary := b.cfg.FFprobeBinary()
	if _, err := exec.LookPath(binary); err != nil {
		if b.cfg.Probe.MP3Fallback {
			b.logger.Warn("ffprobe not found, using native mp3 decoding", "binary", binary)
			return probe.MP3Decode{}
		}
	}
	return probe.FFProbe{Binary: binary}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
