package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	OutputDir string `toml:"output_dir"`
}

// Scan contains configuration for media discovery.
type Scan struct {
	Extensions []string `toml:"extensions"`
	Recursive  bool     `toml:"recursive"`
	ImageNames []string `toml:"image_names"`
}

// Chapters contains configuration for chapter construction.
type Chapters struct {
	// Mode is one of none, file, dir.
	Mode string `toml:"mode"`
}

// Probe contains configuration for duration probing.
type Probe struct {
	Parallelism   int    `toml:"parallelism"`
	CacheEnabled  bool   `toml:"cache_enabled"`
	CachePath     string `toml:"cache_path"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	// MP3Fallback enables native MP3 frame decoding when ffprobe is not
	// installed. Only mp3 inputs can be planned in that mode.
	MP3Fallback bool `toml:"mp3_fallback"`
}

// Encoding contains configuration for the external assembly tools and
// legacy text handling.
type Encoding struct {
	FFmpegBinary        string `toml:"ffmpeg_binary"`
	AtomicParsleyBinary string `toml:"atomicparsley_binary"`
	// FallbackCharset names the single-byte encoding applied to tag text
	// that is not valid UTF-8. Fixed policy, no detection.
	FallbackCharset string `toml:"fallback_charset"`
	// CopyCodec passes the audio streams through unchanged; when false
	// the build re-encodes to AAC at AudioBitrate.
	CopyCodec    bool   `toml:"copy_codec"`
	AudioBitrate string `toml:"audio_bitrate"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for m4bforge.
//
// Configuration sections by subsystem:
//   - Paths: work, log, and output directories
//   - Scan: extension allow-list, recursion, sidecar image names
//   - Chapters: chapter granularity
//   - Probe: duration probing, parallelism, and the probe cache
//   - Encoding: external tool binaries and legacy charset fallback
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Scan     Scan     `toml:"scan"`
	Chapters Chapters `toml:"chapters"`
	Probe    Probe    `toml:"probe"`
	Encoding Encoding `toml:"encoding"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/m4bforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("m4bforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a build needs. OutputDir is
// created on a best-effort basis so planning still works when external
// storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		_ = os.MkdirAll(c.Paths.OutputDir, 0o755)
	}
	if c.Probe.CacheEnabled && strings.TrimSpace(c.Probe.CachePath) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Probe.CachePath), 0o755); err != nil {
			return fmt.Errorf("create probe cache directory: %w", err)
		}
	}
	return nil
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	if binary := strings.TrimSpace(c.Probe.FFprobeBinary); binary != "" {
		return binary
	}
	return "ffprobe"
}

// FFmpegBinary returns the ffmpeg executable name used for assembly.
func (c *Config) FFmpegBinary() string {
	if binary := strings.TrimSpace(c.Encoding.FFmpegBinary); binary != "" {
		return binary
	}
	return "ffmpeg"
}

// AtomicParsleyBinary returns the AtomicParsley executable name used for
// cover embedding.
func (c *Config) AtomicParsleyBinary() string {
	if binary := strings.TrimSpace(c.Encoding.AtomicParsleyBinary); binary != "" {
		return binary
	}
	return "AtomicParsley"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultProbeCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "m4bforge", "probe_cache.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/m4bforge/probe_cache.db"
	}
	return filepath.Join(home, ".cache", "m4bforge", "probe_cache.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
