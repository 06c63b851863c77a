package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	if err := c.normalizeProbe(); err != nil {
		return err
	}
	c.normalizeEncoding()
	c.normalizeChapters()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	cleaned := make([]string, 0, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" {
			cleaned = append(cleaned, ext)
		}
	}
	if len(cleaned) > 0 {
		c.Scan.Extensions = cleaned
	} else {
		c.Scan.Extensions = Default().Scan.Extensions
	}

	names := make([]string, 0, len(c.Scan.ImageNames))
	for _, name := range c.Scan.ImageNames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		c.Scan.ImageNames = names
	} else {
		c.Scan.ImageNames = Default().Scan.ImageNames
	}
}

func (c *Config) normalizeProbe() error {
	if c.Probe.Parallelism <= 0 {
		c.Probe.Parallelism = defaultProbeParallelism
	}
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		c.Probe.FFprobeBinary = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Probe.CachePath) == "" {
		c.Probe.CachePath = defaultProbeCachePath()
	}
	var err error
	if c.Probe.CachePath, err = expandPath(c.Probe.CachePath); err != nil {
		return fmt.Errorf("probe.cache_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncoding() {
	c.Encoding.FFmpegBinary = strings.TrimSpace(c.Encoding.FFmpegBinary)
	if c.Encoding.FFmpegBinary == "" {
		c.Encoding.FFmpegBinary = defaultFFmpegBinary
	}
	c.Encoding.AtomicParsleyBinary = strings.TrimSpace(c.Encoding.AtomicParsleyBinary)
	if c.Encoding.AtomicParsleyBinary == "" {
		c.Encoding.AtomicParsleyBinary = defaultAtomicParsley
	}
	c.Encoding.FallbackCharset = strings.ToLower(strings.TrimSpace(c.Encoding.FallbackCharset))
	if c.Encoding.FallbackCharset == "" {
		c.Encoding.FallbackCharset = defaultFallbackCharset
	}
	c.Encoding.AudioBitrate = strings.TrimSpace(c.Encoding.AudioBitrate)
	if c.Encoding.AudioBitrate == "" {
		c.Encoding.AudioBitrate = defaultAudioBitrate
	}
}

func (c *Config) normalizeChapters() {
	c.Chapters.Mode = strings.ToLower(strings.TrimSpace(c.Chapters.Mode))
	if c.Chapters.Mode == "" {
		c.Chapters.Mode = defaultChapterMode
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
