package config

import (
	"errors"
	"fmt"
	"regexp"
)

var bitratePattern = regexp.MustCompile(`^[0-9]+[kKmM]?$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateChapters(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateChapters() error {
	switch c.Chapters.Mode {
	case "none", "file", "dir":
		return nil
	default:
		return fmt.Errorf("chapters.mode %q: must be one of none, file, dir", c.Chapters.Mode)
	}
}

func (c *Config) validateProbe() error {
	if c.Probe.Parallelism < 1 {
		return errors.New("probe.parallelism must be at least 1")
	}
	if c.Probe.Parallelism > 64 {
		return errors.New("probe.parallelism must be 64 or lower")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if !bitratePattern.MatchString(c.Encoding.AudioBitrate) {
		return fmt.Errorf("encoding.audio_bitrate %q: expected a number with optional k/M suffix", c.Encoding.AudioBitrate)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q: must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q: must be debug, info, warn, or error", c.Logging.Level)
	}
}
