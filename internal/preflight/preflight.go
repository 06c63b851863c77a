// Package preflight runs environment checks before a build starts.
package preflight

import (
	"m4bforge/internal/config"
	"m4bforge/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options narrows RunAll to the directories and sizes of a concrete run.
type Options struct {
	// InputRoot is the directory being assembled. Checked read-only.
	InputRoot string
	// RequiredBytes is the summed size of the input files. When positive,
	// free space in the work directory is verified against it.
	RequiredBytes int64
}

// RunAll executes the preflight checks for the given config.
func RunAll(cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	if opts.InputRoot != "" {
		results = append(results, CheckDirectoryReadable("Input directory", opts.InputRoot))
	}
	if opts.RequiredBytes > 0 {
		results = append(results, CheckFreeSpace("Work directory space", cfg.Paths.WorkDir, opts.RequiredBytes))
	}

	return results
}

// Passed reports whether every result succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// CheckSystemDeps evaluates the external tool requirements for the config.
// The status command and the build pipeline share this so the requirements
// list lives in one place.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}
