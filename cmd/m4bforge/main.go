package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"m4bforge/internal/build"
	"m4bforge/internal/probe"
)

// Exit codes beyond the generic failure, so scripts can tell an empty
// input tree from a broken one.
const (
	exitFailure    = 1
	exitUsage      = 2
	exitNoFiles    = 3
	exitProbeError = 4
	exitLocked     = 5
)

// errUsage marks invalid invocations (bad flag values, refused
// confirmation) so they exit with the usage code.
var errUsage = errors.New("invalid arguments")

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var probeErr *probe.Error
	switch {
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, build.ErrNoAudioFiles):
		return exitNoFiles
	case errors.As(err, &probeErr):
		return exitProbeError
	case errors.Is(err, build.ErrBuildLocked):
		return exitLocked
	default:
		return exitFailure
	}
}
