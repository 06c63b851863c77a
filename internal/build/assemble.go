package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"m4bforge/internal/config"
	"m4bforge/internal/fileutil"
)

// ErrBuildLocked signals that another m4bforge process holds the work
// directory lock.
var ErrBuildLocked = errors.New("another build is already running")

// Assemble runs ffmpeg over the plan's artifacts and moves the finished
// M4B into the output directory. The work directory is locked for the
// duration so concurrent invocations cannot share scratch state.
func (b *Builder) Assemble(ctx context.Context, plan *Plan) error {
	if plan == nil {
		return fmt.Errorf("assemble: nil plan")
	}
	if _, err := os.Stat(plan.ConcatListPath); err != nil {
		return fmt.Errorf("assemble: concat list missing: %w", err)
	}

	lock := flock.New(filepath.Join(b.cfg.Paths.WorkDir, "m4bforge.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire build lock: %w", err)
	}
	if !locked {
		return ErrBuildLocked
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := os.MkdirAll(filepath.Dir(plan.OutputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	staged := filepath.Join(plan.ScratchDir, plan.OutputName+".m4b")
	args := ffmpegArgs(plan, b.cfg.Encoding, staged)
	binary := b.cfg.FFmpegBinary()

	b.logger.Info("assembling", "run", plan.ID, "binary", binary, "output", plan.OutputPath)
	b.logger.Debug("ffmpeg invocation", "run", plan.ID, "args", strings.Join(args, " "))

	start := time.Now()
	output, err := b.run(ctx, binary, args...)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("ffmpeg assemble: %w: %s", err, strings.TrimSpace(string(output)))
	}
	b.logger.Info("ffmpeg finished", "run", plan.ID, "elapsed", elapsed)

	if err := fileutil.MoveFile(staged, plan.OutputPath); err != nil {
		return fmt.Errorf("publish output: %w", err)
	}

	b.logger.Info("assembled", "run", plan.ID, "output", plan.OutputPath)
	return nil
}

// ffmpegArgs builds the concat invocation. The chapter document rides
// along as a second input whose metadata is mapped onto the output.
func ffmpegArgs(plan *Plan, enc config.Encoding, staged string) []string {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-f", "concat", "-safe", "0",
		"-i", plan.ConcatListPath,
	}
	if plan.MetadataPath != "" {
		args = append(args, "-i", plan.MetadataPath, "-map_metadata", "1")
	}
	if enc.CopyCodec {
		args = append(args, "-c", "copy")
	} else {
		args = append(args, "-vn", "-c:a", "aac", "-b:a", enc.AudioBitrate)
	}
	return append(args, staged)
}
