package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"m4bforge/internal/build"
	"m4bforge/internal/cover"
	"m4bforge/internal/deps"
	"m4bforge/internal/preflight"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var nameFlag string
	var recursiveFlag bool
	var yesFlag bool
	var skipCoverFlag bool

	cmd := &cobra.Command{
		Use:   "build <directory>",
		Short: "Assemble a chaptered M4B from the audio files under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, cfg, err := ctx.newBuilder()
			if err != nil {
				return err
			}
			defer builder.Close()

			req := build.PlanRequest{
				Root:       args[0],
				OutputName: nameFlag,
				Recursive:  cfg.Scan.Recursive,
				Extensions: cfg.Scan.Extensions,
			}
			if cmd.Flags().Changed("recursive") {
				req.Recursive = recursiveFlag
			}
			req.Mode, err = resolveMode(cfg.Chapters.Mode, modeFlag)
			if err != nil {
				return err
			}

			plan, err := builder.Plan(cmd.Context(), req)
			if err != nil {
				return err
			}
			printPlanSummary(cmd, plan)

			if err := runPreflight(cmd, ctx, plan); err != nil {
				return err
			}

			proceed, err := confirmProceed(cmd, yesFlag)
			if err != nil {
				return err
			}
			if !proceed {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}

			if err := builder.WriteArtifacts(plan); err != nil {
				return err
			}
			if err := builder.Assemble(cmd.Context(), plan); err != nil {
				return err
			}

			if !skipCoverFlag {
				attachCover(cmd, ctx, plan)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", plan.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Chapter mode: none, file, or dir (default from config)")
	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Output name (default: directory name)")
	cmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&skipCoverFlag, "skip-cover", false, "Do not extract and embed cover art")

	return cmd
}

// runPreflight verifies tools, directories, and free space before any
// artifact is written.
func runPreflight(cmd *cobra.Command, ctx *commandContext, plan *build.Plan) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	if missing := deps.MissingRequired(preflight.CheckSystemDeps(cfg)); len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}

	results := preflight.RunAll(cfg, preflight.Options{
		InputRoot:     plan.Root,
		RequiredBytes: plan.TotalBytes,
	})
	if preflight.Passed(results) {
		return nil
	}
	for _, result := range results {
		if !result.Passed {
			fmt.Fprintf(cmd.ErrOrStderr(), "preflight failed: %s: %s\n", result.Name, result.Detail)
		}
	}
	return errors.New("preflight checks failed")
}

// attachCover extracts cover art from the input tree and embeds it into
// the finished M4B. Failures are reported but never undo the build.
func attachCover(cmd *cobra.Command, ctx *commandContext, plan *build.Plan) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return
	}
	out := cmd.ErrOrStderr()

	coverPath := filepath.Join(plan.ScratchDir, "cover.jpg")
	result, err := cover.Extract(cover.Options{
		Root:       plan.Root,
		Recursive:  true,
		Output:     coverPath,
		ImageNames: cfg.Scan.ImageNames,
		Extensions: cfg.Scan.Extensions,
	})
	if err != nil {
		if errors.Is(err, cover.ErrNoCoverArt) {
			fmt.Fprintln(out, "no cover art found; skipping embed")
		} else {
			fmt.Fprintf(out, "cover extraction failed: %v\n", err)
		}
		return
	}

	if err := cover.Embed(cmd.Context(), cfg.AtomicParsleyBinary(), result.Output, plan.OutputPath); err != nil {
		fmt.Fprintf(out, "cover embed failed: %v\n", err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Embedded cover from %s\n", result.SourcePath)
}
