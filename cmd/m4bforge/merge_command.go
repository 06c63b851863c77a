package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"m4bforge/internal/build"
	"m4bforge/internal/scan"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var nameFlag string
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "merge <part>...",
		Short: "Merge pre-encoded audiobook parts, preserving their chapters",
		Long: "Merge combines already-encoded parts (typically .m4b files) into one\n" +
			"container. Embedded chapter tracks are offset and concatenated; parts\n" +
			"without chapters contribute a single chapter each. A directory argument\n" +
			"is expanded to its parts in natural filename order.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, _, err := ctx.newBuilder()
			if err != nil {
				return err
			}
			defer builder.Close()

			paths, err := expandParts(args)
			if err != nil {
				return err
			}

			plan, err := builder.Merge(cmd.Context(), build.MergeRequest{
				Paths:      paths,
				OutputName: nameFlag,
			})
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

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", plan.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Output name (default: directory name)")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// expandParts resolves a single directory argument into its contained
// parts in natural order; explicit file arguments keep their given order.
func expandParts(args []string) ([]string, error) {
	if len(args) != 1 {
		return args, nil
	}
	info, err := os.Stat(args[0])
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", args[0], err)
	}
	if !info.IsDir() {
		return args, nil
	}

	entries, err := scan.Collect(scan.Options{
		Root:       args[0],
		Extensions: []string{"m4a", "m4b"},
	})
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = entry.Path
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w under %s", build.ErrNoAudioFiles, args[0])
	}
	return paths, nil
}
