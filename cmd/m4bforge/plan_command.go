package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"m4bforge/internal/build"
	"m4bforge/internal/chapters"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var nameFlag string
	var recursiveFlag bool
	var artifactsFlag bool

	cmd := &cobra.Command{
		Use:   "plan <directory>",
		Short: "Resolve inputs and preview the chapter layout without building",
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

			if artifactsFlag {
				if err := builder.WriteArtifacts(plan); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Concat list: %s\n", plan.ConcatListPath)
				if plan.MetadataPath != "" {
					fmt.Fprintf(out, "Chapter metadata: %s\n", plan.MetadataPath)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Chapter mode: none, file, or dir (default from config)")
	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Output name (default: directory name)")
	cmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&artifactsFlag, "artifacts", false, "Also write the concat list and chapter metadata")

	return cmd
}

func resolveMode(configured, override string) (chapters.Mode, error) {
	value := override
	if value == "" {
		value = configured
	}
	mode, err := chapters.ParseMode(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errUsage, err)
	}
	return mode, nil
}
