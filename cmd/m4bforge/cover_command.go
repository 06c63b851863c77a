package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"m4bforge/internal/config"
	"m4bforge/internal/cover"
)

func newCoverCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var embedFlag string
	var recursiveFlag bool

	cmd := &cobra.Command{
		Use:   "cover <directory>",
		Short: "Extract cover art from an audiobook tree",
		Long: "Cover looks for a sidecar image first (cover.jpg, folder.png, and\n" +
			"friends), then falls back to the first embedded picture, preferring\n" +
			"already-assembled .m4b files. With --embed the extracted image is\n" +
			"attached to an existing M4B via AtomicParsley.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			recursive := cfg.Scan.Recursive
			if cmd.Flags().Changed("recursive") {
				recursive = recursiveFlag
			}

			output := strings.TrimSpace(outputFlag)
			if output == "" {
				output = filepath.Join(root, "cover.jpg")
			} else if output, err = config.ExpandPath(output); err != nil {
				return err
			}

			result, err := cover.Extract(cover.Options{
				Root:       root,
				Recursive:  recursive,
				Output:     output,
				ImageNames: cfg.Scan.ImageNames,
				Extensions: cfg.Scan.Extensions,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extracted %s cover to %s (from %s)\n", result.Source, result.Output, result.SourcePath)

			if target := strings.TrimSpace(embedFlag); target != "" {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return err
				}
				if err := cover.Embed(cmd.Context(), cfg.AtomicParsleyBinary(), result.Output, expanded); err != nil {
					return err
				}
				fmt.Fprintf(out, "Embedded cover into %s\n", expanded)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination image path (default: <directory>/cover.jpg)")
	cmd.Flags().StringVar(&embedFlag, "embed", "", "M4B file to embed the extracted cover into")
	cmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")

	return cmd
}
