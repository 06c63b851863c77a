package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"m4bforge/internal/order"
	"m4bforge/internal/scan"
	"m4bforge/internal/tags"
)

func newProposeCommand(ctx *commandContext) *cobra.Command {
	var recursiveFlag bool

	cmd := &cobra.Command{
		Use:   "propose <directory>",
		Short: "Propose a playback order from embedded disc/track tags",
		Long: "Propose inspects embedded tags and suggests a playback order. When\n" +
			"the tag order disagrees with the natural filename order the conflict\n" +
			"is reported instead of silently resolved; build always uses filename\n" +
			"order.",
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

			entries, err := scan.Collect(scan.Options{
				Root:       root,
				Recursive:  recursive,
				Extensions: cfg.Scan.Extensions,
			})
			if err != nil {
				return err
			}

			candidates := make([]order.Candidate, len(entries))
			for i, entry := range entries {
				meta, _ := tags.Read(entry.Path)
				candidates[i] = order.Candidate{Entry: entry, Meta: meta}
			}

			proposal := order.Propose(candidates)
			out := cmd.OutOrStdout()

			if len(proposal.Ordered) == 0 {
				fmt.Fprintf(out, "No audio files found under %s\n", root)
				return nil
			}

			rows := make([][]string, 0, len(proposal.Ordered))
			for i, candidate := range proposal.Ordered {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					candidate.Entry.RelPath,
					numberOrDash(candidate.Meta.Disc),
					numberOrDash(candidate.Meta.Track),
					candidate.Meta.Title,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "File", "Disc", "Track", "Title"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
			))

			if proposal.MetadataSource != "" {
				fmt.Fprintf(out, "Metadata source: %s\n", proposal.MetadataSource)
			}

			sidecar, err := scan.FindSidecar(root, recursive, cfg.Scan.ImageNames)
			if err == nil {
				if source := order.ChooseCoverSource(sidecar, proposal.Ordered); source.Kind != "" {
					fmt.Fprintf(out, "Cover source: %s\n", source)
				}
			}

			for _, warning := range proposal.Warnings {
				fmt.Fprintf(out, "warning: %s\n", warning)
			}
			if proposal.Ambiguous {
				fmt.Fprintln(out, "Order is ambiguous; review before building.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")

	return cmd
}

func numberOrDash(value int) string {
	if value <= 0 {
		return "-"
	}
	return strconv.Itoa(value)
}
