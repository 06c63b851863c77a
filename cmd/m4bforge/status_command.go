package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"m4bforge/internal/preflight"
	"m4bforge/internal/probecache"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool availability, directory access, and cache state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Config: %s\n\n", ctx.configPath)

			statuses := preflight.CheckSystemDeps(cfg)
			toolRows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				toolRows = append(toolRows, []string{status.Name, status.Command, state, detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "State", "Detail"},
				toolRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			results := preflight.RunAll(cfg, preflight.Options{})
			checkRows := make([][]string, 0, len(results))
			for _, result := range results {
				checkRows = append(checkRows, []string{result.Name, yesNo(result.Passed), result.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Passed", "Detail"},
				checkRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			printCacheStatus(cmd, ctx)
			return nil
		},
	}
}

func printCacheStatus(cmd *cobra.Command, ctx *commandContext) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return
	}
	out := cmd.OutOrStdout()

	if !cfg.Probe.CacheEnabled || strings.TrimSpace(cfg.Probe.CachePath) == "" {
		fmt.Fprintln(out, "Probe cache: disabled")
		return
	}

	cache, err := probecache.Open(cfg.Probe.CachePath)
	if err != nil {
		fmt.Fprintf(out, "Probe cache: unavailable (%v)\n", err)
		return
	}
	defer cache.Close()

	count, err := cache.Len(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "Probe cache: unreadable (%v)\n", err)
		return
	}
	fmt.Fprintf(out, "Probe cache: %d entries at %s\n", count, cache.Path())
}
