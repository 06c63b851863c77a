package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"m4bforge/internal/build"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// formatDuration renders whole milliseconds as H:MM:SS.
func formatDuration(millis int64) string {
	if millis < 0 {
		millis = 0
	}
	seconds := millis / 1000
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

// confirmProceed asks before an assembly when stdin is a terminal.
// Non-interactive invocations must pass --yes; building blind from a
// script without an explicit opt-in is refused.
func confirmProceed(cmd *cobra.Command, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	stdin, ok := cmd.InOrStdin().(*os.File)
	if !ok || (!isatty.IsTerminal(stdin.Fd()) && !isatty.IsCygwinTerminal(stdin.Fd())) {
		return false, fmt.Errorf("%w: confirmation required; pass --yes in non-interactive sessions", errUsage)
	}

	fmt.Fprint(cmd.OutOrStdout(), "Proceed with assembly? [y/N] ")
	reader := bufio.NewReader(stdin)
	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// printPlanSummary renders the resolved plan: headline facts, the
// chapter table, and any warnings.
func printPlanSummary(cmd *cobra.Command, plan *build.Plan) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, renderKeyValues([][2]string{
		{"Output", plan.OutputPath},
		{"Files", fmt.Sprintf("%d", len(plan.Inputs))},
		{"Chapters", fmt.Sprintf("%d", len(plan.Chapters))},
		{"Duration", formatDuration(plan.TotalMillis)},
		{"Mode", string(plan.Mode)},
	}))

	if len(plan.Chapters) > 0 {
		rows := make([][]string, 0, len(plan.Chapters))
		for i, chapter := range plan.Chapters {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				formatDuration(chapter.StartMillis),
				formatDuration(chapter.EndMillis),
				chapter.Title,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"#", "Start", "End", "Title"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
		))
	}

	for _, warning := range plan.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
}
