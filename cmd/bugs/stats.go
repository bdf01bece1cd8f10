package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/steveyegge/bugs/internal/types"
	"github.com/steveyegge/bugs/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate bug metrics",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := tracker.Stats(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}

		format, _ := cmd.Flags().GetString("format")
		if emitStructured(format, s) {
			return
		}

		fmt.Printf("Total: %d   Open: %d   Resolved: %d\n", s.Total, s.Open, s.Resolved)
		if s.Regressions > 0 {
			fmt.Printf("Regressions: %s\n", ui.RenderWarn(fmt.Sprintf("%d", s.Regressions)))
		}
		if s.Resolved > 0 {
			fmt.Printf("Average days to fix: %.1f\n", s.AverageDaysToFix)
		}

		if len(s.ByStatus) > 0 {
			fmt.Println("\nBy status:")
			statuses := make([]types.Status, 0, len(s.ByStatus))
			for status := range s.ByStatus {
				statuses = append(statuses, status)
			}
			sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
			for _, status := range statuses {
				fmt.Printf("  %-18s %d\n", status, s.ByStatus[status])
			}
		}

		if len(s.BySeverity) > 0 {
			fmt.Println("\nBy severity:")
			severities := make([]types.Severity, 0, len(s.BySeverity))
			for sev := range s.BySeverity {
				severities = append(severities, sev)
			}
			sort.Slice(severities, func(i, j int) bool { return severities[i].Rank() < severities[j].Rank() })
			for _, sev := range severities {
				fmt.Printf("  %-18s %d\n", sev, s.BySeverity[sev])
			}
		}

		if len(s.ByType) > 0 {
			fmt.Println("\nBy type:")
			bugTypes := make([]types.BugType, 0, len(s.ByType))
			for bt := range s.ByType {
				bugTypes = append(bugTypes, bt)
			}
			sort.Slice(bugTypes, func(i, j int) bool { return bugTypes[i] < bugTypes[j] })
			for _, bt := range bugTypes {
				fmt.Printf("  %-18s %d\n", bt, s.ByType[bt])
			}
		}
	},
}

func init() {
	statsCmd.Flags().StringP("format", "f", "", "Output format (text, json, yaml)")
	rootCmd.AddCommand(statsCmd)
}
