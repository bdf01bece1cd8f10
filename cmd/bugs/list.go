package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/bugs"
	"github.com/steveyegge/bugs/internal/ui"
	"github.com/steveyegge/bugs/internal/validation"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bugs",
	Long: `List bugs, most severe first. All filters are ANDed:

  bugs list --status confirmed --severity critical
  bugs list --regression --format yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var filter bugs.RecordFilter

		if raw, _ := cmd.Flags().GetString("status"); raw != "" {
			status, err := validation.ParseStatus(raw)
			if err != nil {
				FatalError("%v", err)
			}
			filter.Status = &status
		}
		if raw, _ := cmd.Flags().GetString("severity"); raw != "" {
			sev, err := validation.ParseSeverity(raw)
			if err != nil {
				FatalError("%v", err)
			}
			filter.Severity = &sev
		}
		if raw, _ := cmd.Flags().GetString("priority"); raw != "" {
			pri, err := validation.ParsePriority(raw)
			if err != nil {
				FatalError("%v", err)
			}
			filter.Priority = &pri
		}
		if raw, _ := cmd.Flags().GetString("type"); raw != "" {
			bt, err := validation.ParseBugType(raw)
			if err != nil {
				FatalError("%v", err)
			}
			filter.BugType = &bt
		}
		if cmd.Flags().Changed("regression") {
			v, _ := cmd.Flags().GetBool("regression")
			filter.IsRegression = &v
		}
		filter.TitleContains, _ = cmd.Flags().GetString("title")
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		records, err := tracker.List(rootCtx, filter)
		if err != nil {
			FatalError("%v", err)
		}

		format, _ := cmd.Flags().GetString("format")
		if emitStructured(format, records) {
			return
		}

		if len(records) == 0 {
			fmt.Println(ui.RenderMuted("no bugs found"))
			return
		}
		openCount := 0
		for _, rec := range records {
			fmt.Println(recordLine(rec))
			if !rec.Status.IsResolved() {
				openCount++
			}
		}
		fmt.Println(ui.RenderMuted(fmt.Sprintf("%d bugs (%d open)", len(records), openCount)))
	},
}

func init() {
	listCmd.Flags().StringP("status", "s", "", "Filter by status")
	listCmd.Flags().String("severity", "", "Filter by severity")
	listCmd.Flags().StringP("priority", "p", "", "Filter by priority")
	listCmd.Flags().StringP("type", "t", "", "Filter by bug type")
	listCmd.Flags().Bool("regression", false, "Filter by regression flag")
	listCmd.Flags().String("title", "", "Filter by title substring")
	listCmd.Flags().IntP("limit", "n", 0, "Limit the number of results")
	listCmd.Flags().StringP("format", "f", "", "Output format (text, json, yaml)")
	rootCmd.AddCommand(listCmd)
}
