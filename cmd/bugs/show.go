package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/bugs/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a bug's details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := resolveID(args[0])
		rec, err := tracker.Get(rootCtx, id)
		if err != nil {
			FatalError("%v", err)
		}

		withEvents, _ := cmd.Flags().GetBool("events")
		format, _ := cmd.Flags().GetString("format")

		if withEvents {
			events, err := tracker.Events(rootCtx, id, 0)
			if err != nil {
				FatalError("%v", err)
			}
			if emitStructured(format, map[string]interface{}{"record": rec, "events": events}) {
				return
			}
			printRecord(rec)
			fmt.Printf("\n  Timeline:\n")
			for _, ev := range events {
				line := fmt.Sprintf("    %s  %-11s %s -> %s",
					ev.Timestamp.Format(time.RFC3339), ev.Action, ev.FromStatus, ev.ToStatus)
				if ev.Actor != "" {
					line += "  (" + ev.Actor + ")"
				}
				fmt.Println(ui.RenderMuted(line))
			}
			return
		}

		if emitStructured(format, rec) {
			return
		}
		printRecord(rec)
	},
}

func init() {
	showCmd.Flags().Bool("events", false, "Include the record's event timeline")
	showCmd.Flags().StringP("format", "f", "", "Output format (text, json, yaml)")
	rootCmd.AddCommand(showCmd)
}
