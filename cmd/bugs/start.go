package main

import (
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start working on a confirmed bug",
	Long:  `Move a confirmed bug to "in_progress". Fixing does not require this step; "bugs fix" accepts both confirmed and in-progress records.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := resolveID(args[0])
		rec, err := tracker.Start(rootCtx, id, expectedVersionFor(cmd, id), getActor())
		if err != nil {
			FatalError("%v", err)
		}
		commandDidWrite = true
		printTransition(rec)
	},
}

func init() {
	registerExpectVersionFlag(startCmd)
	rootCmd.AddCommand(startCmd)
}
