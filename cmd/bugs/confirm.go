package main

import (
	"github.com/spf13/cobra"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <id>",
	Short: "Confirm a new bug as reproducible",
	Long: `Confirm a new bug as reproducible, moving it from "new" to
"confirmed". Only new bugs can be confirmed; re-confirming is an error.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := resolveID(args[0])
		rec, err := tracker.Confirm(rootCtx, id, expectedVersionFor(cmd, id), getActor())
		if err != nil {
			FatalError("%v", err)
		}
		commandDidWrite = true
		printTransition(rec)
	},
}

func init() {
	registerExpectVersionFlag(confirmCmd)
	rootCmd.AddCommand(confirmCmd)
}
