package main

import (
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Verify that a fix works",
	Long:  `Verify a fixed bug, moving it to "verified". A verified bug can be closed with resolution "fixed".`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := resolveID(args[0])
		rec, err := tracker.Verify(rootCtx, id, expectedVersionFor(cmd, id), getActor())
		if err != nil {
			FatalError("%v", err)
		}
		commandDidWrite = true
		printTransition(rec)
	},
}

func init() {
	registerExpectVersionFlag(verifyCmd)
	rootCmd.AddCommand(verifyCmd)
}
