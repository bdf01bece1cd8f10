package main

import (
	"github.com/spf13/cobra"

	"github.com/steveyegge/bugs"
)

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>",
	Short: "Reopen a resolved bug",
	Long: `Reopen a resolved bug, moving it back to "confirmed" for another
fix cycle. A reason is required. The previous resolution is cleared;
fix metadata (fixed version, root cause) is kept for history.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := resolveID(args[0])

		reason, _ := cmd.Flags().GetString("reason")
		if reason == "" {
			FatalError("--reason is required")
		}

		rec, err := tracker.Reopen(rootCtx, id, expectedVersionFor(cmd, id), bugs.ReopenPayload{Reason: reason}, getActor())
		if err != nil {
			FatalError("%v", err)
		}
		commandDidWrite = true
		printTransition(rec)
	},
}

func init() {
	reopenCmd.Flags().StringP("reason", "m", "", "Why the bug is being reopened")
	registerExpectVersionFlag(reopenCmd)
	rootCmd.AddCommand(reopenCmd)
}
