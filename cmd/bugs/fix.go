package main

import (
	"github.com/spf13/cobra"

	"github.com/steveyegge/bugs"
)

var fixCmd = &cobra.Command{
	Use:   "fix <id>",
	Short: "Mark a bug as fixed",
	Long: `Mark a confirmed or in-progress bug as fixed. The fix still needs
verification ("bugs verify") before it can be closed as fixed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := resolveID(args[0])

		var payload bugs.FixPayload
		payload.FixedVersion, _ = cmd.Flags().GetString("fixed-version")
		payload.RootCause, _ = cmd.Flags().GetString("root-cause")
		payload.ResolutionNotes, _ = cmd.Flags().GetString("notes")

		rec, err := tracker.MarkFixed(rootCtx, id, expectedVersionFor(cmd, id), payload, getActor())
		if err != nil {
			FatalError("%v", err)
		}
		commandDidWrite = true
		printTransition(rec)
	},
}

func init() {
	fixCmd.Flags().String("fixed-version", "", "Version the fix lands in")
	fixCmd.Flags().String("root-cause", "", "Root cause of the bug")
	fixCmd.Flags().StringP("notes", "m", "", "Notes about the fix")
	registerExpectVersionFlag(fixCmd)
	rootCmd.AddCommand(fixCmd)
}
