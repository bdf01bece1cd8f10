package main

import (
	"github.com/spf13/cobra"

	"github.com/steveyegge/bugs"
	"github.com/steveyegge/bugs/internal/validation"
)

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a bug with a resolution",
	Long: `Close a bug. The resolution decides the terminal status:

  fixed              requires a verified bug
  wont-fix           from verified or fixed
  duplicate          from verified or fixed
  cannot-reproduce   from verified or fixed`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := resolveID(args[0])

		raw, _ := cmd.Flags().GetString("resolution")
		if raw == "" {
			FatalError("--resolution is required")
		}
		resolution, err := validation.ParseResolution(raw)
		if err != nil {
			FatalError("%v", err)
		}
		notes, _ := cmd.Flags().GetString("notes")

		payload := bugs.ClosePayload{Resolution: resolution, Notes: notes}
		rec, err := tracker.Close(rootCtx, id, expectedVersionFor(cmd, id), payload, getActor())
		if err != nil {
			FatalError("%v", err)
		}
		commandDidWrite = true
		printTransition(rec)
	},
}

func init() {
	closeCmd.Flags().StringP("resolution", "r", "", "Resolution (fixed, wont-fix, duplicate, cannot-reproduce)")
	closeCmd.Flags().StringP("notes", "m", "", "Resolution notes")
	registerExpectVersionFlag(closeCmd)
	rootCmd.AddCommand(closeCmd)
}
