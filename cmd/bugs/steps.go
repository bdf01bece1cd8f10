package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/bugs/internal/types"
	"github.com/steveyegge/bugs/internal/validation"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Edit a bug's repro steps",
	Long: `Edit a bug's repro steps. Steps stay numbered 1..n; inserting or
removing a step renumbers the rest.`,
}

var stepsAddCmd = &cobra.Command{
	Use:   "add <id> <description>",
	Short: "Add a repro step",
	Long: `Add a repro step at the end, or at a 1-based position with --at.
Steps after the insertion point shift down.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id := resolveID(args[0])
		rec, err := tracker.Get(rootCtx, id)
		if err != nil {
			FatalError("%v", err)
		}

		position, _ := cmd.Flags().GetInt("at")
		if position == 0 {
			position = len(rec.StepsToReproduce) + 1
		}

		steps, err := validation.InsertStep(rec.StepsToReproduce, position, args[1])
		if err != nil {
			FatalError("%v", err)
		}
		saveSteps(cmd, rec, steps)
	},
}

var stepsRemoveCmd = &cobra.Command{
	Use:   "remove <id> <position>",
	Short: "Remove a repro step",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id := resolveID(args[0])
		rec, err := tracker.Get(rootCtx, id)
		if err != nil {
			FatalError("%v", err)
		}

		position, err := strconv.Atoi(args[1])
		if err != nil {
			FatalError("position must be a number, got %q", args[1])
		}

		steps, err := validation.RemoveStep(rec.StepsToReproduce, position)
		if err != nil {
			FatalError("%v", err)
		}
		saveSteps(cmd, rec, steps)
	},
}

// saveSteps writes an edited step list back to the record. Step edits are
// content changes, not lifecycle transitions, so they bump the version and
// UpdatedAt without producing an event.
func saveSteps(cmd *cobra.Command, rec *types.BugRecord, steps []types.ReproStep) {
	expected := rec.Version
	if expect, _ := cmd.Flags().GetInt64("expect-version"); expect > 0 {
		expected = expect
	}

	rec.StepsToReproduce = steps
	rec.Version++
	if now := time.Now().UTC(); now.After(rec.UpdatedAt) {
		rec.UpdatedAt = now
	}

	if err := store.UpdateRecord(rootCtx, rec, expected); err != nil {
		FatalError("%v", err)
	}
	commandDidWrite = true

	if jsonOutput {
		outputJSON(rec)
		return
	}
	for _, step := range rec.StepsToReproduce {
		fmt.Printf("  %d. %s\n", step.StepNumber, step.Description)
	}
}

func init() {
	stepsAddCmd.Flags().Int("at", 0, "1-based position to insert at (default: append)")
	registerExpectVersionFlag(stepsAddCmd)
	registerExpectVersionFlag(stepsRemoveCmd)
	stepsCmd.AddCommand(stepsAddCmd)
	stepsCmd.AddCommand(stepsRemoveCmd)
	rootCmd.AddCommand(stepsCmd)
}
