package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/bugs"
	"github.com/steveyegge/bugs/internal/types"
	"github.com/steveyegge/bugs/internal/ui"
	"github.com/steveyegge/bugs/internal/validation"
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Report a new bug",
	Long: `Report a new bug. The record starts in status "new" with taxonomy
defaults for any field not given: severity major, priority medium,
type functional.

Repro steps are given with repeated --step flags and are numbered in
the order given:

  bugs create "Login fails on Safari" --step "open login page" --step "submit valid credentials"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := bugs.CreateInput{Title: args[0]}

		input.Description, _ = cmd.Flags().GetString("description")
		input.ExpectedBehavior, _ = cmd.Flags().GetString("expected")
		input.ActualBehavior, _ = cmd.Flags().GetString("actual")
		input.AffectedVersion, _ = cmd.Flags().GetString("affected-version")
		input.IsRegression, _ = cmd.Flags().GetBool("regression")

		input.Environment, _ = cmd.Flags().GetString("environment")
		if input.Environment == "" {
			input.Environment = cfg.DefaultEnvironment
		}

		if raw, _ := cmd.Flags().GetString("severity"); raw != "" {
			sev, err := validation.ParseSeverity(raw)
			if err != nil {
				FatalError("%v", err)
			}
			input.Severity = sev
		}
		if raw, _ := cmd.Flags().GetString("priority"); raw != "" {
			pri, err := validation.ParsePriority(raw)
			if err != nil {
				FatalError("%v", err)
			}
			input.Priority = pri
		}
		if raw, _ := cmd.Flags().GetString("type"); raw != "" {
			bt, err := validation.ParseBugType(raw)
			if err != nil {
				FatalError("%v", err)
			}
			input.BugType = bt
		}

		steps, _ := cmd.Flags().GetStringArray("step")
		for i, desc := range steps {
			input.StepsToReproduce = append(input.StepsToReproduce, types.ReproStep{
				StepNumber:  i + 1,
				Description: strings.TrimSpace(desc),
			})
		}

		rec, err := tracker.Create(rootCtx, input, getActor())
		if err != nil {
			FatalError("%v", err)
		}
		commandDidWrite = true

		if jsonOutput {
			outputJSON(rec)
			return
		}
		fmt.Printf("created %s: %s (%s, %s)\n",
			ui.RenderAccent(rec.ID), rec.Title, ui.RenderSeverity(rec.Severity), rec.Priority)
	},
}

func init() {
	createCmd.Flags().StringP("description", "d", "", "Longer description of the bug")
	createCmd.Flags().StringP("severity", "s", "", "Severity (blocker, critical, major, minor, trivial)")
	createCmd.Flags().StringP("priority", "p", "", "Priority (urgent, high, medium, low)")
	createCmd.Flags().StringP("type", "t", "", "Bug type (functional, performance, security, ui, data, integration, regression)")
	createCmd.Flags().String("expected", "", "Expected behavior")
	createCmd.Flags().String("actual", "", "Actual behavior")
	createCmd.Flags().String("environment", "", "Environment the bug was seen in (default: tracker config)")
	createCmd.Flags().String("affected-version", "", "Version the bug was found in")
	createCmd.Flags().Bool("regression", false, "Mark the bug as a regression")
	createCmd.Flags().StringArray("step", nil, "Repro step (repeatable, numbered in order)")
	rootCmd.AddCommand(createCmd)
}
