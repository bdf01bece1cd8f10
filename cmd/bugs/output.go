package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/steveyegge/bugs/internal/types"
	"github.com/steveyegge/bugs/internal/ui"
)

// FatalError prints an error and exits. With --json the error is emitted
// as a JSON object so scripted callers can parse failures too.
func FatalError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput {
		out, _ := json.Marshal(map[string]string{"error": msg})
		fmt.Fprintln(os.Stderr, string(out))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}

func outputJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		FatalError("failed to marshal JSON: %v", err)
	}
	fmt.Println(string(out))
}

func outputYAML(v interface{}) {
	out, err := yaml.Marshal(v)
	if err != nil {
		FatalError("failed to marshal YAML: %v", err)
	}
	fmt.Print(string(out))
}

// emitStructured renders v in the requested machine format and reports
// whether it did. Human-readable output stays with the caller.
func emitStructured(format string, v interface{}) bool {
	if jsonOutput || format == "json" {
		outputJSON(v)
		return true
	}
	if format == "yaml" {
		outputYAML(v)
		return true
	}
	if format != "" && format != "text" {
		FatalError("unknown format %q (want text, json, or yaml)", format)
	}
	return false
}

// resolveID resolves an exact record ID or a unique ID prefix.
func resolveID(id string) string {
	if _, err := store.GetRecord(rootCtx, id); err == nil {
		return id
	}
	var matches []string
	for _, rec := range store.All() {
		if strings.HasPrefix(rec.ID, id) {
			matches = append(matches, rec.ID)
		}
	}
	switch len(matches) {
	case 0:
		return id // let the tracker report not-found
	case 1:
		return matches[0]
	default:
		FatalError("ambiguous ID %q matches %d records: %s", id, len(matches), strings.Join(matches, ", "))
		return ""
	}
}

// pad right-pads styled text by its unstyled width, since Sprintf padding
// would count the ANSI escape codes.
func pad(styled, raw string, width int) string {
	if n := width - len(raw); n > 0 {
		return styled + strings.Repeat(" ", n)
	}
	return styled
}

// recordLine renders the one-line list form of a record.
func recordLine(rec *types.BugRecord) string {
	line := fmt.Sprintf("%s  %s %s %s",
		ui.RenderAccent(rec.ID),
		pad(ui.RenderStatus(rec.Status), string(rec.Status), 12),
		pad(ui.RenderSeverity(rec.Severity), string(rec.Severity), 10),
		rec.Title)
	if rec.IsRegression {
		line += " " + ui.RenderWarn("[regression]")
	}
	return line
}

// printRecord renders the full human-readable detail view.
func printRecord(rec *types.BugRecord) {
	fmt.Printf("%s  %s\n", ui.RenderAccent(rec.ID), rec.Title)
	fmt.Printf("  Status:    %s\n", ui.RenderStatus(rec.Status))
	fmt.Printf("  Severity:  %s   Priority: %s   Type: %s\n",
		ui.RenderSeverity(rec.Severity), rec.Priority, rec.BugType)
	if rec.IsRegression {
		fmt.Printf("  %s\n", ui.RenderWarn("Regression"))
	}
	if rec.Environment != "" {
		fmt.Printf("  Environment: %s\n", rec.Environment)
	}
	if rec.AffectedVersion != "" {
		fmt.Printf("  Affected:  %s\n", rec.AffectedVersion)
	}
	if rec.FixedVersion != "" {
		fmt.Printf("  Fixed in:  %s\n", rec.FixedVersion)
	}
	if rec.Resolution != nil {
		fmt.Printf("  Resolution: %s\n", *rec.Resolution)
	}
	if rec.ResolutionNotes != "" {
		fmt.Printf("  Notes:     %s\n", rec.ResolutionNotes)
	}
	if rec.RootCause != "" {
		fmt.Printf("  Root cause: %s\n", rec.RootCause)
	}
	if rec.Description != "" {
		fmt.Printf("\n  %s\n", rec.Description)
	}
	if rec.ExpectedBehavior != "" {
		fmt.Printf("\n  Expected: %s\n", rec.ExpectedBehavior)
	}
	if rec.ActualBehavior != "" {
		fmt.Printf("  Actual:   %s\n", rec.ActualBehavior)
	}
	if len(rec.StepsToReproduce) > 0 {
		fmt.Printf("\n  Steps to reproduce:\n")
		for _, step := range rec.StepsToReproduce {
			fmt.Printf("    %d. %s\n", step.StepNumber, step.Description)
		}
	}
	fmt.Printf("\n  %s\n", ui.RenderMuted(fmt.Sprintf("created %s, updated %s, version %d",
		rec.CreatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339), rec.Version)))
}

// printTransition reports a successful transition on one line.
func printTransition(rec *types.BugRecord) {
	if jsonOutput {
		outputJSON(rec)
		return
	}
	fmt.Printf("%s is now %s (version %d)\n", ui.RenderAccent(rec.ID), ui.RenderStatus(rec.Status), rec.Version)
}
