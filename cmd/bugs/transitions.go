package main

import (
	"github.com/spf13/cobra"
)

// expectedVersionFor returns the version the transition must match. An
// explicit --expect-version wins; otherwise the record's current version
// is used, so a plain CLI call never fails its own version check. Any
// writer that lands between the read here and the store write is still
// caught by the store's guard.
func expectedVersionFor(cmd *cobra.Command, id string) int64 {
	if expect, _ := cmd.Flags().GetInt64("expect-version"); expect > 0 {
		return expect
	}
	rec, err := tracker.Get(rootCtx, id)
	if err != nil {
		FatalError("%v", err)
	}
	return rec.Version
}

// registerExpectVersionFlag adds the shared optimistic-concurrency flag.
func registerExpectVersionFlag(cmd *cobra.Command) {
	cmd.Flags().Int64("expect-version", 0, "Fail unless the record is at this version")
}
