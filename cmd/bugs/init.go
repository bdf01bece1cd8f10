package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/steveyegge/bugs/internal/configfile"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .bugs tracker directory",
	Long: `Create a .bugs tracker directory in the current directory (or under
--dir) and write its config file. Safe to re-run: an existing tracker
directory is left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		base := bugsDir
		if base == "" {
			cwd, err := os.Getwd()
			if err != nil {
				FatalError("cannot determine working directory: %v", err)
			}
			base = filepath.Join(cwd, configfile.BugsDirName)
		}

		if _, err := os.Stat(configfile.ConfigPath(base)); err == nil {
			if jsonOutput {
				outputJSON(map[string]string{"dir": base, "status": "exists"})
			} else {
				fmt.Printf("tracker already initialized at %s\n", base)
			}
			return
		}

		c := configfile.DefaultConfig()
		if prefix, _ := cmd.Flags().GetString("prefix"); prefix != "" {
			c.KeyPrefix = prefix
		}
		if length, _ := cmd.Flags().GetInt("key-length"); length > 0 {
			c.KeyLength = length
		}
		if env, _ := cmd.Flags().GetString("environment"); env != "" {
			c.DefaultEnvironment = env
		}

		if err := c.Save(base); err != nil {
			FatalError("failed to initialize tracker: %v", err)
		}
		if jsonOutput {
			outputJSON(map[string]string{"dir": base})
			return
		}
		fmt.Printf("initialized tracker at %s\n", base)
	},
}

func init() {
	initCmd.Flags().String("prefix", "", "Key prefix for generated record IDs (default: bug)")
	initCmd.Flags().Int("key-length", 0, "Hash length for generated record IDs (default: 6)")
	initCmd.Flags().String("environment", "", "Default environment for new records")
	rootCmd.AddCommand(initCmd)
}
