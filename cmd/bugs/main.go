package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/steveyegge/bugs"
	"github.com/steveyegge/bugs/internal/configfile"
	"github.com/steveyegge/bugs/internal/eventbus"
	"github.com/steveyegge/bugs/internal/jsonl"
	"github.com/steveyegge/bugs/internal/lifecycle"
	"github.com/steveyegge/bugs/internal/storage/memory"
)

var (
	bugsDir    string
	actor      string
	jsonOutput bool
	noColor    bool

	cfg      *configfile.Config
	store    *memory.Store
	tracker  *bugs.Tracker
	recorder *eventbus.Recorder

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc

	// commandDidWrite is set when a command mutates the record population.
	// The JSONL files are rewritten in PersistentPostRun only when set.
	commandDidWrite bool
)

// noDirCommands run without a .bugs directory.
var noDirCommands = map[string]bool{
	"init":       true,
	"version":    true,
	"help":       true,
	"completion": true,
}

func isNoDirCommand(cmd *cobra.Command) bool {
	return noDirCommands[cmd.Name()]
}

// getActor returns the actor for event attribution.
// Priority: --actor flag > BUGS_ACTOR env > git config user.name > $USER > "unknown"
func getActor() string {
	if actor != "" {
		return actor
	}
	if envActor := viper.GetString("actor"); envActor != "" {
		return envActor
	}
	if out, err := exec.Command("git", "config", "user.name").Output(); err == nil {
		if gitUser := strings.TrimSpace(string(out)); gitUser != "" {
			return gitUser
		}
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "unknown"
}

func init() {
	viper.SetEnvPrefix("BUGS")
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringVar(&bugsDir, "dir", "", "Tracker directory (default: auto-discover .bugs upward from cwd)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Actor name for the event trail (default: $BUGS_ACTOR, git user.name, $USER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "bugs",
	Short: "bugs - Defect lifecycle tracker",
	Long:  `A defect tracker with a guarded status lifecycle: every record moves through an explicit transition graph, and every transition is recorded as an event.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("bugs version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		commandDidWrite = false
		applyColorProfile()

		if isNoDirCommand(cmd) {
			return
		}
		openTracker()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if commandDidWrite && store != nil {
			flushPopulation()
		}
		if store != nil {
			_ = store.Close()
		}
		if rootCancel != nil {
			rootCancel()
		}
	},
}

// applyColorProfile disables styling when the terminal or the user asks
// for plain output.
func applyColorProfile() {
	if noColor || viper.GetBool("no_color") || termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// resolveBugsDir resolves the tracker directory.
// Priority: --dir flag > BUGS_DIR env > upward .bugs discovery from cwd.
func resolveBugsDir() string {
	if bugsDir != "" {
		return bugsDir
	}
	if envDir := viper.GetString("dir"); envDir != "" {
		return envDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return configfile.Find(cwd)
}

// openTracker loads the config and record population and wires the tracker.
// Fatal if no tracker directory exists.
func openTracker() {
	bugsDir = resolveBugsDir()
	if bugsDir == "" {
		FatalError("no %s directory found (run 'bugs init' to create one)", configfile.BugsDirName)
	}

	var err error
	cfg, err = configfile.Load(bugsDir)
	if err != nil {
		FatalError("failed to load config: %v", err)
	}
	if cfg == nil {
		cfg = configfile.DefaultConfig()
	}

	records, err := jsonl.ReadRecords(cfg.RecordsPath(bugsDir))
	if err != nil {
		FatalError("failed to load records: %v", err)
	}

	store = memory.New()
	for _, rec := range records {
		if err := store.CreateRecord(rootCtx, rec); err != nil {
			FatalError("failed to load record %s: %v", rec.ID, err)
		}
	}

	// Seed historical timelines so "show --events" sees the whole log, not
	// just the events of this invocation.
	events, err := jsonl.ReadEvents(cfg.EventsPath(bugsDir))
	if err != nil {
		FatalError("failed to load event log: %v", err)
	}
	for _, ev := range events {
		_ = store.AppendEvent(rootCtx, ev)
	}

	engine := lifecycle.NewEngine(
		lifecycle.WithKeyPrefix(cfg.KeyPrefix),
		lifecycle.WithKeyLength(cfg.KeyLength),
	)
	recorder = eventbus.NewRecorder()
	bus := bugs.NewBus()
	bus.Register(recorder)
	tracker = bugs.NewTracker(store, engine, bus)
}

// flushPopulation rewrites the records file and appends this command's
// events to the event log.
func flushPopulation() {
	if err := jsonl.WriteRecords(cfg.RecordsPath(bugsDir), store.All()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write records: %v\n", err)
		os.Exit(1)
	}
	if events := recorder.Events(); len(events) > 0 {
		if err := jsonl.AppendEvents(cfg.EventsPath(bugsDir), events); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to append events: %v\n", err)
			os.Exit(1)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
