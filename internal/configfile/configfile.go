// Package configfile loads and saves the .bugs directory metadata file.
package configfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the metadata file inside the .bugs directory.
const ConfigFileName = "metadata.json"

// BugsDirName is the per-project tracker directory.
const BugsDirName = ".bugs"

// Config holds the per-project tracker settings.
type Config struct {
	// KeyPrefix is the record key prefix (e.g., "bug" -> "bug-a3f8e9").
	KeyPrefix string `json:"key_prefix,omitempty"`

	// KeyLength is the base36 hash length for generated keys (3-8).
	KeyLength int `json:"key_length,omitempty"`

	// JSONLExport is the population file, relative to the .bugs dir.
	JSONLExport string `json:"jsonl_export,omitempty"`

	// EventLog is the lifecycle event log, relative to the .bugs dir.
	EventLog string `json:"event_log,omitempty"`

	// DefaultEnvironment overrides the environment applied to new records.
	DefaultEnvironment string `json:"default_environment,omitempty"`
}

// DefaultConfig returns the settings used when no metadata file exists.
func DefaultConfig() *Config {
	return &Config{
		KeyPrefix:   "bug",
		KeyLength:   6,
		JSONLExport: "records.jsonl",
		EventLog:    "events.jsonl",
	}
}

// ConfigPath returns the metadata file path for a .bugs directory.
func ConfigPath(bugsDir string) string {
	return filepath.Join(bugsDir, ConfigFileName)
}

// Load reads the config from a .bugs directory. Returns (nil, nil) if the
// file does not exist.
func Load(bugsDir string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(bugsDir)) // #nosec G304 - controlled path from config
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config to a .bugs directory, creating it if needed.
func (c *Config) Save(bugsDir string) error {
	if err := os.MkdirAll(bugsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", bugsDir, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(ConfigPath(bugsDir), append(data, '\n'), 0o644)
}

// RecordsPath returns the absolute population file path.
func (c *Config) RecordsPath(bugsDir string) string {
	return filepath.Join(bugsDir, c.JSONLExport)
}

// EventsPath returns the absolute event log path.
func (c *Config) EventsPath(bugsDir string) string {
	return filepath.Join(bugsDir, c.EventLog)
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.KeyPrefix == "" {
		c.KeyPrefix = def.KeyPrefix
	}
	if c.KeyLength == 0 {
		c.KeyLength = def.KeyLength
	}
	if c.JSONLExport == "" {
		c.JSONLExport = def.JSONLExport
	}
	if c.EventLog == "" {
		c.EventLog = def.EventLog
	}
}

// Find walks up from dir looking for a .bugs directory. Returns the .bugs
// path, or "" if none is found.
func Find(dir string) string {
	for {
		candidate := filepath.Join(dir, BugsDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
