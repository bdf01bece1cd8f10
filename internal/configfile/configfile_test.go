package configfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsNil(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestSaveThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), BugsDirName)

	cfg := DefaultConfig()
	cfg.KeyPrefix = "web"
	cfg.DefaultEnvironment = "staging"
	require.NoError(t, cfg.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "web", loaded.KeyPrefix)
	assert.Equal(t, "staging", loaded.DefaultEnvironment)
	assert.Equal(t, "records.jsonl", loaded.JSONLExport)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), BugsDirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte(`{"key_prefix":"app"}`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.KeyPrefix)
	assert.Equal(t, 6, cfg.KeyLength)
	assert.Equal(t, "events.jsonl", cfg.EventLog)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	bugsDir := filepath.Join(root, BugsDirName)
	require.NoError(t, os.MkdirAll(bugsDir, 0o755))
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, bugsDir, Find(nested))
	assert.Equal(t, bugsDir, Find(root))
}

func TestFindMissing(t *testing.T) {
	assert.Equal(t, "", Find(t.TempDir()))
}

func TestPaths(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/x/.bugs", "records.jsonl"), cfg.RecordsPath("/x/.bugs"))
	assert.Equal(t, filepath.Join("/x/.bugs", "events.jsonl"), cfg.EventsPath("/x/.bugs"))
}
