package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestLoadFallsBackToDefaultsWithNoConfigFile(t *testing.T) {
	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default().Server.BindAddr, cfg.Server.BindAddr)
}

func TestLoadReadsConfigFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".objdb"), 0o755))
	contents := "server:\n  bind_addr: \"0.0.0.0:9000\"\nlock:\n  mode: wait\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".objdb", "config.yaml"), []byte(contents), 0o644))

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.BindAddr)
	assert.Equal(t, objdb.LockWait, cfg.LockMode())
}

func TestValidateRejectsBadLockMode(t *testing.T) {
	cfg := Default()
	cfg.Lock.Mode = "sometimes"
	require.ErrorIs(t, Validate(cfg), ErrInvalidLockMode)
}

func TestLockModeDefaultsToTry(t *testing.T) {
	cfg := Default()
	cfg.Lock.Mode = "try"
	assert.Equal(t, objdb.LockTry, cfg.LockMode())
}
