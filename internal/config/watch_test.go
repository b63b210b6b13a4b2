package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnConfigChange(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, ".objdb")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	configPath := filepath.Join(configDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("lock:\n  mode: try\n"), 0o644))

	w, err := NewWatcher(root)
	require.NoError(t, err)
	defer w.Stop()

	reloaded := make(chan *Config, 1)
	w.Start(context.Background(), func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})

	require.NoError(t, os.WriteFile(configPath, []byte("lock:\n  mode: wait\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, objdb.LockWait, cfg.LockMode())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
