package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMCPServerBootstrapsRegistryAndCatalog(t *testing.T) {
	root := t.TempDir()
	cfg := &MCPServerConfig{
		DataDir:     filepath.Join(root, "databases"),
		PartSize:    4096,
		CatalogPath: filepath.Join(root, ".objdb", "catalog.db"),
	}

	s, err := NewMCPServer(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.registry.Admin())
	assert.NotNil(t, s.catalog)
}

func TestNewMCPServerRefusesSecondGuard(t *testing.T) {
	root := t.TempDir()
	cfg := &MCPServerConfig{
		DataDir:     filepath.Join(root, "databases"),
		PartSize:    4096,
		CatalogPath: filepath.Join(root, ".objdb", "catalog.db"),
	}

	first, err := NewMCPServer(context.Background(), cfg)
	require.NoError(t, err)
	defer first.Close()

	_, err = NewMCPServer(context.Background(), cfg)
	assert.Error(t, err)
}
