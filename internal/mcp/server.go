package mcp

// Implementation Plan:
// 1. MCPServer struct wrapping a registry, catalog and data-dir guard
// 2. NewMCPServer - creates server, rebuilds registry, registers admin tools
// 3. Serve - starts MCP server on stdio with graceful shutdown
// 4. Graceful shutdown on SIGTERM/SIGINT
// 5. Clean error handling and logging

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/corentin-rs/objdb/internal/catalog"
	"github.com/corentin-rs/objdb/internal/daemon"
	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer manages the MCP admin server lifecycle: a registry rebuilt from
// disk, the derived SQLite catalog objdb_status reports from, and the
// data-dir guard held for as long as the process administers that root.
type MCPServer struct {
	config   *MCPServerConfig
	registry *objdb.Registry
	catalog  *catalog.Catalog
	guard    *daemon.DataDirGuard
	mcp      *server.MCPServer
}

// NewMCPServer creates a new MCP admin server over config's data directory.
func NewMCPServer(ctx context.Context, config *MCPServerConfig) (*MCPServer, error) {
	if config == nil {
		config = DefaultMCPServerConfig()
	}

	guard := daemon.NewDataDirGuard(config.DataDir)
	acquired, err := guard.Acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire data directory lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("data directory %s is already administered by another process", config.DataDir)
	}

	mode := objdb.LockTry
	if config.LockWait {
		mode = objdb.LockWait
	}
	registry, err := objdb.BuildRegistryFromDir(config.DataDir, mode, config.PartSize)
	if err != nil {
		guard.Release()
		return nil, fmt.Errorf("failed to rebuild registry: %w", err)
	}

	cat, err := catalog.Open(config.CatalogPath)
	if err != nil {
		guard.Release()
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"objdb-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddCreateDatabaseTool(mcpServer, registry)
	AddCreateTableTool(mcpServer, registry)
	AddDeleteTableTool(mcpServer, registry)
	AddCreateRecordTool(mcpServer, registry)
	AddReadRecordTool(mcpServer, registry)
	AddDeleteRecordTool(mcpServer, registry)
	AddStatusTool(mcpServer, registry, cat)

	return &MCPServer{
		config:   config,
		registry: registry,
		catalog:  cat,
		guard:    guard,
		mcp:      mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting objdb MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources, including the data directory lock.
func (s *MCPServer) Close() error {
	if s.catalog != nil {
		s.catalog.Close()
	}
	if s.guard != nil {
		return s.guard.Release()
	}
	return nil
}
