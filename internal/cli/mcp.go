package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/corentin-rs/objdb/internal/config"
	"github.com/corentin-rs/objdb/internal/mcp"
	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP admin server",
	Long: `Start the Model Context Protocol (MCP) server that exposes objdb's
create/read/delete operations as tools for agent-driven administration.

The MCP server:
- Rebuilds the registry from the configured data directory
- Provides objdb_create_database, objdb_create_table, objdb_delete_table,
  objdb_create_record, objdb_read_record, objdb_delete_record, objdb_status
- Communicates via stdio (standard MCP transport)

Example:
  objdb mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(os.Stderr, "objdb MCP Server\n")
	fmt.Fprintf(os.Stderr, "Data directory: %s\n\n", cfg.Storage.DataDir)

	mcpConfig := &mcp.MCPServerConfig{
		DataDir:     cfg.Storage.DataDir,
		PartSize:    cfg.Storage.PartSizeMax,
		LockWait:    cfg.LockMode() == objdb.LockWait,
		CatalogPath: cfg.Catalog.Path,
	}

	server, err := mcp.NewMCPServer(ctx, mcpConfig)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
