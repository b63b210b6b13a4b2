package cli

import (
	"fmt"
	"strings"

	"github.com/corentin-rs/objdb/internal/catalog"
	"github.com/corentin-rs/objdb/internal/config"
	"github.com/corentin-rs/objdb/internal/fkgraph"
	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report every database/table currently on disk",
	Long: `status rebuilds the registry from the configured data directory, rebuilds
the derived SQLite catalog from it, and prints one row per table with its
record/part counts and any foreign-key dependents.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	reg, err := objdb.BuildRegistryFromDir(cfg.Storage.DataDir, objdb.LockWait, cfg.Storage.PartSizeMax)
	if err != nil {
		return fmt.Errorf("failed to rebuild registry: %w", err)
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer cat.Close()

	if err := cat.Rebuild(reg); err != nil {
		return fmt.Errorf("failed to rebuild catalog: %w", err)
	}

	stats, err := cat.Stats()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	fmt.Printf("%-12s %-16s %-8s %-8s %-8s %-6s %s\n", "DATABASE", "TABLE", "COLUMNS", "RECORDS", "PARTS", "AUTO", "DEPENDENTS")
	for _, s := range stats {
		dependents := ""
		if db, ok := reg.Database(s.Database); ok {
			if g, err := fkgraph.Build(db); err == nil {
				if deps, err := g.Dependents(s.Table); err == nil {
					dependents = strings.Join(deps, ",")
				}
			}
		}
		fmt.Printf("%-12s %-16s %-8d %-8d %-8d %-6v %s\n",
			s.Database, s.Table, s.ColumnCount, s.RecordCount, s.PartCount, s.AutoIncrement, dependents)
	}

	return nil
}
