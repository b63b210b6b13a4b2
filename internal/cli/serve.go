package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corentin-rs/objdb/internal/config"
	"github.com/corentin-rs/objdb/internal/daemon"
	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/corentin-rs/objdb/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the objdb TCP server",
	Long: `Start the line-oriented TCP server that accepts create/read/update/delete
requests against the registry rebuilt from the configured data directory.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	guard := daemon.NewDataDirGuard(cfg.Storage.DataDir)
	acquired, err := guard.Acquire()
	if err != nil {
		return fmt.Errorf("failed to acquire data directory lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("data directory %s is already administered by another objdb process", cfg.Storage.DataDir)
	}
	defer guard.Release()

	reg, err := objdb.BuildRegistryFromDir(cfg.Storage.DataDir, cfg.LockMode(), cfg.Storage.PartSizeMax)
	if err != nil {
		return fmt.Errorf("failed to rebuild registry: %w", err)
	}

	srv := server.New(reg, cfg.Server.BindAddr, cfg.Server.WorkerPool)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "received shutdown signal, stopping gracefully...")
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "objdb serving on %s (data dir: %s)\n", cfg.Server.BindAddr, cfg.Storage.DataDir)
	return srv.ListenAndServe(ctx)
}
