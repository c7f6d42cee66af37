package main

import (
	"net"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/jobmatch/internal/mcp"
	"github.com/honeycarbs/jobmatch/pkg/shutdown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv, err := mcp.NewServer(cmd.Context(), logger, cfg)
	if err != nil {
		logger.Error("failed to build MCP server", "err", err)
		return err
	}

	go shutdown.Graceful(
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		10*time.Second,
		logger,
		srv,
		shutdown.StopFunc(srv.Close),
	)

	logger.Info("MCP server initialized and starting",
		"addr", net.JoinHostPort(cfg.Host, cfg.Port),
		"backend", cfg.Store.Backend,
	)

	if err := srv.Run(); err != nil {
		logger.Error("MCP server exited with error", "err", err)
		return err
	}
	logger.Info("MCP server stopped")
	return nil
}
