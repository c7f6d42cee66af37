package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/jobmatch/internal/mcp"
	"github.com/honeycarbs/jobmatch/internal/storage/sqlstore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the configured backend",
	Long: `Apply pending SQL migrations (sqlite, postgres) or create the graph
constraints (neo4j), then exit. The memory backend has nothing to migrate.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, closeStore, err := mcp.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("migration failed", "backend", cfg.Store.Backend, "err", err)
		return err
	}
	defer closeStore()

	if s, ok := store.(*sqlstore.Store); ok {
		version, err := s.Version(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s schema at version %d\n", cfg.Store.Backend, version)
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s schema up to date\n", cfg.Store.Backend)
	return err
}
