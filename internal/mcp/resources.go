package mcp

import (
	"context"

	"github.com/honeycarbs/jobmatch/internal/config"
	"github.com/honeycarbs/jobmatch/internal/metrics"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

func initializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger, m *metrics.Metrics) (*Resources, func(), error) {
	res, cleanup, err := InitializeResources(ctx, cfg, logger, m)
	if err != nil {
		logger.Error("failed to initialize resources", "backend", cfg.Store.Backend, "err", err)
		return nil, nil, err
	}

	logger.Info("store initialized", "backend", cfg.Store.Backend)
	if res.Neo4jClient != nil {
		logger.Info("Neo4j client initialized", "uri", cfg.Neo4j.URI)
	}
	if res.Exporter == nil {
		logger.Info("Google Sheets not configured; pipeline export disabled")
	}

	return res, cleanup, nil
}
