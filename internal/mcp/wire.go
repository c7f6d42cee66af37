//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/jobmatch/internal/config"
	"github.com/honeycarbs/jobmatch/internal/domain/application"
	"github.com/honeycarbs/jobmatch/internal/domain/directory"
	"github.com/honeycarbs/jobmatch/internal/metrics"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger, m *metrics.Metrics) (*Resources, func(), error) {
	wire.Build(
		// Storage
		provideNeo4jClient,
		provideStore,
		provideDirectoryWriter,

		// Job sources
		provideJobProviders,
		provideImportOwner,

		// Services
		provideSettings,
		wire.Bind(new(application.Recorder), new(*metrics.Metrics)),
		application.NewServiceWithDeps,
		directory.NewServiceWithDeps,

		// Export
		provideExporter,

		newResources,
	)
	return nil, nil, nil
}
