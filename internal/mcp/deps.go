package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/jobmatch/internal/config"
	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/domain/application"
	"github.com/honeycarbs/jobmatch/internal/domain/directory"
	adzunaProvider "github.com/honeycarbs/jobmatch/internal/domain/directory/providers/adzuna"
	"github.com/honeycarbs/jobmatch/internal/mcp/tools"
	"github.com/honeycarbs/jobmatch/internal/metrics"
	"github.com/honeycarbs/jobmatch/internal/repository"
	"github.com/honeycarbs/jobmatch/internal/storage/memory"
	storage "github.com/honeycarbs/jobmatch/internal/storage/neo4j"
	"github.com/honeycarbs/jobmatch/internal/storage/sqlstore"
	"github.com/honeycarbs/jobmatch/pkg/adzuna"
	"github.com/honeycarbs/jobmatch/pkg/logging"
	n4j "github.com/honeycarbs/jobmatch/pkg/neo4j"
	sheetsclient "github.com/honeycarbs/jobmatch/pkg/sheets"
)

// OpenStore opens the configured backend on its own, for commands that
// do not start the server. Opening applies migrations or graph constraints.
func OpenStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (repository.Store, func(), error) {
	client, closeClient, err := provideNeo4jClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := provideStore(ctx, cfg, client, logger)
	if err != nil {
		closeClient()
		return nil, nil, err
	}
	return store, func() {
		closeStore()
		closeClient()
	}, nil
}

// provideNeo4jConfig extracts Neo4j config from main config
func provideNeo4jConfig(cfg config.Config) n4j.Config {
	return n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	}
}

// provideNeo4jClient connects only when the graph backend is selected
func provideNeo4jClient(cfg config.Config) (*n4j.Client, func(), error) {
	if cfg.Store.Backend != config.BackendNeo4j {
		return nil, func() {}, nil
	}
	client, err := n4j.NewClient(provideNeo4jConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close(context.Background()) }, nil
}

// provideSQLConfig maps the sqlite and postgres sections onto sqlstore.Config
func provideSQLConfig(cfg config.Config) sqlstore.Config {
	if cfg.Store.Backend == config.BackendPostgres {
		return sqlstore.Config{
			Driver:       sqlstore.DriverPostgres,
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
		}
	}
	return sqlstore.Config{
		Driver: sqlstore.DriverSQLite,
		DSN:    sqlstore.SQLiteDSN(cfg.SQLite.Path),
	}
}

func provideStore(ctx context.Context, cfg config.Config, client *n4j.Client, logger *logging.Logger) (repository.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		return memory.New(), func() {}, nil

	case config.BackendSQLite, config.BackendPostgres:
		store, err := sqlstore.Open(ctx, provideSQLConfig(cfg))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(context.Background()); err != nil {
				logger.Warn("failed to close store", "err", err)
			}
		}, nil

	case config.BackendNeo4j:
		if client == nil {
			return nil, nil, fmt.Errorf("neo4j backend selected without a client")
		}
		store := storage.NewStore(client)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func provideDirectoryWriter(store repository.Store) repository.DirectoryWriter {
	return store
}

func provideSettings(cfg config.Config) application.Settings {
	return application.Settings{TxMaxAttempts: cfg.Engine.TxMaxAttempts}
}

// provideAdzunaConfig extracts Adzuna config from main config
func provideAdzunaConfig(cfg config.Config) adzuna.Config {
	return adzuna.Config{
		AppID:   cfg.Adzuna.AppID,
		AppKey:  cfg.Adzuna.AppKey,
		Country: cfg.Adzuna.Country,
	}
}

// provideJobProviders returns the listing sources with credentials present.
// An empty slice leaves import_jobs registered but failing validation.
func provideJobProviders(cfg config.Config, logger *logging.Logger) ([]directory.Provider, error) {
	if !cfg.AdzunaEnabled() {
		logger.Info("Adzuna credentials not set; job import disabled")
		return nil, nil
	}

	client, err := adzuna.NewClient(provideAdzunaConfig(cfg))
	if err != nil {
		return nil, err
	}
	provider, err := adzunaProvider.NewProvider(client)
	if err != nil {
		return nil, err
	}
	logger.Info("Adzuna provider initialized", "country", cfg.Adzuna.Country)
	return []directory.Provider{provider}, nil
}

func provideImportOwner(cfg config.Config) domain.UserID {
	return cfg.Import.OwnerID
}

// provideExporter returns nil when Google Sheets is not configured
func provideExporter(ctx context.Context, cfg config.Config) (tools.PipelineExporter, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}
	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{
		CredentialsPath: cfg.Sheets.CredentialsPath,
	})
	if err != nil {
		return nil, err
	}
	return newSheetsExporter(client), nil
}

// newResources creates Resources struct
func newResources(
	store repository.Store,
	neo4jClient *n4j.Client,
	applications application.Service,
	dir directory.Service,
	exporter tools.PipelineExporter,
	m *metrics.Metrics,
) *Resources {
	return &Resources{
		Store:        store,
		Neo4jClient:  neo4jClient,
		Applications: applications,
		Directory:    dir,
		Exporter:     exporter,
		Metrics:      m,
	}
}
