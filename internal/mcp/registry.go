package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain/application"
	"github.com/honeycarbs/jobmatch/internal/domain/directory"
	"github.com/honeycarbs/jobmatch/internal/mcp/tools"
	"github.com/honeycarbs/jobmatch/internal/metrics"
	"github.com/honeycarbs/jobmatch/internal/repository"
	"github.com/honeycarbs/jobmatch/pkg/logging"
	n4j "github.com/honeycarbs/jobmatch/pkg/neo4j"
)

type ToolRegistry struct {
	logger   *logging.Logger
	recorder tools.CallRecorder
}

// Resources holds everything the tools are built from
type Resources struct {
	Store        repository.Store
	Neo4jClient  *n4j.Client
	Applications application.Service
	Directory    directory.Service
	// Exporter is nil when Google Sheets is not configured
	Exporter tools.PipelineExporter
	Metrics  *metrics.Metrics
}

func NewToolRegistry(logger *logging.Logger, m *metrics.Metrics) *ToolRegistry {
	r := &ToolRegistry{logger: logger}
	if m != nil {
		r.recorder = m
	}
	return r
}

// RegisterAll adds every tool the resources can back and returns their names
func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res *Resources, spreadsheetID string) []string {
	names := tools.Register(server, r.logger, r.recorder,
		tools.WithApplicationTools(res.Applications),
		tools.WithDirectoryTools(res.Directory),
		tools.WithPipelineExport(res.Applications, res.Exporter, spreadsheetID),
		tools.WithGraphInspect(res.Neo4jClient),
	)
	r.logger.Info("MCP tools registered", "count", len(names), "tools", names)
	return names
}
