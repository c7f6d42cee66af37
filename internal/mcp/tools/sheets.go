package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/domain/application"
)

// ErrExportNotConfigured is returned when no sheets exporter is wired
var ErrExportNotConfigured = errors.New("pipeline export is not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)")

// PipelineRow is one application in an exported hiring pipeline
type PipelineRow struct {
	ApplicationID string
	ApplicantID   string
	Status        string
	MatchScore    int
	Interviews    int
	Notes         int
	SubmittedAt   string
	UpdatedAt     string
}

// PipelineExport is a pipeline snapshot to write to a spreadsheet tab
type PipelineExport struct {
	SpreadsheetID string
	Tab           string
	Rows          []PipelineRow
}

// PipelineExporter writes pipeline snapshots downstream
type PipelineExporter interface {
	ExportPipeline(ctx context.Context, export PipelineExport) error
}

// ExportPipelineParams defines the arguments for the export_pipeline_sheet tool
type ExportPipelineParams struct {
	JobID         string `json:"job_id" jsonschema:"Job whose pipeline to export"`
	Status        string `json:"status,omitempty" jsonschema:"Optional status filter"`
	SpreadsheetID string `json:"spreadsheet_id,omitempty" jsonschema:"Google Sheets document ID; defaults to the configured one"`
	Tab           string `json:"tab,omitempty" jsonschema:"Tab name, replaced on every export"`
}

// ExportPipelineResult describes the summary returned after export
type ExportPipelineResult struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Target spreadsheet ID"`
	Tab           string `json:"tab,omitempty" jsonschema:"Target tab name"`
	WrittenRows   int    `json:"written_rows" jsonschema:"How many rows were written"`
	CompletedAt   string `json:"completed_at" jsonschema:"Timestamp when export finished"`
}

type pipelineExportTool struct {
	svc                  application.Service
	exporter             PipelineExporter
	defaultSpreadsheetID string
	clock                func() time.Time
}

// WithPipelineExport registers the export_pipeline_sheet tool. A nil exporter
// keeps the tool listed but every call fails with ErrExportNotConfigured.
func WithPipelineExport(svc application.Service, exporter PipelineExporter, defaultSpreadsheetID string) Option {
	return func(reg *registry) {
		t := pipelineExportTool{
			svc:                  svc,
			exporter:             exporter,
			defaultSpreadsheetID: defaultSpreadsheetID,
			clock:                time.Now,
		}
		addTool(reg, "export_pipeline_sheet", "Export a job's application pipeline to Google Sheets", t.handle)
	}
}

func (t pipelineExportTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params ExportPipelineParams) (*sdkmcp.CallToolResult, ExportPipelineResult, error) {
	if t.exporter == nil {
		return nil, ExportPipelineResult{}, ErrExportNotConfigured
	}

	jobID, err := parseID("job_id", params.JobID)
	if err != nil {
		return nil, ExportPipelineResult{}, err
	}
	status, err := parseStatusFilter(params.Status)
	if err != nil {
		return nil, ExportPipelineResult{}, err
	}
	spreadsheetID := params.SpreadsheetID
	if spreadsheetID == "" {
		spreadsheetID = t.defaultSpreadsheetID
	}
	if spreadsheetID == "" {
		return nil, ExportPipelineResult{}, domain.Validation("spreadsheet_id is required")
	}

	apps, err := t.svc.ListByJob(ctx, jobID, status)
	if err != nil {
		return nil, ExportPipelineResult{}, err
	}

	export := PipelineExport{
		SpreadsheetID: spreadsheetID,
		Tab:           params.Tab,
		Rows:          make([]PipelineRow, 0, len(apps)),
	}
	for _, a := range apps {
		export.Rows = append(export.Rows, PipelineRow{
			ApplicationID: a.ID.String(),
			ApplicantID:   a.ApplicantID.String(),
			Status:        a.Status.String(),
			MatchScore:    a.MatchScore,
			Interviews:    len(a.Interviews),
			Notes:         len(a.Notes),
			SubmittedAt:   formatTime(a.CreatedAt),
			UpdatedAt:     formatTime(a.UpdatedAt),
		})
	}

	if err := t.exporter.ExportPipeline(ctx, export); err != nil {
		return nil, ExportPipelineResult{}, fmt.Errorf("failed to export pipeline: %w", err)
	}

	result := ExportPipelineResult{
		SpreadsheetID: spreadsheetID,
		Tab:           params.Tab,
		WrittenRows:   len(export.Rows),
		CompletedAt:   formatTime(t.clock()),
	}
	msg := fmt.Sprintf("[export_pipeline_sheet] Exported %d row(s) to %s", result.WrittenRows, spreadsheetID)
	return textResult(msg), result, nil
}
