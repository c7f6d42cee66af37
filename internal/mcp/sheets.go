package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/jobmatch/internal/mcp/tools"
	sheetsclient "github.com/honeycarbs/jobmatch/pkg/sheets"
)

var pipelineHeader = []interface{}{
	"Application",
	"Applicant",
	"Status",
	"Match score",
	"Interviews",
	"Notes",
	"Submitted",
	"Updated",
}

type tableWriter interface {
	WriteTable(ctx context.Context, spreadsheetID, tab string, header []interface{}, rows [][]interface{}) error
}

// sheetsExporter writes pipeline snapshots into a Google Sheets tab
type sheetsExporter struct {
	client tableWriter
}

func newSheetsExporter(client *sheetsclient.Client) *sheetsExporter {
	return &sheetsExporter{client: client}
}

func (e *sheetsExporter) ExportPipeline(ctx context.Context, export tools.PipelineExport) error {
	if e.client == nil {
		return fmt.Errorf("sheets: client not configured")
	}
	if export.SpreadsheetID == "" {
		return fmt.Errorf("sheets: spreadsheet id is required")
	}
	return e.client.WriteTable(ctx, export.SpreadsheetID, export.Tab, pipelineHeader, pipelineValues(export.Rows))
}

func pipelineValues(rows []tools.PipelineRow) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{
			row.ApplicationID,
			row.ApplicantID,
			row.Status,
			row.MatchScore,
			row.Interviews,
			row.Notes,
			row.SubmittedAt,
			row.UpdatedAt,
		}
	}
	return values
}
