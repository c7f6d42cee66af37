package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobmatch/internal/mcp/tools"
)

type recordingWriter struct {
	spreadsheetID string
	tab           string
	header        []interface{}
	rows          [][]interface{}
}

func (w *recordingWriter) WriteTable(_ context.Context, spreadsheetID, tab string, header []interface{}, rows [][]interface{}) error {
	w.spreadsheetID = spreadsheetID
	w.tab = tab
	w.header = header
	w.rows = rows
	return nil
}

func TestSheetsExporter(t *testing.T) {
	w := &recordingWriter{}
	exp := &sheetsExporter{client: w}

	err := exp.ExportPipeline(context.Background(), tools.PipelineExport{
		SpreadsheetID: "sheet-1",
		Tab:           "Pipeline",
		Rows: []tools.PipelineRow{{
			ApplicationID: "a1",
			ApplicantID:   "u1",
			Status:        "reviewing",
			MatchScore:    65,
			Interviews:    1,
			Notes:         2,
			SubmittedAt:   "2025-01-01T00:00:00Z",
			UpdatedAt:     "2025-01-02T00:00:00Z",
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "sheet-1", w.spreadsheetID)
	assert.Equal(t, "Pipeline", w.tab)
	assert.Len(t, w.header, 8)
	require.Len(t, w.rows, 1)
	assert.Equal(t, []interface{}{"a1", "u1", "reviewing", 65, 1, 2, "2025-01-01T00:00:00Z", "2025-01-02T00:00:00Z"}, w.rows[0])
}

func TestSheetsExporterErrors(t *testing.T) {
	err := (&sheetsExporter{}).ExportPipeline(context.Background(), tools.PipelineExport{SpreadsheetID: "x"})
	assert.Error(t, err)

	err = (&sheetsExporter{client: &recordingWriter{}}).ExportPipeline(context.Background(), tools.PipelineExport{})
	assert.Error(t, err)
}
