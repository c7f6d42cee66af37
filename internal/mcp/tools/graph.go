package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	pkgneo4j "github.com/honeycarbs/jobmatch/pkg/neo4j"
)

// GraphInspectParams defines the arguments for the graph_inspect tool
type GraphInspectParams struct {
	Cypher        string         `json:"cypher,omitempty" jsonschema:"Read-only Cypher query to run"`
	JobID         string         `json:"job_id,omitempty" jsonschema:"Show a job with its company, skills and applications"`
	ApplicationID string         `json:"application_id,omitempty" jsonschema:"Show an application with its notes and interviews"`
	Params        map[string]any `json:"params,omitempty" jsonschema:"Parameters for a custom Cypher query"`
}

// GraphInspectResult carries the formatted query output
type GraphInspectResult struct {
	Rows   int    `json:"rows"`
	Output string `json:"output"`
}

const (
	jobGraphQuery = `
		MATCH (j:Job {id: $jobId})
		OPTIONAL MATCH (j)-[:OFFERED_BY]->(c:Company)
		OPTIONAL MATCH (j)-[:REQUIRES]->(req:Skill)
		OPTIONAL MATCH (j)-[:PREFERS]->(pref:Skill)
		OPTIONAL MATCH (a:Application)-[:FOR_JOB]->(j)
		RETURN j, c,
		       collect(DISTINCT req.id) AS required,
		       collect(DISTINCT pref.id) AS preferred,
		       collect(DISTINCT {id: a.id, status: a.status, score: a.matchScore}) AS applications
	`
	applicationGraphQuery = `
		MATCH (a:Application {id: $applicationId})
		OPTIONAL MATCH (u:User)-[:APPLIED]->(a)
		OPTIONAL MATCH (a)-[:HAS_NOTE]->(n:Note)
		OPTIONAL MATCH (a)-[:HAS_INTERVIEW]->(i:Interview)
		RETURN a, u.id AS applicant,
		       collect(DISTINCT n.content) AS notes,
		       collect(DISTINCT i) AS interviews
	`
	labelCountQuery = "MATCH (n) RETURN labels(n) AS labels, count(n) AS count ORDER BY count DESC LIMIT 20"
)

type graphToolHandler struct {
	client *pkgneo4j.Client
}

// WithGraphInspect registers the graph_inspect tool. It is only useful when
// the engine runs on the Neo4j store.
func WithGraphInspect(client *pkgneo4j.Client) Option {
	return func(reg *registry) {
		if client == nil {
			return
		}
		handler := &graphToolHandler{client: client}
		addTool(reg, "graph_inspect", "Developer tool for inspecting the jobs and applications graph in Neo4j", handler.handle)
	}
}

func (h *graphToolHandler) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params GraphInspectParams) (*sdkmcp.CallToolResult, GraphInspectResult, error) {
	var (
		query       string
		queryParams map[string]any
	)

	switch {
	case params.Cypher != "":
		query = params.Cypher
		queryParams = params.Params
	case params.JobID != "":
		query = jobGraphQuery
		queryParams = map[string]any{"jobId": params.JobID}
	case params.ApplicationID != "":
		query = applicationGraphQuery
		queryParams = map[string]any{"applicationId": params.ApplicationID}
	default:
		query = labelCountQuery
	}

	rows, output, err := h.executeQuery(ctx, query, queryParams)
	if err != nil {
		return nil, GraphInspectResult{}, err
	}

	return textResult(output), GraphInspectResult{Rows: rows, Output: output}, nil
}

func (h *graphToolHandler) executeQuery(ctx context.Context, query string, params map[string]any) (int, string, error) {
	session := h.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	var allRecords []*neo4j.Record
	var keys []string

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		for result.Next(ctx) {
			record := result.Record()
			if keys == nil {
				keys = record.Keys
			}
			allRecords = append(allRecords, record)
		}

		if err := result.Err(); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		return 0, "", fmt.Errorf("query execution failed: %w", err)
	}

	return len(allRecords), formatRecords(allRecords, keys), nil
}

func formatRecords(records []*neo4j.Record, keys []string) string {
	if len(records) == 0 {
		return "Query executed successfully but returned no rows"
	}

	var sb strings.Builder
	sb.WriteString("Results:\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for i, record := range records {
		sb.WriteString(fmt.Sprintf("Row %d:\n", i+1))

		for _, key := range keys {
			val, ok := record.Get(key)
			if !ok {
				sb.WriteString(fmt.Sprintf("  %s: <not found>\n", key))
				continue
			}
			formatted := formatValue(val)
			sb.WriteString(fmt.Sprintf("  %s: %s\n", key, formatted))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatValue(val any) string {
	if val == nil {
		return "null"
	}

	switch v := val.(type) {
	case neo4j.Node:
		propsJSON, _ := json.Marshal(v.Props)
		return fmt.Sprintf("Node[%v] %s", v.Labels, string(propsJSON))
	case neo4j.Relationship:
		propsJSON, _ := json.Marshal(v.Props)
		return fmt.Sprintf("Relationship[%s] %s", v.Type, string(propsJSON))
	case []any:
		if len(v) == 0 {
			return "[]"
		}
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, formatValue(item))
		}
		return fmt.Sprintf("[%s]", strings.Join(items, ", "))
	case map[string]any:
		jsonBytes, _ := json.Marshal(v)
		return string(jsonBytes)
	case string:
		return fmt.Sprintf("%q", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(jsonBytes)
	}
}
