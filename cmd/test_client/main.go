package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/mcp/tools"
)

// Walks one application through the pipeline against a running server.
func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable HTTP endpoint")
	flag.Parse()

	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "jobmatch-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: *endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)

	owner := uuid.NewString()
	applicant := uuid.NewString()

	var job tools.JobResult
	call(ctx, session, "publish_job", map[string]any{
		"title":            "Backend Engineer",
		"company_name":     "Acme",
		"owner_id":         owner,
		"required_skills":  []string{"go", "sql"},
		"preferred_skills": []string{"kubernetes"},
	}, &job)

	call(ctx, session, "set_candidate_skills", map[string]any{
		"user_id": applicant,
		"skills":  []string{"Go", "Kubernetes"},
	}, nil)

	var submitted tools.ApplicationResult
	call(ctx, session, "submit_application", map[string]any{
		"job_id":       job.Job.ID,
		"applicant_id": applicant,
		"cover_letter": "Hello from the test client",
	}, &submitted)
	fmt.Printf("  match score: %d\n", submitted.Application.MatchScore)

	appID := submitted.Application.ID
	call(ctx, session, "update_application_status", map[string]any{
		"application_id": appID,
		"status":         "reviewing",
		"note":           "shortlisted",
		"author_id":      owner,
	}, nil)

	call(ctx, session, "schedule_interview", map[string]any{
		"application_id": appID,
		"date":           "2030-01-15T15:00:00Z",
		"type":           "video",
		"location":       "https://meet.example.com/abc",
		"scheduled_by":   owner,
	}, nil)

	var inbox tools.NotificationListResult
	call(ctx, session, "list_notifications", map[string]any{"recipient_id": applicant}, &inbox)
	for _, n := range inbox.Notifications {
		fmt.Printf("  [%s] %s\n", n.Kind, n.Message)
	}

	var pipeline tools.ApplicationListResult
	call(ctx, session, "list_job_applications", map[string]any{"job_id": job.Job.ID}, &pipeline)
	fmt.Printf("  %d application(s) on job %s\n", pipeline.Count, job.Job.ID)

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list tools")
	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("list tools failed: %v", err)
	}
	for _, tool := range res.Tools {
		fmt.Printf("  %s\n", tool.Name)
	}
}

// call invokes a tool, stops on failure and decodes the structured output into out
func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any, out any) {
	fmt.Printf("\nTEST: %s\n", name)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Fatalf("%s failed: %v", name, err)
	}
	if result.IsError {
		printResult(result)
		log.Fatalf("%s returned an error", name)
	}

	if out != nil {
		raw, err := json.Marshal(result.StructuredContent)
		if err != nil {
			log.Fatalf("%s: encoding structured content: %v", name, err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			log.Fatalf("%s: decoding structured content: %v", name, err)
		}
	}
	fmt.Printf("%s passed\n", name)
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
