package tools

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/domain/application"
	"github.com/honeycarbs/jobmatch/internal/domain/directory"
	"github.com/honeycarbs/jobmatch/internal/storage/memory"
)

type fixture struct {
	store *memory.Store
	apps  applicationTools
	dir   directoryTools
	svc   application.Service
	dsvc  directory.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	svc, err := application.NewService(application.WithStore(store))
	require.NoError(t, err)
	dsvc, err := directory.NewService(directory.WithWriter(store))
	require.NoError(t, err)
	return fixture{
		store: store,
		apps:  applicationTools{svc: svc},
		dir:   directoryTools{svc: dsvc},
		svc:   svc,
		dsvc:  dsvc,
	}
}

// publish creates an active job requiring go and sql and preferring k8s
func (f fixture) publish(t *testing.T, owner uuid.UUID) JobView {
	t.Helper()
	_, out, err := f.dir.publishJob(context.Background(), nil, PublishJobParams{
		Title:           "Backend Engineer",
		CompanyName:     "Acme",
		OwnerID:         owner.String(),
		RequiredSkills:  []string{"go", "sql"},
		PreferredSkills: []string{"k8s"},
	})
	require.NoError(t, err)
	return out.Job
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls map[string][]bool
}

func (r *fakeRecorder) RecordToolCall(tool string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string][]bool)
	}
	r.calls[tool] = append(r.calls[tool], success)
}

type fakeExporter struct {
	got PipelineExport
	err error
}

func (e *fakeExporter) ExportPipeline(_ context.Context, export PipelineExport) error {
	e.got = export
	return e.err
}

func TestApplicationLifecycleTools(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, applicant := uuid.New(), uuid.New()
	job := f.publish(t, owner)
	assert.Equal(t, "active", job.Status)

	_, skills, err := f.dir.setCandidateSkills(ctx, nil, SetCandidateSkillsParams{
		UserID: applicant.String(),
		Skills: []string{"Go", "k8s"},
	})
	require.NoError(t, err)
	assert.Len(t, skills.SkillIDs, 2)

	res, submitted, err := f.apps.submit(ctx, nil, SubmitApplicationParams{
		JobID:       job.ID,
		ApplicantID: applicant.String(),
		CoverLetter: "hello",
		Answers:     []AnswerView{{Question: "Visa?", Answer: "no"}},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	app := submitted.Application
	assert.Equal(t, "pending", app.Status)
	// 70 * 1/2 + 30 * 1/1
	assert.Equal(t, 65, app.MatchScore)
	assert.Equal(t, []AnswerView{{Question: "Visa?", Answer: "no"}}, app.Answers)

	_, _, err = f.apps.submit(ctx, nil, SubmitApplicationParams{JobID: job.ID, ApplicantID: applicant.String()})
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)

	reviewer := uuid.New()
	_, moved, err := f.apps.updateStatus(ctx, nil, UpdateStatusParams{
		ApplicationID: app.ID,
		Status:        "Reviewing",
		Note:          "strong profile",
		AuthorID:      reviewer.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "reviewing", moved.Application.Status)
	require.Len(t, moved.Application.Notes, 1)
	assert.Equal(t, "Status changed from pending to reviewing: strong profile", moved.Application.Notes[0].Content)
	assert.Equal(t, reviewer.String(), moved.Application.Notes[0].AuthorID)

	_, _, err = f.apps.updateStatus(ctx, nil, UpdateStatusParams{ApplicationID: app.ID, Status: "hired"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, scheduled, err := f.apps.scheduleInterview(ctx, nil, ScheduleInterviewParams{
		ApplicationID: app.ID,
		Date:          "2030-05-01T15:00:00+02:00",
		Type:          "video",
		Location:      "https://meet.example.test/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "interviewed", scheduled.Application.Status)
	require.Len(t, scheduled.Application.Interviews, 1)
	assert.Equal(t, "2030-05-01T13:00:00Z", scheduled.Application.Interviews[0].Date)
	assert.Equal(t, "scheduled", scheduled.Application.Interviews[0].Status)

	_, noted, err := f.apps.addNote(ctx, nil, AddNoteParams{ApplicationID: app.ID, Content: "follow up"})
	require.NoError(t, err)
	assert.Equal(t, "follow up", noted.Application.Notes[len(noted.Application.Notes)-1].Content)

	_, withdrawn, err := f.apps.withdraw(ctx, nil, WithdrawParams{ApplicationID: app.ID, Reason: "accepted elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, "withdrawn", withdrawn.Application.Status)
	assert.True(t, withdrawn.Application.IsWithdrawn)

	_, _, err = f.apps.withdraw(ctx, nil, WithdrawParams{ApplicationID: app.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)

	_, got, err := f.apps.get(ctx, nil, ApplicationIDParams{ApplicationID: app.ID})
	require.NoError(t, err)
	assert.Equal(t, "accepted elsewhere", got.Application.WithdrawReason)

	_, ownerInbox, err := f.apps.notifications(ctx, nil, ListNotificationsParams{RecipientID: owner.String()})
	require.NoError(t, err)
	require.Equal(t, 2, ownerInbox.Count)
	assert.Equal(t, "newApplication", ownerInbox.Notifications[0].Kind)
	assert.Equal(t, "applicationWithdrawn", ownerInbox.Notifications[1].Kind)

	_, applicantInbox, err := f.apps.notifications(ctx, nil, ListNotificationsParams{RecipientID: applicant.String()})
	require.NoError(t, err)
	require.Equal(t, 2, applicantInbox.Count)
	assert.Equal(t, "statusUpdate", applicantInbox.Notifications[0].Kind)
	assert.Equal(t, "interviewScheduled", applicantInbox.Notifications[1].Kind)
}

func TestListTools(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.publish(t, uuid.New())

	first, second := uuid.New(), uuid.New()
	for _, applicant := range []uuid.UUID{first, second} {
		_, _, err := f.apps.submit(ctx, nil, SubmitApplicationParams{JobID: job.ID, ApplicantID: applicant.String()})
		require.NoError(t, err)
	}
	_, byApplicant, err := f.apps.listByApplicant(ctx, nil, ListByApplicantParams{ApplicantID: first.String()})
	require.NoError(t, err)
	require.Equal(t, 1, byApplicant.Count)

	_, _, err = f.apps.updateStatus(ctx, nil, UpdateStatusParams{
		ApplicationID: byApplicant.Applications[0].ID,
		Status:        "rejected",
	})
	require.NoError(t, err)

	_, all, err := f.apps.listByJob(ctx, nil, ListByJobParams{JobID: job.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)

	_, rejected, err := f.apps.listByJob(ctx, nil, ListByJobParams{JobID: job.ID, Status: "rejected"})
	require.NoError(t, err)
	require.Equal(t, 1, rejected.Count)
	assert.Equal(t, first.String(), rejected.Applications[0].ApplicantID)

	_, none, err := f.apps.listByApplicant(ctx, nil, ListByApplicantParams{ApplicantID: uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Count)
	assert.NotNil(t, none.Applications)

	_, _, err = f.apps.listByJob(ctx, nil, ListByJobParams{JobID: job.ID, Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestToolInputValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.apps.submit(ctx, nil, SubmitApplicationParams{JobID: "nope", ApplicantID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.apps.submit(ctx, nil, SubmitApplicationParams{JobID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.apps.submit(ctx, nil, SubmitApplicationParams{JobID: uuid.NewString(), ApplicantID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	_, _, err = f.apps.get(ctx, nil, ApplicationIDParams{ApplicationID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	_, _, err = f.apps.scheduleInterview(ctx, nil, ScheduleInterviewParams{
		ApplicationID: uuid.NewString(), Date: "tomorrow", Type: "video",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.apps.scheduleInterview(ctx, nil, ScheduleInterviewParams{
		ApplicationID: uuid.NewString(), Date: "2030-01-01T10:00:00Z", Type: "carrier pigeon",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.dir.publishJob(ctx, nil, PublishJobParams{
		Title: "x", CompanyName: "y", OwnerID: uuid.NewString(), Status: "open",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestComputeScoreTool(t *testing.T) {
	f := newFixture(t)

	_, out, err := f.apps.computeScore(context.Background(), nil, ComputeScoreParams{
		RequiredSkills:  []string{"go", "sql", "k8s"},
		PreferredSkills: []string{"rust", "grpc"},
		CandidateSkills: []string{"Go", "rust", ""},
	})
	require.NoError(t, err)
	// 70 * 1/3 + 30 * 1/2 = 38.33
	assert.Equal(t, 38, out.Score)

	_, out, err = f.apps.computeScore(context.Background(), nil, ComputeScoreParams{})
	require.NoError(t, err)
	assert.Equal(t, 100, out.Score)
}

func TestImportJobsTool(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.dir.importJobs(context.Background(), nil, ImportJobsParams{Query: "go"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPipelineExportTool(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.publish(t, uuid.New())
	_, _, err := f.apps.submit(ctx, nil, SubmitApplicationParams{JobID: job.ID, ApplicantID: uuid.NewString()})
	require.NoError(t, err)

	exporter := &fakeExporter{}
	tool := pipelineExportTool{
		svc:                  f.svc,
		exporter:             exporter,
		defaultSpreadsheetID: "sheet-default",
		clock:                func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
	}

	_, out, err := tool.handle(ctx, nil, ExportPipelineParams{JobID: job.ID, Tab: "Pipeline"})
	require.NoError(t, err)
	assert.Equal(t, "sheet-default", out.SpreadsheetID)
	assert.Equal(t, 1, out.WrittenRows)
	assert.Equal(t, "2025-01-01T00:00:00Z", out.CompletedAt)
	require.Len(t, exporter.got.Rows, 1)
	assert.Equal(t, "pending", exporter.got.Rows[0].Status)
	assert.Equal(t, "Pipeline", exporter.got.Tab)

	exporter.err = errors.New("quota exceeded")
	_, _, err = tool.handle(ctx, nil, ExportPipelineParams{JobID: job.ID})
	assert.ErrorContains(t, err, "quota exceeded")

	tool.defaultSpreadsheetID = ""
	_, _, err = tool.handle(ctx, nil, ExportPipelineParams{JobID: job.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	unconfigured := pipelineExportTool{svc: f.svc}
	_, _, err = unconfigured.handle(ctx, nil, ExportPipelineParams{JobID: job.ID})
	assert.ErrorIs(t, err, ErrExportNotConfigured)
}

func TestRegisterOverMCP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "jobmatch-test", Version: "0.0.1"}, nil)
	rec := &fakeRecorder{}
	names := Register(server, nil, rec,
		WithApplicationTools(f.svc),
		WithDirectoryTools(f.dsvc),
		WithPipelineExport(f.svc, nil, ""),
		WithGraphInspect(nil),
	)
	assert.Len(t, names, 15)
	assert.Contains(t, names, "submit_application")
	assert.NotContains(t, names, "graph_inspect")

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "compute_match_score",
		Arguments: map[string]any{
			"required_skills":  []string{"go"},
			"candidate_skills": []string{"go"},
		},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_application",
		Arguments: map[string]any{"application_id": "not-a-uuid"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []bool{true}, rec.calls["compute_match_score"])
	assert.Equal(t, []bool{false}, rec.calls["get_application"])
}
