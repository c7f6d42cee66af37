package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/domain/application"
)

// SubmitApplicationParams defines the arguments for the submit_application tool
type SubmitApplicationParams struct {
	JobID       string       `json:"job_id" jsonschema:"Job to apply to"`
	ApplicantID string       `json:"applicant_id" jsonschema:"Candidate submitting the application"`
	CoverLetter string       `json:"cover_letter,omitempty" jsonschema:"Free-form cover letter"`
	ResumeURL   string       `json:"resume_url,omitempty" jsonschema:"Reference to an uploaded resume"`
	Answers     []AnswerView `json:"answers,omitempty" jsonschema:"Answers to the job's screening questions"`
}

// UpdateStatusParams defines the arguments for the update_application_status tool
type UpdateStatusParams struct {
	ApplicationID string `json:"application_id" jsonschema:"Application to move"`
	Status        string `json:"status" jsonschema:"Target status: reviewing, interviewed, offered, hired or rejected"`
	Note          string `json:"note,omitempty" jsonschema:"Optional note stored with the audit entry"`
	AuthorID      string `json:"author_id,omitempty" jsonschema:"User making the change"`
}

// WithdrawParams defines the arguments for the withdraw_application tool
type WithdrawParams struct {
	ApplicationID string `json:"application_id" jsonschema:"Application to withdraw"`
	Reason        string `json:"reason,omitempty" jsonschema:"Why the candidate withdraws"`
}

// ScheduleInterviewParams defines the arguments for the schedule_interview tool
type ScheduleInterviewParams struct {
	ApplicationID  string   `json:"application_id" jsonschema:"Application the interview belongs to"`
	Date           string   `json:"date" jsonschema:"Interview time in RFC 3339 format"`
	Type           string   `json:"type" jsonschema:"phone, video or in-person"`
	Location       string   `json:"location,omitempty" jsonschema:"Address or meeting link"`
	InterviewerIDs []string `json:"interviewer_ids,omitempty" jsonschema:"Users conducting the interview"`
	ScheduledBy    string   `json:"scheduled_by,omitempty" jsonschema:"User scheduling the interview"`
}

// AddNoteParams defines the arguments for the add_application_note tool
type AddNoteParams struct {
	ApplicationID string `json:"application_id" jsonschema:"Application to annotate"`
	Content       string `json:"content" jsonschema:"Note text"`
	AuthorID      string `json:"author_id,omitempty" jsonschema:"User writing the note"`
}

// ApplicationIDParams selects a single application
type ApplicationIDParams struct {
	ApplicationID string `json:"application_id" jsonschema:"Application identifier"`
}

// ListByJobParams defines the arguments for the list_job_applications tool
type ListByJobParams struct {
	JobID  string `json:"job_id" jsonschema:"Job whose applications to list"`
	Status string `json:"status,omitempty" jsonschema:"Optional status filter"`
}

// ListByApplicantParams defines the arguments for the list_applicant_applications tool
type ListByApplicantParams struct {
	ApplicantID string `json:"applicant_id" jsonschema:"Candidate whose applications to list"`
	Status      string `json:"status,omitempty" jsonschema:"Optional status filter"`
}

// ListNotificationsParams defines the arguments for the list_notifications tool
type ListNotificationsParams struct {
	RecipientID string `json:"recipient_id" jsonschema:"User whose notifications to list"`
}

// ComputeScoreParams defines the arguments for the compute_match_score tool
type ComputeScoreParams struct {
	RequiredSkills  []string `json:"required_skills,omitempty" jsonschema:"Skills the job requires"`
	PreferredSkills []string `json:"preferred_skills,omitempty" jsonschema:"Skills the job prefers"`
	CandidateSkills []string `json:"candidate_skills,omitempty" jsonschema:"Skills the candidate holds"`
}

// ApplicationResult wraps a single application
type ApplicationResult struct {
	Application ApplicationView `json:"application"`
}

// ApplicationListResult lists applications
type ApplicationListResult struct {
	Applications []ApplicationView `json:"applications"`
	Count        int               `json:"count"`
}

// NotificationListResult lists notifications, oldest first
type NotificationListResult struct {
	Notifications []NotificationView `json:"notifications"`
	Count         int                `json:"count"`
}

// ScoreResult carries a match score in [0, 100]
type ScoreResult struct {
	Score int `json:"score"`
}

type applicationTools struct {
	svc application.Service
}

// WithApplicationTools registers the application lifecycle tools
func WithApplicationTools(svc application.Service) Option {
	return func(reg *registry) {
		t := applicationTools{svc: svc}
		addTool(reg, "submit_application", "Submit a candidate's application to an active job", t.submit)
		addTool(reg, "update_application_status", "Move an application to its next review status", t.updateStatus)
		addTool(reg, "withdraw_application", "Withdraw a non-terminal application on behalf of the candidate", t.withdraw)
		addTool(reg, "schedule_interview", "Schedule an interview and mark the application as interviewed", t.scheduleInterview)
		addTool(reg, "add_application_note", "Append a note to an application's audit log", t.addNote)
		addTool(reg, "recompute_match_score", "Recompute an application's match score from current skills", t.recomputeScore)
		addTool(reg, "get_application", "Fetch a single application", t.get)
		addTool(reg, "list_job_applications", "List the applications received by a job", t.listByJob)
		addTool(reg, "list_applicant_applications", "List the applications submitted by a candidate", t.listByApplicant)
		addTool(reg, "list_notifications", "List the notifications addressed to a user", t.notifications)
		addTool(reg, "compute_match_score", "Score a skill profile against required and preferred skills", t.computeScore)
	}
}

func (t applicationTools) submit(ctx context.Context, _ *sdkmcp.CallToolRequest, params SubmitApplicationParams) (*sdkmcp.CallToolResult, ApplicationResult, error) {
	jobID, err := parseID("job_id", params.JobID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	applicantID, err := parseID("applicant_id", params.ApplicantID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}

	payload := application.SubmitPayload{
		CoverLetter: params.CoverLetter,
		ResumeURL:   params.ResumeURL,
	}
	for _, a := range params.Answers {
		payload.Answers = append(payload.Answers, domain.Answer{Question: a.Question, Answer: a.Answer})
	}

	app, err := t.svc.Submit(ctx, jobID, applicantID, payload)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	msg := fmt.Sprintf("[submit_application] Application %s submitted with match score %d", app.ID, app.MatchScore)
	return textResult(msg), ApplicationResult{Application: applicationView(app)}, nil
}

func (t applicationTools) updateStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, params UpdateStatusParams) (*sdkmcp.CallToolResult, ApplicationResult, error) {
	id, err := parseID("application_id", params.ApplicationID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	status, err := parseStatus(params.Status)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	author, err := parseOptionalID("author_id", params.AuthorID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}

	var note *application.NoteInput
	if strings.TrimSpace(params.Note) != "" || author != uuid.Nil {
		note = &application.NoteInput{Content: params.Note, AuthorID: author}
	}

	app, err := t.svc.UpdateStatus(ctx, id, status, note)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	msg := fmt.Sprintf("[update_application_status] Application %s is now %s", app.ID, app.Status)
	return textResult(msg), ApplicationResult{Application: applicationView(app)}, nil
}

func (t applicationTools) withdraw(ctx context.Context, _ *sdkmcp.CallToolRequest, params WithdrawParams) (*sdkmcp.CallToolResult, ApplicationResult, error) {
	id, err := parseID("application_id", params.ApplicationID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}

	app, err := t.svc.Withdraw(ctx, id, params.Reason)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	msg := fmt.Sprintf("[withdraw_application] Application %s withdrawn", app.ID)
	return textResult(msg), ApplicationResult{Application: applicationView(app)}, nil
}

func (t applicationTools) scheduleInterview(ctx context.Context, _ *sdkmcp.CallToolRequest, params ScheduleInterviewParams) (*sdkmcp.CallToolResult, ApplicationResult, error) {
	id, err := parseID("application_id", params.ApplicationID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	date, err := parseTime("date", params.Date)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	kind, err := domain.ParseInterviewType(params.Type)
	if err != nil {
		return nil, ApplicationResult{}, domain.Validation("%v", err)
	}
	interviewers, err := parseIDs("interviewer_ids", params.InterviewerIDs)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	scheduledBy, err := parseOptionalID("scheduled_by", params.ScheduledBy)
	if err != nil {
		return nil, ApplicationResult{}, err
	}

	app, err := t.svc.ScheduleInterview(ctx, id, application.InterviewInput{
		Date:           date,
		Location:       params.Location,
		InterviewerIDs: interviewers,
		Type:           kind,
		ScheduledBy:    scheduledBy,
	})
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	msg := fmt.Sprintf("[schedule_interview] %s interview scheduled for application %s", kind, app.ID)
	return textResult(msg), ApplicationResult{Application: applicationView(app)}, nil
}

func (t applicationTools) addNote(ctx context.Context, _ *sdkmcp.CallToolRequest, params AddNoteParams) (*sdkmcp.CallToolResult, ApplicationResult, error) {
	id, err := parseID("application_id", params.ApplicationID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	author, err := parseOptionalID("author_id", params.AuthorID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}

	app, err := t.svc.AddNote(ctx, id, application.NoteInput{Content: params.Content, AuthorID: author})
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	msg := fmt.Sprintf("[add_application_note] Application %s now has %d note(s)", app.ID, len(app.Notes))
	return textResult(msg), ApplicationResult{Application: applicationView(app)}, nil
}

func (t applicationTools) recomputeScore(ctx context.Context, _ *sdkmcp.CallToolRequest, params ApplicationIDParams) (*sdkmcp.CallToolResult, ApplicationResult, error) {
	id, err := parseID("application_id", params.ApplicationID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}

	app, err := t.svc.RecomputeMatchScore(ctx, id)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	msg := fmt.Sprintf("[recompute_match_score] Application %s scored %d", app.ID, app.MatchScore)
	return textResult(msg), ApplicationResult{Application: applicationView(app)}, nil
}

func (t applicationTools) get(ctx context.Context, _ *sdkmcp.CallToolRequest, params ApplicationIDParams) (*sdkmcp.CallToolResult, ApplicationResult, error) {
	id, err := parseID("application_id", params.ApplicationID)
	if err != nil {
		return nil, ApplicationResult{}, err
	}

	app, err := t.svc.Get(ctx, id)
	if err != nil {
		return nil, ApplicationResult{}, err
	}
	msg := fmt.Sprintf("[get_application] Application %s is %s", app.ID, app.Status)
	return textResult(msg), ApplicationResult{Application: applicationView(app)}, nil
}

func (t applicationTools) listByJob(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListByJobParams) (*sdkmcp.CallToolResult, ApplicationListResult, error) {
	jobID, err := parseID("job_id", params.JobID)
	if err != nil {
		return nil, ApplicationListResult{}, err
	}
	status, err := parseStatusFilter(params.Status)
	if err != nil {
		return nil, ApplicationListResult{}, err
	}

	apps, err := t.svc.ListByJob(ctx, jobID, status)
	if err != nil {
		return nil, ApplicationListResult{}, err
	}
	result := ApplicationListResult{Applications: applicationViews(apps), Count: len(apps)}
	msg := fmt.Sprintf("[list_job_applications] %d application(s) for job %s", result.Count, jobID)
	return textResult(msg), result, nil
}

func (t applicationTools) listByApplicant(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListByApplicantParams) (*sdkmcp.CallToolResult, ApplicationListResult, error) {
	applicantID, err := parseID("applicant_id", params.ApplicantID)
	if err != nil {
		return nil, ApplicationListResult{}, err
	}
	status, err := parseStatusFilter(params.Status)
	if err != nil {
		return nil, ApplicationListResult{}, err
	}

	apps, err := t.svc.ListByApplicant(ctx, applicantID, status)
	if err != nil {
		return nil, ApplicationListResult{}, err
	}
	result := ApplicationListResult{Applications: applicationViews(apps), Count: len(apps)}
	msg := fmt.Sprintf("[list_applicant_applications] %d application(s) for applicant %s", result.Count, applicantID)
	return textResult(msg), result, nil
}

func (t applicationTools) notifications(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListNotificationsParams) (*sdkmcp.CallToolResult, NotificationListResult, error) {
	recipientID, err := parseID("recipient_id", params.RecipientID)
	if err != nil {
		return nil, NotificationListResult{}, err
	}

	ns, err := t.svc.Notifications(ctx, recipientID)
	if err != nil {
		return nil, NotificationListResult{}, err
	}
	result := NotificationListResult{
		Notifications: make([]NotificationView, 0, len(ns)),
		Count:         len(ns),
	}
	for _, n := range ns {
		result.Notifications = append(result.Notifications, notificationView(n))
	}
	msg := fmt.Sprintf("[list_notifications] %d notification(s) for %s", result.Count, recipientID)
	return textResult(msg), result, nil
}

func (t applicationTools) computeScore(_ context.Context, _ *sdkmcp.CallToolRequest, params ComputeScoreParams) (*sdkmcp.CallToolResult, ScoreResult, error) {
	score := t.svc.ComputeMatchScore(
		skillSet(params.RequiredSkills),
		skillSet(params.PreferredSkills),
		skillSet(params.CandidateSkills),
	)
	msg := fmt.Sprintf("[compute_match_score] Score %d", score)
	return textResult(msg), ScoreResult{Score: score}, nil
}
