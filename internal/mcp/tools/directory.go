package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/domain/directory"
)

// ImportJobsParams defines the arguments for the import_jobs tool
type ImportJobsParams struct {
	Query    string   `json:"query" jsonschema:"Job search query sent to every provider"`
	Location string   `json:"location,omitempty" jsonschema:"Preferred location filter"`
	Remote   *bool    `json:"remote,omitempty" jsonschema:"Whether to restrict to remote postings"`
	Skills   []string `json:"skills,omitempty" jsonschema:"Skills to tag imported jobs with"`
}

// ImportJobsResult summarizes an import
type ImportJobsResult struct {
	Jobs        []JobView `json:"jobs"`
	SourceCount int       `json:"source_count"`
	FetchedAt   string    `json:"fetched_at"`
}

// PublishJobParams defines the arguments for the publish_job tool
type PublishJobParams struct {
	JobID           string   `json:"job_id,omitempty" jsonschema:"Existing job to replace; a new id is minted when empty"`
	Title           string   `json:"title" jsonschema:"Job title"`
	CompanyName     string   `json:"company_name" jsonschema:"Hiring company"`
	OwnerID         string   `json:"owner_id" jsonschema:"User who receives application notifications"`
	Location        string   `json:"location,omitempty"`
	URL             string   `json:"url,omitempty"`
	Status          string   `json:"status,omitempty" jsonschema:"draft, active, paused, closed or filled; default active"`
	RequiredSkills  []string `json:"required_skills,omitempty"`
	PreferredSkills []string `json:"preferred_skills,omitempty"`
}

// JobResult wraps a single job
type JobResult struct {
	Job JobView `json:"job"`
}

// SetCandidateSkillsParams defines the arguments for the set_candidate_skills tool
type SetCandidateSkillsParams struct {
	UserID string   `json:"user_id" jsonschema:"Candidate whose skills are replaced"`
	Skills []string `json:"skills" jsonschema:"Skill names"`
}

// CandidateSkillsResult lists the stored skill ids
type CandidateSkillsResult struct {
	UserID   string   `json:"user_id"`
	SkillIDs []string `json:"skill_ids"`
}

type directoryTools struct {
	svc directory.Service
}

// WithDirectoryTools registers the job and skill directory tools
func WithDirectoryTools(svc directory.Service) Option {
	return func(reg *registry) {
		t := directoryTools{svc: svc}
		addTool(reg, "import_jobs", "Import postings from external job boards as active jobs", t.importJobs)
		addTool(reg, "publish_job", "Create or replace a job posting", t.publishJob)
		addTool(reg, "set_candidate_skills", "Replace the skills a candidate holds", t.setCandidateSkills)
	}
}

func (t directoryTools) importJobs(ctx context.Context, _ *sdkmcp.CallToolRequest, params ImportJobsParams) (*sdkmcp.CallToolResult, ImportJobsResult, error) {
	res, err := t.svc.Import(ctx, directory.ImportRequest{
		Query: params.Query,
		Filters: directory.Filters{
			Location: params.Location,
			Remote:   params.Remote,
			Skills:   params.Skills,
		},
	})
	if err != nil {
		return nil, ImportJobsResult{}, err
	}

	result := ImportJobsResult{
		Jobs:        make([]JobView, 0, len(res.Jobs)),
		SourceCount: res.SourceCount,
		FetchedAt:   formatTime(res.FetchedAt),
	}
	for _, j := range res.Jobs {
		result.Jobs = append(result.Jobs, jobView(j))
	}
	msg := fmt.Sprintf("[import_jobs] Imported %d job(s) from %d source(s)", len(result.Jobs), result.SourceCount)
	return textResult(msg), result, nil
}

func (t directoryTools) publishJob(ctx context.Context, _ *sdkmcp.CallToolRequest, params PublishJobParams) (*sdkmcp.CallToolResult, JobResult, error) {
	id, err := parseOptionalID("job_id", params.JobID)
	if err != nil {
		return nil, JobResult{}, err
	}
	owner, err := parseID("owner_id", params.OwnerID)
	if err != nil {
		return nil, JobResult{}, err
	}
	var status domain.JobStatus
	if params.Status != "" {
		if status, err = domain.ParseJobStatus(params.Status); err != nil {
			return nil, JobResult{}, domain.Validation("%v", err)
		}
	}

	job, err := t.svc.PublishJob(ctx, directory.JobInput{
		ID:              id,
		CompanyName:     params.CompanyName,
		OwnerID:         owner,
		Title:           params.Title,
		Location:        params.Location,
		URL:             params.URL,
		Status:          status,
		RequiredSkills:  params.RequiredSkills,
		PreferredSkills: params.PreferredSkills,
	})
	if err != nil {
		return nil, JobResult{}, err
	}
	msg := fmt.Sprintf("[publish_job] Job %s is %s", job.ID, job.Status)
	return textResult(msg), JobResult{Job: jobView(job)}, nil
}

func (t directoryTools) setCandidateSkills(ctx context.Context, _ *sdkmcp.CallToolRequest, params SetCandidateSkillsParams) (*sdkmcp.CallToolResult, CandidateSkillsResult, error) {
	userID, err := parseID("user_id", params.UserID)
	if err != nil {
		return nil, CandidateSkillsResult{}, err
	}

	ids, err := t.svc.SetCandidateSkills(ctx, userID, params.Skills)
	if err != nil {
		return nil, CandidateSkillsResult{}, err
	}
	result := CandidateSkillsResult{UserID: userID.String(), SkillIDs: make([]string, 0, len(ids))}
	for _, id := range ids {
		result.SkillIDs = append(result.SkillIDs, id.String())
	}
	msg := fmt.Sprintf("[set_candidate_skills] Stored %d skill(s) for %s", len(ids), userID)
	return textResult(msg), result, nil
}
