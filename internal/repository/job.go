package repository

import (
	"context"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

// JobDirectory is the engine's view of job postings. Only the application
// counter and list are ever written through it.
type JobDirectory interface {
	GetJob(ctx context.Context, id domain.JobID) (domain.Job, error)
	// IncrementApplicationCounter adds one to the job's counter and appends
	// applicationID to its list using store-side primitives.
	IncrementApplicationCounter(ctx context.Context, jobID domain.JobID, applicationID domain.ApplicationID) error
}

// SkillDirectory resolves the skills a candidate holds
type SkillDirectory interface {
	GetCandidateSkills(ctx context.Context, userID domain.UserID) ([]domain.SkillID, error)
}

// DirectoryWriter seeds the job and skill directory
type DirectoryWriter interface {
	UpsertJob(ctx context.Context, job domain.Job) error
	SetCandidateSkills(ctx context.Context, userID domain.UserID, skills []domain.SkillID) error
}
