package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

// ImportRequest asks every provider for postings matching Query
type ImportRequest struct {
	Query   string
	Filters Filters
}

// ImportResult lists the jobs written to the directory
type ImportResult struct {
	Jobs        []domain.Job
	FetchedAt   time.Time
	SourceCount int
}

// JobInput describes a job published directly, without a provider
type JobInput struct {
	ID              domain.JobID
	CompanyName     string
	OwnerID         domain.UserID
	Title           string
	Location        string
	URL             string
	Status          domain.JobStatus
	RequiredSkills  []string
	PreferredSkills []string
}

// Service seeds the job and skill directory the application engine reads from
type Service interface {
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)
	PublishJob(ctx context.Context, in JobInput) (domain.Job, error)
	SetCandidateSkills(ctx context.Context, userID domain.UserID, skills []string) ([]domain.SkillID, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	providers []Provider
	writer    repository.DirectoryWriter
	owner     domain.UserID
	logger    *logging.Logger
	clock     func() time.Time
}

// WithProviders sets job providers
func WithProviders(providers ...Provider) Option {
	return func(c *config) {
		c.providers = providers
	}
}

// WithWriter sets the directory writer
func WithWriter(w repository.DirectoryWriter) Option {
	return func(c *config) {
		c.writer = w
	}
}

// WithOwner sets the account imported jobs are attributed to
func WithOwner(owner domain.UserID) Option {
	return func(c *config) {
		c.owner = owner
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// NewService builds Service from options. Providers are optional; without
// them Import fails but direct publishing still works.
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.writer == nil {
		return nil, fmt.Errorf("directory.Service: writer is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	return &service{
		providers: cfg.providers,
		writer:    cfg.writer,
		owner:     cfg.owner,
		logger:    cfg.logger,
		clock:     cfg.clock,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(writer repository.DirectoryWriter, providers []Provider, owner domain.UserID, logger *logging.Logger) (Service, error) {
	return NewService(
		WithWriter(writer),
		WithProviders(providers...),
		WithOwner(owner),
		WithLogger(logger),
	)
}

type service struct {
	providers []Provider
	writer    repository.DirectoryWriter
	owner     domain.UserID
	logger    *logging.Logger
	clock     func() time.Time
}

// Import queries providers and upserts the postings as active jobs
func (s *service) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	now := s.clock().UTC()

	if strings.TrimSpace(req.Query) == "" {
		return ImportResult{}, domain.Validation("query is required")
	}
	if len(s.providers) == 0 {
		return ImportResult{}, domain.Validation("no job providers are configured")
	}

	type key struct {
		source     string
		externalID string
	}
	dedup := make(map[key]domain.Job)
	order := make([]key, 0)
	sourceCount := 0
	var lastErr error

	for _, p := range s.providers {
		postings, err := p.Search(ctx, req.Query, req.Filters)
		if err != nil {
			s.logger.Warn("provider search failed", "provider", p.Name(), "error", err)
			lastErr = err
			continue
		}
		if len(postings) > 0 {
			sourceCount++
		}

		for _, posting := range postings {
			if posting.Source == "" {
				posting.Source = p.Name()
			}
			if posting.ExternalID == "" {
				continue
			}
			k := key{source: posting.Source, externalID: posting.ExternalID}
			if _, seen := dedup[k]; !seen {
				order = append(order, k)
			}
			dedup[k] = s.jobFromPosting(posting, now)
		}
	}

	if sourceCount == 0 && lastErr != nil {
		return ImportResult{}, domain.Dependency("job providers", lastErr)
	}

	jobs := make([]domain.Job, 0, len(order))
	for _, k := range order {
		job := dedup[k]
		if err := s.writer.UpsertJob(ctx, job); err != nil {
			return ImportResult{}, domain.Dependency("upsert job", err)
		}
		jobs = append(jobs, job)
	}

	s.logger.Info("jobs imported", "query", req.Query, "jobs", len(jobs), "sources", sourceCount)

	return ImportResult{
		Jobs:        jobs,
		FetchedAt:   now,
		SourceCount: sourceCount,
	}, nil
}

// PublishJob creates or replaces a job posting
func (s *service) PublishJob(ctx context.Context, in JobInput) (domain.Job, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Job{}, domain.Validation("title is required")
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return domain.Job{}, domain.Validation("company name is required")
	}
	if in.OwnerID == uuid.Nil {
		return domain.Job{}, domain.Validation("owner id is required")
	}

	status := in.Status
	if status == 0 {
		status = domain.JobActive
	}
	if !status.Valid() {
		return domain.Job{}, domain.Validation("unknown job status %d", uint8(status))
	}

	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	now := s.clock().UTC()
	job := domain.Job{
		ID:              id,
		CompanyID:       domain.CompanyIDFromName(in.CompanyName),
		OwnerID:         in.OwnerID,
		Title:           strings.TrimSpace(in.Title),
		Location:        in.Location,
		URL:             in.URL,
		Status:          status,
		RequiredSkills:  skillIDs(in.RequiredSkills),
		PreferredSkills: skillIDs(in.PreferredSkills),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.writer.UpsertJob(ctx, job); err != nil {
		return domain.Job{}, domain.Dependency("upsert job", err)
	}
	s.logger.Info("job published", "job_id", job.ID, "status", job.Status)
	return job, nil
}

// SetCandidateSkills replaces the skills a candidate holds
func (s *service) SetCandidateSkills(ctx context.Context, userID domain.UserID, skills []string) ([]domain.SkillID, error) {
	if userID == uuid.Nil {
		return nil, domain.Validation("user id is required")
	}
	ids := skillIDs(skills)
	if err := s.writer.SetCandidateSkills(ctx, userID, ids); err != nil {
		return nil, domain.Dependency("set candidate skills", err)
	}
	return ids, nil
}

func (s *service) jobFromPosting(p Posting, now time.Time) domain.Job {
	return domain.Job{
		ID:              domain.JobIDFromExternal(p.Source, p.ExternalID),
		CompanyID:       domain.CompanyIDFromName(p.CompanyName),
		OwnerID:         s.owner,
		Title:           p.Title,
		Location:        p.Location,
		URL:             p.URL,
		Status:          domain.JobActive,
		RequiredSkills:  skillIDs(p.RequiredSkills),
		PreferredSkills: skillIDs(p.PreferredSkills),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// skillIDs maps names to ids, dropping blanks and repeats while keeping order
func skillIDs(names []string) []domain.SkillID {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[domain.SkillID]struct{}, len(names))
	out := make([]domain.SkillID, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		id := domain.SkillIDFromName(name)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
