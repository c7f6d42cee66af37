// Package application drives the application lifecycle: submission, review
// status changes, withdrawal, interviews, audit notes and match scoring.
// Every mutating use-case runs as a single store transaction.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/domain/matching"
	"github.com/honeycarbs/jobmatch/internal/domain/notification"
	"github.com/honeycarbs/jobmatch/internal/repository"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

const defaultMaxAttempts = 3

// Use-case names reported to logs and metrics
const (
	UseCaseSubmit            = "submit"
	UseCaseUpdateStatus      = "update_status"
	UseCaseWithdraw          = "withdraw"
	UseCaseScheduleInterview = "schedule_interview"
	UseCaseAddNote           = "add_note"
	UseCaseRecomputeScore    = "recompute_score"
)

// SubmitPayload carries the candidate supplied part of an application
type SubmitPayload struct {
	CoverLetter string
	ResumeURL   string
	Answers     []domain.Answer
}

// NoteInput is a free text note written by a user
type NoteInput struct {
	Content  string
	AuthorID domain.UserID
}

// InterviewInput describes an interview to schedule
type InterviewInput struct {
	Date           time.Time
	Location       string
	InterviewerIDs []domain.UserID
	Type           domain.InterviewType
	ScheduledBy    domain.UserID
}

type Service interface {
	Submit(ctx context.Context, jobID domain.JobID, applicantID domain.UserID, payload SubmitPayload) (domain.Application, error)
	UpdateStatus(ctx context.Context, id domain.ApplicationID, status Status, note *NoteInput) (domain.Application, error)
	Withdraw(ctx context.Context, id domain.ApplicationID, reason string) (domain.Application, error)
	ScheduleInterview(ctx context.Context, id domain.ApplicationID, in InterviewInput) (domain.Application, error)
	AddNote(ctx context.Context, id domain.ApplicationID, note NoteInput) (domain.Application, error)
	RecomputeMatchScore(ctx context.Context, id domain.ApplicationID) (domain.Application, error)
	ComputeMatchScore(required, preferred, candidate matching.SkillSet) int

	Get(ctx context.Context, id domain.ApplicationID) (domain.Application, error)
	ListByJob(ctx context.Context, jobID domain.JobID, status *Status) ([]domain.Application, error)
	ListByApplicant(ctx context.Context, applicantID domain.UserID, status *Status) ([]domain.Application, error)
	Notifications(ctx context.Context, recipientID domain.UserID) ([]domain.Notification, error)
}

// Recorder receives use-case outcomes
type Recorder interface {
	ObserveUseCase(useCase, outcome string, elapsed time.Duration)
	ObserveRetry(useCase string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUseCase(string, string, time.Duration) {}
func (nopRecorder) ObserveRetry(string)                          {}

// Settings tunes the coordinator
type Settings struct {
	TxMaxAttempts int
}

// Option configures Service
type Option func(*config)

type config struct {
	store       repository.Store
	logger      *logging.Logger
	recorder    Recorder
	clock       func() time.Time
	newID       func() uuid.UUID
	maxAttempts int
}

// WithStore sets the backing store
func WithStore(store repository.Store) Option {
	return func(c *config) {
		c.store = store
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithIDGenerator overrides how application and notification ids are minted
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(c *config) {
		c.newID = gen
	}
}

// WithMaxAttempts bounds how often a transaction is re-run after a conflict
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		c.maxAttempts = n
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock:       time.Now,
		newID:       uuid.New,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.store == nil {
		return nil, fmt.Errorf("application.Service: store is required")
	}
	if cfg.maxAttempts < 1 {
		return nil, fmt.Errorf("application.Service: max attempts must be positive, got %d", cfg.maxAttempts)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.recorder == nil {
		cfg.recorder = nopRecorder{}
	}

	return &service{
		store:       cfg.store,
		log:         cfg.logger.Named("application"),
		recorder:    cfg.recorder,
		clock:       cfg.clock,
		newID:       cfg.newID,
		maxAttempts: cfg.maxAttempts,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(store repository.Store, logger *logging.Logger, recorder Recorder, settings Settings) (Service, error) {
	attempts := settings.TxMaxAttempts
	if attempts == 0 {
		attempts = defaultMaxAttempts
	}
	return NewService(
		WithStore(store),
		WithLogger(logger),
		WithRecorder(recorder),
		WithMaxAttempts(attempts),
	)
}

type service struct {
	store       repository.Store
	log         *logging.Logger
	recorder    Recorder
	clock       func() time.Time
	newID       func() uuid.UUID
	maxAttempts int
}

func (s *service) Submit(
	ctx context.Context,
	jobID domain.JobID,
	applicantID domain.UserID,
	payload SubmitPayload,
) (domain.Application, error) {
	if err := validateSubmit(jobID, applicantID, payload); err != nil {
		return domain.Application{}, err
	}

	var created domain.Application
	err := s.run(ctx, UseCaseSubmit, func(ctx context.Context, tx repository.Tx) error {
		job, err := loadJob(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if job.Status != domain.JobActive {
			return domain.Wrap(domain.ErrJobInactive, fmt.Sprintf("job %s is %s", job.ID, job.Status), nil)
		}

		_, err = tx.FindApplicationByPair(ctx, jobID, applicantID)
		switch {
		case err == nil:
			return domain.ErrDuplicateApplication
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("find application by pair: %w", err)
		}

		candidate, err := tx.GetCandidateSkills(ctx, applicantID)
		if err != nil {
			return fmt.Errorf("get candidate skills: %w", err)
		}

		now := s.clock()
		app := domain.Application{
			ID:          s.newID(),
			JobID:       job.ID,
			ApplicantID: applicantID,
			CompanyID:   job.CompanyID,
			Status:      domain.StatusPending,
			CoverLetter: payload.CoverLetter,
			ResumeURL:   payload.ResumeURL,
			Answers:     payload.Answers,
			MatchScore:  matching.ScoreSkills(job.RequiredSkills, job.PreferredSkills, candidate),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := tx.InsertApplication(ctx, app); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return domain.ErrDuplicateApplication
			}
			return fmt.Errorf("insert application: %w", err)
		}
		if err := tx.IncrementApplicationCounter(ctx, job.ID, app.ID); err != nil {
			return fmt.Errorf("increment application counter: %w", err)
		}
		if err := tx.CreateNotification(ctx, notification.NewApplication(s.newID(), job, app, now)); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		created = app
		return nil
	}, "job_id", jobID, "applicant_id", applicantID)
	if err != nil {
		return domain.Application{}, err
	}
	return created, nil
}

func (s *service) UpdateStatus(
	ctx context.Context,
	id domain.ApplicationID,
	status Status,
	note *NoteInput,
) (domain.Application, error) {
	if id == uuid.Nil {
		return domain.Application{}, domain.Validation("application id is required")
	}
	if !status.Valid() {
		return domain.Application{}, domain.Validation("unknown status %d", uint8(status))
	}

	var updated domain.Application
	err := s.run(ctx, UseCaseUpdateStatus, func(ctx context.Context, tx repository.Tx) error {
		app, err := loadApplication(ctx, tx, id)
		if err != nil {
			return err
		}
		if !CanTransition(app.Status, status) {
			return domain.Wrap(domain.ErrInvalidTransition,
				fmt.Sprintf("cannot move application from %s to %s", app.Status, status), nil)
		}

		now := s.clock()
		if err := tx.UpdateApplicationState(ctx, repository.StateUpdate{
			ID:        app.ID,
			Expected:  app.Status,
			Status:    status,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("update application state: %w", err)
		}

		audit := auditNote(fmt.Sprintf("Status changed from %s to %s", app.Status, status), note, now)
		if err := tx.AppendNote(ctx, app.ID, audit); err != nil {
			return fmt.Errorf("append note: %w", err)
		}

		app.Status = status
		if err := tx.CreateNotification(ctx, notification.StatusUpdate(s.newID(), app, now)); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		updated, err = reload(ctx, tx, app.ID)
		return err
	}, "application_id", id, "status", status)
	if err != nil {
		return domain.Application{}, err
	}
	return updated, nil
}

func (s *service) Withdraw(ctx context.Context, id domain.ApplicationID, reason string) (domain.Application, error) {
	if id == uuid.Nil {
		return domain.Application{}, domain.Validation("application id is required")
	}
	reason = strings.TrimSpace(reason)

	var updated domain.Application
	err := s.run(ctx, UseCaseWithdraw, func(ctx context.Context, tx repository.Tx) error {
		app, err := loadApplication(ctx, tx, id)
		if err != nil {
			return err
		}
		if !CanWithdraw(app.Status) {
			return domain.Wrap(domain.ErrAlreadyTerminal,
				fmt.Sprintf("application is already %s", app.Status), nil)
		}
		job, err := loadJob(ctx, tx, app.JobID)
		if err != nil {
			return err
		}

		now := s.clock()
		if err := tx.UpdateApplicationState(ctx, repository.StateUpdate{
			ID:             app.ID,
			Expected:       app.Status,
			Status:         domain.StatusWithdrawn,
			IsWithdrawn:    true,
			WithdrawReason: reason,
			UpdatedAt:      now,
		}); err != nil {
			return fmt.Errorf("update application state: %w", err)
		}

		content := fmt.Sprintf("Application withdrawn from %s", app.Status)
		if reason != "" {
			content += ": " + reason
		}
		if err := tx.AppendNote(ctx, app.ID, domain.Note{Content: content, AuthorID: app.ApplicantID, CreatedAt: now}); err != nil {
			return fmt.Errorf("append note: %w", err)
		}
		if err := tx.CreateNotification(ctx, notification.Withdrawn(s.newID(), job, app, now)); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		updated, err = reload(ctx, tx, app.ID)
		return err
	}, "application_id", id)
	if err != nil {
		return domain.Application{}, err
	}
	return updated, nil
}

func (s *service) ScheduleInterview(ctx context.Context, id domain.ApplicationID, in InterviewInput) (domain.Application, error) {
	if id == uuid.Nil {
		return domain.Application{}, domain.Validation("application id is required")
	}
	if in.Date.IsZero() {
		return domain.Application{}, domain.Validation("interview date is required")
	}
	if !in.Type.Valid() {
		return domain.Application{}, domain.Validation("interview type is required")
	}

	var updated domain.Application
	err := s.run(ctx, UseCaseScheduleInterview, func(ctx context.Context, tx repository.Tx) error {
		app, err := loadApplication(ctx, tx, id)
		if err != nil {
			return err
		}
		if app.Status != domain.StatusInterviewed && !CanTransition(app.Status, domain.StatusInterviewed) {
			return domain.Wrap(domain.ErrInvalidTransition,
				fmt.Sprintf("cannot schedule an interview while application is %s", app.Status), nil)
		}
		job, err := loadJob(ctx, tx, app.JobID)
		if err != nil {
			return err
		}

		now := s.clock()
		if err := tx.UpdateApplicationState(ctx, repository.StateUpdate{
			ID:        app.ID,
			Expected:  app.Status,
			Status:    domain.StatusInterviewed,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("update application state: %w", err)
		}

		iv := domain.Interview{
			Date:           in.Date.UTC(),
			Location:       in.Location,
			InterviewerIDs: in.InterviewerIDs,
			Type:           in.Type,
			Status:         domain.InterviewScheduled,
		}
		if err := tx.AppendInterview(ctx, app.ID, iv); err != nil {
			return fmt.Errorf("append interview: %w", err)
		}

		audit := domain.Note{
			Content:   fmt.Sprintf("%s interview scheduled for %s", iv.Type, iv.Date.Format(time.RFC3339)),
			AuthorID:  in.ScheduledBy,
			CreatedAt: now,
		}
		if err := tx.AppendNote(ctx, app.ID, audit); err != nil {
			return fmt.Errorf("append note: %w", err)
		}
		if err := tx.CreateNotification(ctx, notification.InterviewScheduled(s.newID(), job, app, iv, now)); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		updated, err = reload(ctx, tx, app.ID)
		return err
	}, "application_id", id)
	if err != nil {
		return domain.Application{}, err
	}
	return updated, nil
}

func (s *service) AddNote(ctx context.Context, id domain.ApplicationID, note NoteInput) (domain.Application, error) {
	if id == uuid.Nil {
		return domain.Application{}, domain.Validation("application id is required")
	}
	content := strings.TrimSpace(note.Content)
	if content == "" {
		return domain.Application{}, domain.Validation("note content is required")
	}

	var updated domain.Application
	err := s.run(ctx, UseCaseAddNote, func(ctx context.Context, tx repository.Tx) error {
		if _, err := loadApplication(ctx, tx, id); err != nil {
			return err
		}
		n := domain.Note{Content: content, AuthorID: note.AuthorID, CreatedAt: s.clock()}
		if err := tx.AppendNote(ctx, id, n); err != nil {
			return fmt.Errorf("append note: %w", err)
		}
		var err error
		updated, err = reload(ctx, tx, id)
		return err
	}, "application_id", id)
	if err != nil {
		return domain.Application{}, err
	}
	return updated, nil
}

func (s *service) RecomputeMatchScore(ctx context.Context, id domain.ApplicationID) (domain.Application, error) {
	if id == uuid.Nil {
		return domain.Application{}, domain.Validation("application id is required")
	}

	var updated domain.Application
	err := s.run(ctx, UseCaseRecomputeScore, func(ctx context.Context, tx repository.Tx) error {
		app, err := loadApplication(ctx, tx, id)
		if err != nil {
			return err
		}
		job, err := loadJob(ctx, tx, app.JobID)
		if err != nil {
			return err
		}
		candidate, err := tx.GetCandidateSkills(ctx, app.ApplicantID)
		if err != nil {
			return fmt.Errorf("get candidate skills: %w", err)
		}

		score := matching.ScoreSkills(job.RequiredSkills, job.PreferredSkills, candidate)
		if err := tx.UpdateMatchScore(ctx, app.ID, score, s.clock()); err != nil {
			return fmt.Errorf("update match score: %w", err)
		}
		updated, err = reload(ctx, tx, app.ID)
		return err
	}, "application_id", id)
	if err != nil {
		return domain.Application{}, err
	}
	return updated, nil
}

func (s *service) ComputeMatchScore(required, preferred, candidate matching.SkillSet) int {
	return matching.Score(required, preferred, candidate)
}

func (s *service) Get(ctx context.Context, id domain.ApplicationID) (domain.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Application{}, domain.ErrApplicationNotFound
		}
		return domain.Application{}, domain.Dependency("get application", err)
	}
	return app, nil
}

func (s *service) ListByJob(ctx context.Context, jobID domain.JobID, status *Status) ([]domain.Application, error) {
	apps, err := s.store.ListApplicationsByJob(ctx, jobID, repository.ApplicationFilter{Status: status})
	if err != nil {
		return nil, domain.Dependency("list applications by job", err)
	}
	return apps, nil
}

func (s *service) ListByApplicant(ctx context.Context, applicantID domain.UserID, status *Status) ([]domain.Application, error) {
	apps, err := s.store.ListApplicationsByApplicant(ctx, applicantID, repository.ApplicationFilter{Status: status})
	if err != nil {
		return nil, domain.Dependency("list applications by applicant", err)
	}
	return apps, nil
}

func (s *service) Notifications(ctx context.Context, recipientID domain.UserID) ([]domain.Notification, error) {
	ns, err := s.store.ListNotifications(ctx, recipientID)
	if err != nil {
		return nil, domain.Dependency("list notifications", err)
	}
	return ns, nil
}

// run executes fn in a transaction, re-running it from scratch when the store
// reports a conflict. The returned error is always a *domain.Error or nil.
func (s *service) run(ctx context.Context, useCase string, fn repository.TxFunc, keyvals ...any) error {
	start := time.Now()
	log := s.log.With(append([]any{"use_case", useCase}, keyvals...)...)

	var err error
	for attempt := 1; ; attempt++ {
		err = s.store.WithinTx(ctx, fn)
		if err == nil || !errors.Is(err, repository.ErrConflict) || attempt >= s.maxAttempts {
			break
		}
		s.recorder.ObserveRetry(useCase)
		log.Debug("transaction conflict, retrying", "attempt", attempt)
	}

	err = classify(err)
	s.recorder.ObserveUseCase(useCase, outcome(err), time.Since(start))

	switch domain.KindOf(err) {
	case domain.KindUnknown:
		log.Info("use case completed")
	case domain.KindDependency:
		log.Error("use case failed", "error", err)
	default:
		log.Warn("use case rejected", "code", domain.CodeOf(err), "error", err)
	}
	return err
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindUnknown {
		return err
	}
	if errors.Is(err, repository.ErrConflict) {
		return domain.Dependency("transaction kept conflicting", err)
	}
	return domain.Dependency("store", err)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.CodeOf(err)
}

func loadJob(ctx context.Context, tx repository.Tx, id domain.JobID) (domain.Job, error) {
	job, err := tx.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Job{}, domain.Wrap(domain.ErrJobNotFound, fmt.Sprintf("job %s not found", id), nil)
		}
		return domain.Job{}, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func loadApplication(ctx context.Context, tx repository.Tx, id domain.ApplicationID) (domain.Application, error) {
	app, err := tx.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Application{}, domain.Wrap(domain.ErrApplicationNotFound, fmt.Sprintf("application %s not found", id), nil)
		}
		return domain.Application{}, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

func reload(ctx context.Context, tx repository.Tx, id domain.ApplicationID) (domain.Application, error) {
	app, err := tx.GetApplication(ctx, id)
	if err != nil {
		return domain.Application{}, fmt.Errorf("reload application: %w", err)
	}
	return app, nil
}

func auditNote(content string, note *NoteInput, now time.Time) domain.Note {
	n := domain.Note{Content: content, CreatedAt: now}
	if note == nil {
		return n
	}
	n.AuthorID = note.AuthorID
	if extra := strings.TrimSpace(note.Content); extra != "" {
		n.Content = content + ": " + extra
	}
	return n
}

func validateSubmit(jobID domain.JobID, applicantID domain.UserID, p SubmitPayload) error {
	if jobID == uuid.Nil {
		return domain.Validation("job id is required")
	}
	if applicantID == uuid.Nil {
		return domain.Validation("applicant id is required")
	}
	for i, a := range p.Answers {
		if strings.TrimSpace(a.Question) == "" {
			return domain.Validation("answer %d has an empty question", i+1)
		}
	}
	return nil
}
