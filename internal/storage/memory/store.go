// Package memory is an in-process Store used for local runs and tests.
// A transaction holds the store lock for its whole duration and works on a
// private copy of the data that replaces the live copy on commit.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type pairKey struct {
	job       domain.JobID
	applicant domain.UserID
}

type state struct {
	jobs          map[domain.JobID]domain.Job
	skills        map[domain.UserID][]domain.SkillID
	apps          map[domain.ApplicationID]domain.Application
	appOrder      []domain.ApplicationID
	pairs         map[pairKey]domain.ApplicationID
	notifications []domain.Notification
}

func newState() *state {
	return &state{
		jobs:   make(map[domain.JobID]domain.Job),
		skills: make(map[domain.UserID][]domain.SkillID),
		apps:   make(map[domain.ApplicationID]domain.Application),
		pairs:  make(map[pairKey]domain.ApplicationID),
	}
}

func (s *state) clone() *state {
	c := &state{
		jobs:          make(map[domain.JobID]domain.Job, len(s.jobs)),
		skills:        make(map[domain.UserID][]domain.SkillID, len(s.skills)),
		apps:          make(map[domain.ApplicationID]domain.Application, len(s.apps)),
		appOrder:      slices.Clone(s.appOrder),
		pairs:         make(map[pairKey]domain.ApplicationID, len(s.pairs)),
		notifications: slices.Clone(s.notifications),
	}
	for k, v := range s.jobs {
		c.jobs[k] = cloneJob(v)
	}
	for k, v := range s.skills {
		c.skills[k] = slices.Clone(v)
	}
	for k, v := range s.apps {
		c.apps[k] = cloneApplication(v)
	}
	for k, v := range s.pairs {
		c.pairs[k] = v
	}
	return c
}

// Store keeps everything in maps guarded by a single mutex
type Store struct {
	mu sync.Mutex
	st *state
}

// New returns an empty store
func New() *Store {
	return &Store{st: newState()}
}

// WithinTx runs fn against a private copy of the data and publishes the copy
// only when fn and the context both succeed.
func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(ctx, &tx{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) UpsertJob(_ context.Context, job domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.st.jobs[job.ID]; ok {
		job.ApplicationCount = existing.ApplicationCount
		job.Applications = existing.Applications
		job.CreatedAt = existing.CreatedAt
	}
	s.st.jobs[job.ID] = cloneJob(job)
	return nil
}

func (s *Store) SetCandidateSkills(_ context.Context, userID domain.UserID, skills []domain.SkillID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.skills[userID] = slices.Clone(skills)
	return nil
}

func (s *Store) GetJob(ctx context.Context, id domain.JobID) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&tx{st: s.st}).GetJob(ctx, id)
}

func (s *Store) GetApplication(ctx context.Context, id domain.ApplicationID) (domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&tx{st: s.st}).GetApplication(ctx, id)
}

func (s *Store) ListApplicationsByJob(_ context.Context, jobID domain.JobID, f repository.ApplicationFilter) ([]domain.Application, error) {
	return s.list(func(a domain.Application) bool { return a.JobID == jobID }, f), nil
}

func (s *Store) ListApplicationsByApplicant(_ context.Context, applicantID domain.UserID, f repository.ApplicationFilter) ([]domain.Application, error) {
	return s.list(func(a domain.Application) bool { return a.ApplicantID == applicantID }, f), nil
}

func (s *Store) list(match func(domain.Application) bool, f repository.ApplicationFilter) []domain.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Application, 0)
	for _, id := range s.st.appOrder {
		a := s.st.apps[id]
		if !match(a) {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		out = append(out, cloneApplication(a))
	}
	return out
}

func (s *Store) ListNotifications(_ context.Context, recipientID domain.UserID) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Notification, 0)
	for _, n := range s.st.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) Close(context.Context) error { return nil }

type tx struct {
	st *state
}

func (t *tx) GetJob(_ context.Context, id domain.JobID) (domain.Job, error) {
	j, ok := t.st.jobs[id]
	if !ok {
		return domain.Job{}, repository.ErrNotFound
	}
	return cloneJob(j), nil
}

func (t *tx) IncrementApplicationCounter(_ context.Context, jobID domain.JobID, applicationID domain.ApplicationID) error {
	j, ok := t.st.jobs[jobID]
	if !ok {
		return repository.ErrNotFound
	}
	j.ApplicationCount++
	j.Applications = append(slices.Clone(j.Applications), applicationID)
	t.st.jobs[jobID] = j
	return nil
}

func (t *tx) GetCandidateSkills(_ context.Context, userID domain.UserID) ([]domain.SkillID, error) {
	return slices.Clone(t.st.skills[userID]), nil
}

func (t *tx) GetApplication(_ context.Context, id domain.ApplicationID) (domain.Application, error) {
	a, ok := t.st.apps[id]
	if !ok {
		return domain.Application{}, repository.ErrNotFound
	}
	return cloneApplication(a), nil
}

func (t *tx) FindApplicationByPair(ctx context.Context, jobID domain.JobID, applicantID domain.UserID) (domain.Application, error) {
	id, ok := t.st.pairs[pairKey{jobID, applicantID}]
	if !ok {
		return domain.Application{}, repository.ErrNotFound
	}
	return t.GetApplication(ctx, id)
}

func (t *tx) InsertApplication(_ context.Context, app domain.Application) error {
	k := pairKey{app.JobID, app.ApplicantID}
	if _, dup := t.st.pairs[k]; dup {
		return repository.ErrUniqueViolation
	}
	if _, dup := t.st.apps[app.ID]; dup {
		return repository.ErrUniqueViolation
	}
	t.st.pairs[k] = app.ID
	t.st.apps[app.ID] = cloneApplication(app)
	t.st.appOrder = append(t.st.appOrder, app.ID)
	return nil
}

func (t *tx) UpdateApplicationState(_ context.Context, u repository.StateUpdate) error {
	a, ok := t.st.apps[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if a.Status != u.Expected {
		return repository.ErrConflict
	}
	a.Status = u.Status
	a.IsWithdrawn = u.IsWithdrawn
	a.WithdrawReason = u.WithdrawReason
	a.UpdatedAt = u.UpdatedAt
	t.st.apps[u.ID] = a
	return nil
}

func (t *tx) UpdateMatchScore(_ context.Context, id domain.ApplicationID, score int, updatedAt time.Time) error {
	a, ok := t.st.apps[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.MatchScore = score
	a.UpdatedAt = updatedAt
	t.st.apps[id] = a
	return nil
}

func (t *tx) AppendNote(_ context.Context, id domain.ApplicationID, note domain.Note) error {
	a, ok := t.st.apps[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Notes = append(slices.Clone(a.Notes), note)
	t.st.apps[id] = a
	return nil
}

func (t *tx) AppendInterview(_ context.Context, id domain.ApplicationID, iv domain.Interview) error {
	a, ok := t.st.apps[id]
	if !ok {
		return repository.ErrNotFound
	}
	iv.InterviewerIDs = slices.Clone(iv.InterviewerIDs)
	a.Interviews = append(slices.Clone(a.Interviews), iv)
	t.st.apps[id] = a
	return nil
}

func (t *tx) CreateNotification(_ context.Context, n domain.Notification) error {
	t.st.notifications = append(t.st.notifications, n)
	return nil
}

func cloneJob(j domain.Job) domain.Job {
	j.RequiredSkills = slices.Clone(j.RequiredSkills)
	j.PreferredSkills = slices.Clone(j.PreferredSkills)
	j.Applications = slices.Clone(j.Applications)
	return j
}

func cloneApplication(a domain.Application) domain.Application {
	a.Answers = slices.Clone(a.Answers)
	a.Notes = slices.Clone(a.Notes)
	ivs := make([]domain.Interview, len(a.Interviews))
	for i, iv := range a.Interviews {
		iv.InterviewerIDs = slices.Clone(iv.InterviewerIDs)
		ivs[i] = iv
	}
	if a.Interviews == nil {
		ivs = nil
	}
	a.Interviews = ivs
	return a
}
