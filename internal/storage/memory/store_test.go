package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

func seedJob(t *testing.T, s *Store) domain.Job {
	t.Helper()
	job := domain.Job{ID: uuid.New(), CompanyID: uuid.New(), OwnerID: uuid.New(), Title: "SRE", Status: domain.JobActive}
	require.NoError(t, s.UpsertJob(context.Background(), job))
	return job
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	job := seedJob(t, s)
	boom := errors.New("boom")

	app := domain.Application{ID: uuid.New(), JobID: job.ID, ApplicantID: uuid.New(), Status: domain.StatusPending}
	err := s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		require.NoError(t, tx.InsertApplication(ctx, app))
		require.NoError(t, tx.IncrementApplicationCounter(ctx, job.ID, app.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetApplication(ctx, app.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ApplicationCount)
	assert.Empty(t, got.Applications)
}

func TestWithinTxCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithinTx(ctx, func(context.Context, repository.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestInsertApplicationUniquePair(t *testing.T) {
	s := New()
	ctx := context.Background()
	job := seedJob(t, s)
	applicant := uuid.New()

	insert := func(id uuid.UUID) error {
		return s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			return tx.InsertApplication(ctx, domain.Application{ID: id, JobID: job.ID, ApplicantID: applicant, Status: domain.StatusPending})
		})
	}
	require.NoError(t, insert(uuid.New()))
	assert.ErrorIs(t, insert(uuid.New()), repository.ErrUniqueViolation)
}

func TestUpdateApplicationStateCompareAndSet(t *testing.T) {
	s := New()
	ctx := context.Background()
	job := seedJob(t, s)
	app := domain.Application{ID: uuid.New(), JobID: job.ID, ApplicantID: uuid.New(), Status: domain.StatusPending}
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.InsertApplication(ctx, app)
	}))

	now := time.Now().UTC()
	err := s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.UpdateApplicationState(ctx, repository.StateUpdate{
			ID: app.ID, Expected: domain.StatusReviewing, Status: domain.StatusInterviewed, UpdatedAt: now,
		})
	})
	assert.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.UpdateApplicationState(ctx, repository.StateUpdate{
			ID: app.ID, Expected: domain.StatusPending, Status: domain.StatusReviewing, UpdatedAt: now,
		})
	}))
	got, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewing, got.Status)
}

func TestUpsertJobKeepsCounters(t *testing.T) {
	s := New()
	ctx := context.Background()
	job := seedJob(t, s)
	appID := uuid.New()
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.IncrementApplicationCounter(ctx, job.ID, appID)
	}))

	job.Title = "Senior SRE"
	require.NoError(t, s.UpsertJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior SRE", got.Title)
	assert.Equal(t, 1, got.ApplicationCount)
	assert.Equal(t, []domain.ApplicationID{appID}, got.Applications)
}
