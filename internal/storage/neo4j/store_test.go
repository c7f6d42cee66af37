package neo4j

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
	pkgneo4j "github.com/honeycarbs/jobmatch/pkg/neo4j"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set; skipping neo4j integration test")
	}

	client, err := pkgneo4j.NewClient(pkgneo4j.Config{
		URI:      uri,
		Username: os.Getenv("NEO4J_USERNAME"),
		Password: os.Getenv("NEO4J_PASSWORD"),
		Database: os.Getenv("NEO4J_DATABASE"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	s := NewStore(client)
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestStoreIntegration(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	job := domain.Job{
		ID:              uuid.New(),
		CompanyID:       uuid.New(),
		OwnerID:         uuid.New(),
		Title:           "Graph Engineer",
		Status:          domain.JobActive,
		RequiredSkills:  []domain.SkillID{domain.SkillIDFromName("cypher"), domain.SkillIDFromName("go")},
		PreferredSkills: []domain.SkillID{domain.SkillIDFromName("kotlin")},
	}
	require.NoError(t, s.UpsertJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.RequiredSkills, got.RequiredSkills)
	assert.Equal(t, job.PreferredSkills, got.PreferredSkills)

	applicant := uuid.New()
	app := domain.Application{
		ID: uuid.New(), JobID: job.ID, ApplicantID: applicant, CompanyID: job.CompanyID,
		Status: domain.StatusPending, MatchScore: 50, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.InsertApplication(ctx, app); err != nil {
			return err
		}
		return tx.IncrementApplicationCounter(ctx, job.ID, app.ID)
	}))

	dup := app
	dup.ID = uuid.New()
	err = s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.InsertApplication(ctx, dup)
	})
	assert.ErrorIs(t, err, repository.ErrUniqueViolation)

	got, err = s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ApplicationCount)
	assert.Equal(t, []domain.ApplicationID{app.ID}, got.Applications)

	err = s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.UpdateApplicationState(ctx, repository.StateUpdate{
			ID: app.ID, Expected: domain.StatusReviewing, Status: domain.StatusInterviewed, UpdatedAt: now,
		})
	})
	assert.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.UpdateApplicationState(ctx, repository.StateUpdate{
			ID: app.ID, Expected: domain.StatusPending, Status: domain.StatusReviewing, UpdatedAt: now,
		}); err != nil {
			return err
		}
		return tx.AppendNote(ctx, app.ID, domain.Note{Content: "moved", CreatedAt: now})
	}))

	stored, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewing, stored.Status)
	require.Len(t, stored.Notes, 1)
	assert.Equal(t, "moved", stored.Notes[0].Content)
}
