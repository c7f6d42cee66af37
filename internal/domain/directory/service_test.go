package directory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/domain/directory"
	"github.com/honeycarbs/jobmatch/internal/repository"
	"github.com/honeycarbs/jobmatch/internal/storage/memory"
)

type stubProvider struct {
	name     string
	postings []directory.Posting
	err      error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(context.Context, string, directory.Filters) ([]directory.Posting, error) {
	return p.postings, p.err
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, store *memory.Store, owner domain.UserID, providers ...directory.Provider) directory.Service {
	t.Helper()
	svc, err := directory.NewService(
		directory.WithWriter(store),
		directory.WithProviders(providers...),
		directory.WithOwner(owner),
		directory.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresWriter(t *testing.T) {
	_, err := directory.NewService()
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	store := memory.New()
	owner := uuid.New()
	posting := directory.Posting{
		Source:          "stub",
		ExternalID:      "1",
		Title:           "Platform Engineer",
		CompanyName:     "Acme",
		RequiredSkills:  []string{"Go", "go", "SQL"},
		PreferredSkills: []string{"Kubernetes"},
	}
	failing := &stubProvider{name: "down", err: errors.New("unavailable")}
	ok := &stubProvider{name: "stub", postings: []directory.Posting{posting, posting, {Title: "no external id"}}}
	svc := newService(t, store, owner, failing, ok)

	ctx := context.Background()
	res, err := svc.Import(ctx, directory.ImportRequest{Query: "platform"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SourceCount)
	assert.Equal(t, fixedNow, res.FetchedAt)
	require.Len(t, res.Jobs, 1)

	job, err := store.GetJob(ctx, domain.JobIDFromExternal("stub", "1"))
	require.NoError(t, err)
	assert.Equal(t, owner, job.OwnerID)
	assert.Equal(t, domain.JobActive, job.Status)
	assert.Equal(t, domain.CompanyIDFromName("acme"), job.CompanyID)
	assert.Equal(t, []domain.SkillID{domain.SkillIDFromName("go"), domain.SkillIDFromName("sql")}, job.RequiredSkills)
	assert.Equal(t, []domain.SkillID{domain.SkillIDFromName("kubernetes")}, job.PreferredSkills)

	// re-importing the same posting keeps a single job
	_, err = svc.Import(ctx, directory.ImportRequest{Query: "platform"})
	require.NoError(t, err)
	_, err = store.GetJob(ctx, job.ID)
	require.NoError(t, err)
}

func TestImportErrors(t *testing.T) {
	store := memory.New()

	_, err := newService(t, store, uuid.New(), &stubProvider{name: "stub"}).Import(context.Background(), directory.ImportRequest{Query: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = newService(t, store, uuid.New()).Import(context.Background(), directory.ImportRequest{Query: "go"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = newService(t, store, uuid.New(), &stubProvider{name: "down", err: errors.New("unavailable")}).
		Import(context.Background(), directory.ImportRequest{Query: "go"})
	assert.ErrorIs(t, err, domain.ErrDependency)
}

func TestPublishJob(t *testing.T) {
	store := memory.New()
	svc := newService(t, store, uuid.Nil)
	ctx := context.Background()

	_, err := svc.PublishJob(ctx, directory.JobInput{CompanyName: "Acme", OwnerID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.PublishJob(ctx, directory.JobInput{Title: "SRE", CompanyName: "Acme"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	owner := uuid.New()
	job, err := svc.PublishJob(ctx, directory.JobInput{
		Title:          "SRE",
		CompanyName:    "Acme",
		OwnerID:        owner,
		RequiredSkills: []string{"linux", ""},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, domain.JobActive, job.Status)

	stored, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, stored.OwnerID)
	assert.Equal(t, []domain.SkillID{domain.SkillIDFromName("linux")}, stored.RequiredSkills)

	paused, err := svc.PublishJob(ctx, directory.JobInput{
		ID: job.ID, Title: "SRE", CompanyName: "Acme", OwnerID: owner, Status: domain.JobPaused,
	})
	require.NoError(t, err)
	assert.Equal(t, job.ID, paused.ID)

	stored, err = store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobPaused, stored.Status)
}

func TestSetCandidateSkills(t *testing.T) {
	store := memory.New()
	svc := newService(t, store, uuid.Nil)
	ctx := context.Background()

	_, err := svc.SetCandidateSkills(ctx, uuid.Nil, []string{"go"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	user := uuid.New()
	ids, err := svc.SetCandidateSkills(ctx, user, []string{"Go", "  go ", "Rust"})
	require.NoError(t, err)
	assert.Equal(t, []domain.SkillID{domain.SkillIDFromName("go"), domain.SkillIDFromName("rust")}, ids)

	var stored []domain.SkillID
	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		stored, err = tx.GetCandidateSkills(ctx, user)
		return err
	}))
	assert.ElementsMatch(t, ids, stored)
}
