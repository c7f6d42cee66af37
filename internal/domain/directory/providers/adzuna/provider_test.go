package adzuna

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobmatch/internal/domain/directory"
	"github.com/honeycarbs/jobmatch/pkg/adzuna"
)

type fakeClient struct {
	jobs   []adzuna.Job
	err    error
	params adzuna.SearchParams
}

func (f *fakeClient) SearchJobs(_ context.Context, _ string, params adzuna.SearchParams) ([]adzuna.Job, error) {
	f.params = params
	return f.jobs, f.err
}

func TestNewProviderRequiresClient(t *testing.T) {
	_, err := NewProvider(nil)
	assert.Error(t, err)
}

func TestSearchMapsPostings(t *testing.T) {
	client := &fakeClient{jobs: []adzuna.Job{{
		ID:          "77",
		Title:       "Go Developer",
		CompanyName: "Acme",
		Location:    "Remote",
		URL:         "https://example.test/77",
		Description: "We use Kubernetes and PostgreSQL.",
	}}}
	p, err := NewProvider(client)
	require.NoError(t, err)

	postings, err := p.Search(context.Background(), "go", directory.Filters{
		Location: "Oregon",
		Skills:   []string{"Go", "postgresql", "Rust", " "},
	})
	require.NoError(t, err)
	require.Len(t, postings, 1)

	got := postings[0]
	assert.Equal(t, "adzuna", got.Source)
	assert.Equal(t, "77", got.ExternalID)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, []string{"go", "postgresql"}, got.RequiredSkills)
	assert.Equal(t, []string{"rust"}, got.PreferredSkills)
	assert.Equal(t, "Oregon", client.params.Location)
}

func TestSearchPropagatesClientError(t *testing.T) {
	p, err := NewProvider(&fakeClient{err: errors.New("boom")})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "go", directory.Filters{})
	assert.EqualError(t, err, "boom")
}
