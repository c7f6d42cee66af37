package adzuna

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{AppID: "id"})
	assert.Error(t, err)
}

func TestSearchJobs(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"count": 2,
			"results": [
				{
					"id": "4242",
					"title": "Backend Engineer",
					"company": {"display_name": "Acme"},
					"location": {"display_name": "Portland, OR"},
					"description": "Go and PostgreSQL",
					"created": "2025-01-02T03:04:05Z",
					"redirect_url": "https://example.test/4242",
					"contract_time": "full_time",
					"category": {"label": "IT Jobs"}
				},
				{
					"id": "4243",
					"title": "Remote Go Developer",
					"company": {"display_name": "Initech"},
					"location": {"display_name": "US"}
				},
				{"id": "", "title": "No id"}
			]
		}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{AppID: "id", AppKey: "key", Country: "gb", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	remote := true
	jobs, err := client.SearchJobs(context.Background(), "golang", SearchParams{
		Location:   "Portland",
		Remote:     &remote,
		Skills:     []string{"go", "postgresql"},
		Page:       2,
		MaxDaysOld: 14,
		SortBy:     "date",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/api/jobs/gb/search/2", gotPath)
	assert.Equal(t, "golang", gotQuery.Get("what"))
	assert.Equal(t, "Portland", gotQuery.Get("where"))
	assert.Equal(t, "remote", gotQuery.Get("what_and"))
	assert.Equal(t, "go postgresql", gotQuery.Get("what_or"))
	assert.Equal(t, "14", gotQuery.Get("max_days_old"))
	assert.Equal(t, "date", gotQuery.Get("sort_by"))
	assert.Equal(t, "20", gotQuery.Get("results_per_page"))

	require.Len(t, jobs, 2)
	job := jobs[0]
	assert.Equal(t, "4242", job.ID)
	assert.Equal(t, "Acme", job.CompanyName)
	assert.Equal(t, "Portland, OR", job.Location)
	assert.Equal(t, "IT Jobs", job.Category)
	assert.Equal(t, 2025, job.PostedAt.Year())
	assert.Equal(t, "full_time", job.ContractTime)
	assert.False(t, job.Remote)
	assert.False(t, job.FetchedAt.IsZero())

	assert.True(t, jobs[1].Remote)
	assert.True(t, jobs[1].PostedAt.IsZero())
}

func TestSearchJobsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{AppID: "id", AppKey: "key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.SearchJobs(context.Background(), "golang", SearchParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSearchJobsRequiresQuery(t *testing.T) {
	client, err := NewClient(Config{AppID: "id", AppKey: "key"})
	require.NoError(t, err)

	_, err = client.SearchJobs(context.Background(), "", SearchParams{})
	assert.Error(t, err)
}
