package directory

import (
	"context"
	"time"
)

// Filters narrows a provider search
type Filters struct {
	Location string
	Remote   *bool
	// Skills are matched against posting text; hits become required skills,
	// the rest preferred
	Skills []string
}

// Posting is a job posting as returned by a provider, before it is mapped
// into the job directory
type Posting struct {
	Source          string
	ExternalID      string
	Title           string
	CompanyName     string
	Location        string
	URL             string
	RequiredSkills  []string
	PreferredSkills []string
	PostedAt        time.Time
}

// Provider represents an external job data source (Adzuna, a mock API, etc.)
type Provider interface {
	// e.g. "adzuna"
	Name() string

	// Search returns normalized postings for a query
	Search(ctx context.Context, query string, filters Filters) ([]Posting, error)
}
