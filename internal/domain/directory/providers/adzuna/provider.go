package adzuna

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/jobmatch/internal/domain/directory"
	"github.com/honeycarbs/jobmatch/pkg/adzuna"
)

const source = "adzuna"

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, query string, params adzuna.SearchParams) ([]adzuna.Job, error)
}

// Provider implements directory.Provider using Adzuna API
type Provider struct {
	client searchClient
}

// NewProvider builds an Adzuna provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return source
}

// Search queries Adzuna and returns normalized postings
func (p *Provider) Search(ctx context.Context, query string, filters directory.Filters) ([]directory.Posting, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("adzuna provider: client is nil")
	}

	params := adzuna.SearchParams{
		Location: filters.Location,
		Remote:   filters.Remote,
		Skills:   filters.Skills,
	}

	respJobs, err := p.client.SearchJobs(ctx, query, params)
	if err != nil {
		return nil, err
	}

	out := make([]directory.Posting, 0, len(respJobs))
	for _, j := range respJobs {
		required, preferred := splitSkills(j.Title+" "+j.Description, filters.Skills)
		out = append(out, directory.Posting{
			Source:          source,
			ExternalID:      j.ID,
			Title:           j.Title,
			CompanyName:     j.CompanyName,
			Location:        j.Location,
			URL:             j.URL,
			RequiredSkills:  required,
			PreferredSkills: preferred,
			PostedAt:        j.PostedAt,
		})
	}

	return out, nil
}

var _ directory.Provider = (*Provider)(nil)

// splitSkills treats the requested skills mentioned in the posting as
// required and the remaining ones as preferred
func splitSkills(text string, skills []string) (required, preferred []string) {
	text = strings.ToLower(text)
	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" {
			continue
		}
		if strings.Contains(text, s) {
			required = append(required, s)
		} else {
			preferred = append(preferred, s)
		}
	}
	return required, preferred
}
