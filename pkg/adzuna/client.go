package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://api.adzuna.com"
	defaultCountry  = "us"
	defaultPageSize = 20
)

// NewClient instantiates an Adzuna API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.AppKey == "" {
		return nil, fmt.Errorf("adzuna: app_id and app_key are required")
	}

	country := cfg.Country
	if country == "" {
		country = defaultCountry
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		appID:      cfg.AppID,
		appKey:     cfg.AppKey,
		country:    country,
		baseURL:    baseURL,
		httpClient: httpClient,
		pageSize:   pageSize,
	}, nil
}

// SearchJobs queries Adzuna with keyword/location filters
func (c *Client) SearchJobs(ctx context.Context, query string, params SearchParams) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("adzuna: client is nil")
	}

	u, err := c.buildSearchURL(query, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("adzuna: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload jobSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("adzuna: decode response: %w", err)
	}

	fetchedAt := time.Now().UTC()
	jobs := make([]Job, 0, len(payload.Results))
	for _, posting := range payload.Results {
		// postings without an id cannot be deduplicated across imports
		if posting.ID == "" {
			continue
		}
		jobs = append(jobs, mapPosting(posting, fetchedAt))
	}

	return jobs, nil
}

func (c *Client) buildSearchURL(query string, params SearchParams) (string, error) {
	if query == "" {
		return "", fmt.Errorf("adzuna: query is required")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("adzuna: parse base url: %w", err)
	}

	page := params.Page
	if page <= 0 {
		page = 1
	}
	u.Path = path.Join(u.Path, "v1", "api", "jobs", c.country, "search", strconv.Itoa(page))

	values := url.Values{}
	values.Set("app_id", c.appID)
	values.Set("app_key", c.appKey)
	values.Set("what", query)
	values.Set("results_per_page", strconv.Itoa(c.pageSize))
	values.Set("content-type", "application/json")

	if params.Location != "" {
		values.Set("where", params.Location)
	}

	if params.Remote != nil && *params.Remote {
		values.Set("what_and", "remote")
	}
	if len(params.Skills) > 0 {
		values.Set("what_or", strings.Join(params.Skills, " "))
	}
	if params.MaxDaysOld > 0 {
		values.Set("max_days_old", strconv.Itoa(params.MaxDaysOld))
	}
	if params.SortBy != "" {
		values.Set("sort_by", params.SortBy)
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}

func mapPosting(posting jobPosting, fetchedAt time.Time) Job {
	job := Job{
		ID:           posting.ID,
		Title:        posting.Title,
		CompanyName:  posting.Company.DisplayName,
		Location:     posting.Location.DisplayName,
		URL:          posting.RedirectURL,
		Description:  posting.Description,
		Category:     posting.Category.Label,
		ContractTime: posting.ContractTime,
		Remote:       isRemote(posting),
		SalaryMin:    posting.SalaryMin,
		SalaryMax:    posting.SalaryMax,
		FetchedAt:    fetchedAt,
	}

	if posting.Created != "" {
		if ts, err := time.Parse(time.RFC3339, posting.Created); err == nil {
			job.PostedAt = ts
		}
	}

	return job
}

// isRemote guesses from free text; Adzuna has no remote flag
func isRemote(posting jobPosting) bool {
	for _, field := range []string{posting.Title, posting.Location.DisplayName, posting.ContractType} {
		if strings.Contains(strings.ToLower(field), "remote") {
			return true
		}
	}
	return false
}
