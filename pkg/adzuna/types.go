package adzuna

import (
	"net/http"
	"time"
)

// Config defines Adzuna API client settings
type Config struct {
	AppID      string
	AppKey     string
	Country    string
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int
}

// Client queries Adzuna job search API
type Client struct {
	appID      string
	appKey     string
	country    string
	baseURL    string
	httpClient *http.Client
	pageSize   int
}

// SearchParams describe a job search request
type SearchParams struct {
	Location string
	// Remote true adds "remote" to the words every result must contain
	Remote *bool
	// Skills are sent as what_or: a result needs at least one of them
	Skills []string
	// Page is 1-based; zero means the first page
	Page int
	// MaxDaysOld drops postings older than this many days; zero disables it
	MaxDaysOld int
	// SortBy is one of date, salary or relevance; empty keeps the API default
	SortBy string
}

type jobSearchResponse struct {
	Count   int          `json:"count"`
	Results []jobPosting `json:"results"`
}

type jobPosting struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Company      companySummary  `json:"company"`
	Location     locationSummary `json:"location"`
	Description  string          `json:"description"`
	Created      string          `json:"created"`
	RedirectURL  string          `json:"redirect_url"`
	ContractTime string          `json:"contract_time"`
	ContractType string          `json:"contract_type"`
	Category     struct {
		Label string `json:"label"`
	} `json:"category"`
	SalaryMin float64 `json:"salary_min"`
	SalaryMax float64 `json:"salary_max"`
}

type companySummary struct {
	DisplayName string `json:"display_name"`
}

type locationSummary struct {
	DisplayName string `json:"display_name"`
}

// Job is an Adzuna posting reduced to what the job directory stores
type Job struct {
	ID           string
	Title        string
	CompanyName  string
	Location     string
	URL          string
	Description  string
	Category     string
	ContractTime string // full_time or part_time when known
	Remote       bool
	PostedAt     time.Time
	SalaryMin    float64
	SalaryMax    float64
	FetchedAt    time.Time
}
