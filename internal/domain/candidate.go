package domain

import "time"

// Candidate is one ranked search result: a résumé record with its aggregated
// similarity relevance and estimated experience.
type Candidate struct {
	ID              string
	FileName        string
	Relevance       float64
	ExperienceYears float64
	LastUpdated     time.Time
}

// SearchResult is a ranked page of candidates. TotalCount is the number of
// candidates that survived filtering before the page window was applied.
type SearchResult struct {
	Candidates []Candidate
	TotalCount int
}
