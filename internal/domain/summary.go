package domain

import "time"

const (
	maxSummaryErrors = 25
	maxErrorLen      = 200
)

// RunSummary is the structured result of one batch run; the CLIs print it
// as JSON and the jobserver keeps the latest one in the cache.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Mode       string    `json:"mode"` // crawl | enrich
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	QueriesRun int `json:"queries_run"`
	Found      int `json:"found"`
	New        int `json:"new"`
	Duplicate  int `json:"duplicate"`
	Unchanged  int `json:"unchanged"`
	ErrorCount int `json:"error_count"`

	CategoriesAssigned  int `json:"categories_assigned"`
	TagsAssigned        int `json:"tags_assigned"`
	CollectionsAssigned int `json:"collections_assigned"`

	QueriesUsed []string `json:"queries_used,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// AddError records a failure without letting the summary grow unbounded.
// ErrorCount keeps the true total even after the list is capped.
func (s *RunSummary) AddError(msg string) {
	s.ErrorCount++
	if len(s.Errors) >= maxSummaryErrors {
		return
	}
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	s.Errors = append(s.Errors, msg)
}
