package domain

import "time"

// ScenarioResult records the outcome of one scenario. Results are immutable
// once recorded and keep their insertion order for the whole run.
type ScenarioResult struct {
	Name      string    `json:"name"`
	Passed    bool      `json:"passed"`
	Details   string    `json:"details"`
	EntryID   *int64    `json:"entry_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RunSummary is a derived view over all recorded results. It is recomputed
// on demand rather than stored.
type RunSummary struct {
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	Total       int     `json:"total"`
	SuccessRate float64 `json:"success_rate"`
}
