// Package report accumulates per-scenario outcomes, renders the human
// summary and serializes the run artifact.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/slms-dev/ledgercheck/internal/core/domain"
)

// Recorder is an append-only log of scenario results. Results keep their
// insertion order; nothing is ever mutated after Record returns.
type Recorder struct {
	results []domain.ScenarioResult
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one scenario outcome. entryID may be nil when the scenario
// never created an entry.
func (r *Recorder) Record(name string, passed bool, details string, entryID *int64) {
	r.results = append(r.results, domain.ScenarioResult{
		Name:      name,
		Passed:    passed,
		Details:   details,
		EntryID:   entryID,
		Timestamp: time.Now().UTC(),
	})
}

// Results returns a copy of the run log in insertion order.
func (r *Recorder) Results() []domain.ScenarioResult {
	out := make([]domain.ScenarioResult, len(r.results))
	copy(out, r.results)
	return out
}

// Summary recomputes the derived pass/fail view on demand.
func (r *Recorder) Summary() domain.RunSummary {
	s := domain.RunSummary{Total: len(r.results)}
	for _, res := range r.results {
		if res.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Passed) / float64(s.Total) * 100
	}
	return s
}

// AllPassed reports whether every recorded scenario passed. An empty run
// counts as failed; a harness that checked nothing proved nothing.
func (r *Recorder) AllPassed() bool {
	return len(r.results) > 0 && r.Summary().Failed == 0
}

// Render produces the human-readable run report. Failures carry their
// diagnostic text; entry IDs are shown wherever one was created.
func (r *Recorder) Render() string {
	s := r.Summary()
	var b strings.Builder

	rule := strings.Repeat("=", 70)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "LEDGER INVARIANT CHECK RESULTS\n")
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Passed: %d/%d\n", s.Passed, s.Total)
	fmt.Fprintf(&b, "Failed: %d/%d\n", s.Failed, s.Total)
	fmt.Fprintf(&b, "Success Rate: %.1f%%\n", s.SuccessRate)
	fmt.Fprintf(&b, "%s\n\n", rule)

	for _, res := range r.results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "[%s] %s\n", status, res.Name)
		if !res.Passed {
			fmt.Fprintf(&b, "       %s\n", res.Details)
		}
		if res.EntryID != nil {
			fmt.Fprintf(&b, "       entry ID: %d\n", *res.EntryID)
		}
	}

	return b.String()
}

// WriteFile persists the ordered run log as JSON.
func (r *Recorder) WriteFile(path string) error {
	data, err := json.MarshalIndent(r.results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results to %s: %w", path, err)
	}
	return nil
}

// Load reads a previously written run artifact back into memory. Round
// tripping through Load preserves order, outcomes and entry IDs.
func Load(path string) ([]domain.ScenarioResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file %s: %w", path, err)
	}
	var results []domain.ScenarioResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}
	return results, nil
}
