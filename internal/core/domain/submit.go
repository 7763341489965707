package domain

import "fmt"

// SubmitOutcome discriminates the three ways entry submission can end.
// "Rejected" (the ledger refused the entry) and "Errored" (the harness never
// got a usable answer) are deliberately distinct: the unbalanced-entry
// scenario passes only on a genuine rejection.
type SubmitOutcome string

const (
	SubmitAccepted SubmitOutcome = "ACCEPTED"
	SubmitRejected SubmitOutcome = "REJECTED"
	SubmitErrored  SubmitOutcome = "ERRORED"
)

// SubmitResult is the outcome of proposing a journal entry to the ledger.
type SubmitResult struct {
	Outcome    SubmitOutcome
	EntryID    *int64 // set only when Outcome is SubmitAccepted
	StatusCode int    // HTTP status observed, 0 on transport error
	Reason     string // rejection body or transport error text
}

// Accepted reports whether the ledger created the entry.
func (r SubmitResult) Accepted() bool { return r.Outcome == SubmitAccepted }

// Rejected reports whether the ledger explicitly refused the entry.
func (r SubmitResult) Rejected() bool { return r.Outcome == SubmitRejected }

func (r SubmitResult) String() string {
	switch r.Outcome {
	case SubmitAccepted:
		if r.EntryID != nil {
			return fmt.Sprintf("accepted (entry %d)", *r.EntryID)
		}
		return "accepted"
	case SubmitRejected:
		return fmt.Sprintf("rejected (status %d): %s", r.StatusCode, r.Reason)
	default:
		return fmt.Sprintf("errored: %s", r.Reason)
	}
}
