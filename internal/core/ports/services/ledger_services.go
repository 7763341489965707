package services

import (
	"context"
	"time"

	"github.com/slms-dev/ledgercheck/internal/core/domain"
)

// LedgerService is the authenticated HTTP surface of the external ledger as
// consumed by the harness. All calls are synchronous; the implementation is
// expected to impose its own per-call timeout.
type LedgerService interface {
	// Login exchanges credentials for a bearer token kept for subsequent
	// calls. A non-2xx response or transport failure is returned as an
	// error; the caller decides whether to abort the run.
	Login(ctx context.Context, email, password string) error

	// SubmitEntry proposes a journal entry for creation. The result
	// distinguishes acceptance, explicit rejection (4xx) and transport
	// failure; it never panics or returns a Go error.
	SubmitEntry(ctx context.Context, entry domain.JournalEntry) domain.SubmitResult

	// PostEntry transitions a created entry to posted status.
	PostEntry(ctx context.Context, entryID int64) error

	// IncomeStatement fetches the ledger's own income statement for the
	// period, used as an independent cross-check.
	IncomeStatement(ctx context.Context, from, to time.Time) (map[string]any, error)

	// BalanceSheet fetches the ledger's own balance sheet.
	BalanceSheet(ctx context.Context) (map[string]any, error)
}
