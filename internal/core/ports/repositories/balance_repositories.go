package repositories

import (
	"context"

	"github.com/slms-dev/ledgercheck/internal/core/domain"
)

// BalanceReader recomputes ledger aggregates directly from the persisted
// tables, bypassing the ledger's own reporting path. Its purpose is to catch
// divergence between what the ledger reports and what is actually stored.
type BalanceReader interface {
	// ResolveAccount maps a chart-of-accounts code to its numeric ID within
	// the reader's company. Returns apperrors.ErrNotFound when no live row
	// matches and apperrors.ErrAmbiguous when more than one does.
	ResolveAccount(ctx context.Context, code domain.AccountCode) (int64, error)

	// TrialBalance aggregates debit and credit per account over all posted,
	// non-deleted journal lines. Always computed fresh from current state.
	TrialBalance(ctx context.Context) (domain.TrialBalance, error)

	// Ping verifies database connectivity before any scenario runs.
	Ping(ctx context.Context) error
}
