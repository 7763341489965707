// Package balances recomputes trial-balance aggregates straight from the
// ledger's persisted tables. It deliberately bypasses the ledger's reporting
// API so divergence between reported and stored state is catchable.
package balances

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/slms-dev/ledgercheck/internal/apperrors"
	"github.com/slms-dev/ledgercheck/internal/core/domain"
	portsrepo "github.com/slms-dev/ledgercheck/internal/core/ports/repositories"
)

// PgxBalanceReader reads the chart of accounts and journal detail tables for
// one company. Read-only; the harness never writes to the database.
type PgxBalanceReader struct {
	pool      *pgxpool.Pool
	companyID int64
	timeout   time.Duration
}

var _ portsrepo.BalanceReader = (*PgxBalanceReader)(nil)

// NewPgxBalanceReader creates a reader scoped to companyID. Every query runs
// under the given timeout.
func NewPgxBalanceReader(pool *pgxpool.Pool, companyID int64, timeout time.Duration) *PgxBalanceReader {
	return &PgxBalanceReader{pool: pool, companyID: companyID, timeout: timeout}
}

// Ping implements portsrepo.BalanceReader.
func (r *PgxBalanceReader) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: database ping: %v", apperrors.ErrConnectivity, err)
	}
	return nil
}

// ResolveAccount implements portsrepo.BalanceReader. Resolution must be
// unambiguous: zero live rows is ErrNotFound, more than one is ErrAmbiguous.
func (r *PgxBalanceReader) ResolveAccount(ctx context.Context, code domain.AccountCode) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id FROM chart_of_accounts
		WHERE account_code = $1 AND company_id = $2 AND deleted_at IS NULL;
	`

	rows, err := r.pool.Query(ctx, query, string(code), r.companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to query account code %s: %w", code, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to scan account row for code %s: %w", code, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating account rows for code %s: %w", code, err)
	}

	switch len(ids) {
	case 0:
		return 0, fmt.Errorf("%w: no account with code %s in company %d", apperrors.ErrNotFound, code, r.companyID)
	case 1:
		return ids[0], nil
	default:
		return 0, fmt.Errorf("%w: account code %s matches %d rows in company %d", apperrors.ErrAmbiguous, code, len(ids), r.companyID)
	}
}

// TrialBalance implements portsrepo.BalanceReader. Only lines of posted,
// non-deleted entries count, and deleted lines are excluded as well.
func (r *PgxBalanceReader) TrialBalance(ctx context.Context) (domain.TrialBalance, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT
			d.account_id,
			SUM(CASE WHEN d.debit_amount > 0 THEN d.debit_amount ELSE 0 END) AS total_debit,
			SUM(CASE WHEN d.credit_amount > 0 THEN d.credit_amount ELSE 0 END) AS total_credit
		FROM journal_entry_details d
		JOIN journal_entries e ON e.id = d.journal_entry_id
		WHERE d.company_id = $1
			AND d.deleted_at IS NULL
			AND e.company_id = $1
			AND e.status = 'posted'
			AND e.deleted_at IS NULL
		GROUP BY d.account_id;
	`

	rows, err := r.pool.Query(ctx, query, r.companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance for company %d: %w", r.companyID, err)
	}
	defer rows.Close()

	tb := domain.TrialBalance{}
	for rows.Next() {
		var accountID int64
		var debit, credit decimal.Decimal
		if err := rows.Scan(&accountID, &debit, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		tb[accountID] = domain.AccountBalance{
			Debit:   debit,
			Credit:  credit,
			Balance: debit.Sub(credit),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	return tb, nil
}
