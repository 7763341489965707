// Package invariant holds the single numeric-tolerance predicate every
// balance comparison in the harness routes through. Currency rounding on the
// ledger side means exact equality is too strict; the epsilon absorbs it.
package invariant

import (
	"github.com/shopspring/decimal"

	"github.com/slms-dev/ledgercheck/internal/core/domain"
)

// DefaultTolerance matches the ledger's own rounding granularity of 0.01
// currency units.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Checker compares currency amounts within a configured epsilon.
type Checker struct {
	epsilon decimal.Decimal
}

// NewChecker builds a Checker with the given epsilon. A zero or negative
// epsilon falls back to DefaultTolerance.
func NewChecker(epsilon decimal.Decimal) Checker {
	if epsilon.LessThanOrEqual(decimal.Zero) {
		epsilon = DefaultTolerance
	}
	return Checker{epsilon: epsilon}
}

// WithinTolerance reports whether |a - b| <= epsilon.
func (c Checker) WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(c.epsilon)
}

// Diff returns |a - b| for diagnostics.
func (c Checker) Diff(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}

// TotalsBalanced reports whether the trial balance's global debit and credit
// totals agree within tolerance. This is the TB = GL conservation check.
func (c Checker) TotalsBalanced(tb domain.TrialBalance) bool {
	return c.WithinTolerance(tb.DebitTotal(), tb.CreditTotal())
}
