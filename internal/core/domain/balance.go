package domain

import "github.com/shopspring/decimal"

// AccountBalance holds the aggregate posted activity for one account.
// Balance is debit minus credit.
type AccountBalance struct {
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.Decimal
}

// TrialBalance maps account IDs to their aggregate balances. It is
// recomputed fresh on every query and never cached.
type TrialBalance map[int64]AccountBalance

// DebitTotal sums debits across every account.
func (tb TrialBalance) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range tb {
		total = total.Add(b.Debit)
	}
	return total
}

// CreditTotal sums credits across every account.
func (tb TrialBalance) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range tb {
		total = total.Add(b.Credit)
	}
	return total
}
