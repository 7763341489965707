package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one leg of a proposed journal entry. Exactly one of Debit
// or Credit is expected to be non-zero per accounting convention; enforcing
// that is the ledger's job, not the harness's.
type JournalLine struct {
	AccountID int64
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// JournalEntry is a proposed entry the harness submits to the ledger. The
// ledger owns all durable entry state; the harness only proposes entries and
// observes their effect on the books.
type JournalEntry struct {
	Type        string
	EntryDate   time.Time
	PostingDate time.Time
	Description string
	Lines       []JournalLine
}

// DebitTotal sums the debit side of the entry.
func (e JournalEntry) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// CreditTotal sums the credit side of the entry.
func (e JournalEntry) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}
