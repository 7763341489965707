// Package dto defines the wire shapes of the ledger's HTTP API. Field names
// and nesting must match the external service exactly; these structs are the
// compatibility boundary.
package dto

import (
	"time"

	"github.com/slms-dev/ledgercheck/internal/core/domain"
)

const dateLayout = "2006-01-02"

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse unwraps the login envelope: {data:{accessToken, user:{id}}}.
type LoginResponse struct {
	Data struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID int64 `json:"id"`
		} `json:"user"`
	} `json:"data"`
}

// JournalDetailRequest is one line of a proposed entry. Amounts travel as
// JSON numbers, which is what the ledger parses.
type JournalDetailRequest struct {
	AccountID    int64   `json:"account_id" validate:"required"`
	DebitAmount  float64 `json:"debit_amount" validate:"gte=0"`
	CreditAmount float64 `json:"credit_amount" validate:"gte=0"`
	Description  string  `json:"description"`
}

// CreateJournalRequest is the body for POST /journals.
type CreateJournalRequest struct {
	EntryType   string                 `json:"entry_type" validate:"required"`
	EntryDate   string                 `json:"entry_date" validate:"required"`
	PostingDate string                 `json:"posting_date" validate:"required"`
	Description string                 `json:"description"`
	Details     []JournalDetailRequest `json:"details" validate:"required,min=2,dive"`
}

// CreateJournalResponse unwraps {data:{id}} from a successful creation.
type CreateJournalResponse struct {
	Data struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

// ReportResponse unwraps the {data:{...}} envelope around derived financial
// statements. The harness treats statement contents as opaque documents.
type ReportResponse struct {
	Data map[string]any `json:"data"`
}

// ToCreateJournalRequest converts a domain entry to its wire shape.
func ToCreateJournalRequest(e domain.JournalEntry) CreateJournalRequest {
	details := make([]JournalDetailRequest, len(e.Lines))
	for i, l := range e.Lines {
		details[i] = JournalDetailRequest{
			AccountID:    l.AccountID,
			DebitAmount:  l.Debit.InexactFloat64(),
			CreditAmount: l.Credit.InexactFloat64(),
			Description:  l.Memo,
		}
	}
	return CreateJournalRequest{
		EntryType:   e.Type,
		EntryDate:   e.EntryDate.Format(dateLayout),
		PostingDate: e.PostingDate.Format(dateLayout),
		Description: e.Description,
		Details:     details,
	}
}

// FormatReportDate renders a date the way the reports API expects its
// from_date/to_date query parameters.
func FormatReportDate(t time.Time) string {
	return t.Format(dateLayout)
}
