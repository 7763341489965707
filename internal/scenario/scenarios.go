package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/slms-dev/ledgercheck/internal/core/domain"
)

// Pipeline returns the ordered scenario set. Order matters: every scenario
// leaves its entries on the books and later checks build on that state.
//
//  1. Balanced capital entry     — posts cleanly, global debits == credits.
//  2. Unbalanced entry rejected  — creation must be refused with a 4xx.
//  3. Revenue transaction        — revenue credit grows by the amount.
//  4. Expense transaction        — expense debit grows by the amount.
//  5. COGS transaction           — COGS debit grows by the amount.
//  6. Period-end accrual         — expense debit and liability credit grow.
//  7. Statement retrieval        — ledger's own reports are obtainable.
//  8. Cross-validation TB = GL   — global conservation over the whole run.
func Pipeline() []Scenario {
	return []Scenario{
		{Name: "Scenario 1: Basic Balanced Entry", Run: balancedCapitalEntry},
		{Name: "Scenario 2: Unbalanced Entry Rejection", Run: unbalancedEntryRejected},
		{Name: "Scenario 3: Revenue Transaction", Run: revenueTransaction},
		{Name: "Scenario 4: Expense Transaction", Run: expenseTransaction},
		{Name: "Scenario 5: COGS Transaction", Run: cogsTransaction},
		{Name: "Scenario 6: Period-End Accrual", Run: periodEndAccrual},
		{Name: "Scenario 7: Statement Retrieval", Run: statementRetrieval},
		{Name: "Cross-Validation: TB = GL", Run: crossValidation},
	}
}

// twoLineEntry assembles the standard debit-one-account, credit-another
// entry every transactional scenario uses.
func twoLineEntry(env *Env, description string, debitAccount, creditAccount int64, amount decimal.Decimal, debitMemo, creditMemo string) domain.JournalEntry {
	today := env.now()
	return domain.JournalEntry{
		Type:        env.Fixture.EntryType,
		EntryDate:   today,
		PostingDate: today,
		Description: description,
		Lines: []domain.JournalLine{
			{AccountID: debitAccount, Debit: amount, Credit: decimal.Zero, Memo: debitMemo},
			{AccountID: creditAccount, Debit: decimal.Zero, Credit: amount, Memo: creditMemo},
		},
	}
}

// submitAndPost runs the SUBMIT and POST stages. On any failure it returns a
// ready-made failing outcome; otherwise the created entry's ID.
func submitAndPost(ctx context.Context, env *Env, entry domain.JournalEntry) (*int64, *Outcome) {
	res := env.Ledger.SubmitEntry(ctx, entry)
	if !res.Accepted() {
		out := failf("failed to create entry: %s", res)
		out.EntryID = res.EntryID
		return nil, &out
	}
	if err := env.Ledger.PostEntry(ctx, *res.EntryID); err != nil {
		out := failf("failed to post entry: %v", err)
		out.EntryID = res.EntryID
		return nil, &out
	}
	return res.EntryID, nil
}

// balanceOf treats accounts with no posted activity as all-zero.
func balanceOf(tb domain.TrialBalance, accountID int64) domain.AccountBalance {
	if b, ok := tb[accountID]; ok {
		return b
	}
	return domain.AccountBalance{Debit: decimal.Zero, Credit: decimal.Zero, Balance: decimal.Zero}
}

// balancedCapitalEntry posts an initial-capital entry and checks that the
// whole ledger still balances afterwards.
func balancedCapitalEntry(ctx context.Context, env *Env) Outcome {
	cashID, err := env.Balances.ResolveAccount(ctx, env.Fixture.CashCode)
	if err != nil {
		return failf("account resolution: %v", err)
	}
	capitalID, err := env.Balances.ResolveAccount(ctx, env.Fixture.CapitalCode)
	if err != nil {
		return failf("account resolution: %v", err)
	}

	entry := twoLineEntry(env, "Initial capital contribution",
		cashID, capitalID, env.Fixture.Capital,
		"Received initial capital", "Initial capital contribution")

	entryID, fail := submitAndPost(ctx, env, entry)
	if fail != nil {
		return *fail
	}

	tb, err := env.Balances.TrialBalance(ctx)
	if err != nil {
		return Outcome{Passed: false, Details: fmt.Sprintf("trial balance query: %v", err), EntryID: entryID}
	}

	debit, credit := tb.DebitTotal(), tb.CreditTotal()
	return Outcome{
		Passed:  env.Check.WithinTolerance(debit, credit),
		Details: fmt.Sprintf("Debit: %s | Credit: %s", debit, credit),
		EntryID: entryID,
	}
}

// unbalancedEntryRejected submits an entry whose legs do not match and
// passes only when the ledger refuses it at creation time with a 4xx. This
// is the one scenario where the operation failing is the passing condition:
// it validates the ledger's balance-enforcement contract. An acceptance and
// a transport error both fail it.
func unbalancedEntryRejected(ctx context.Context, env *Env) Outcome {
	cashID, err := env.Balances.ResolveAccount(ctx, env.Fixture.CashCode)
	if err != nil {
		return failf("account resolution: %v", err)
	}
	capitalID, err := env.Balances.ResolveAccount(ctx, env.Fixture.CapitalCode)
	if err != nil {
		return failf("account resolution: %v", err)
	}

	today := env.now()
	entry := domain.JournalEntry{
		Type:        env.Fixture.EntryType,
		EntryDate:   today,
		PostingDate: today,
		Description: "Deliberately unbalanced entry",
		Lines: []domain.JournalLine{
			{AccountID: cashID, Debit: env.Fixture.UnbalancedDebit, Credit: decimal.Zero, Memo: "Unbalanced debit"},
			{AccountID: capitalID, Debit: decimal.Zero, Credit: env.Fixture.UnbalancedCredit, Memo: "Only partial credit"},
		},
	}

	res := env.Ledger.SubmitEntry(ctx, entry)
	switch {
	case res.Rejected():
		return Outcome{Passed: true, Details: fmt.Sprintf("ledger refused unbalanced entry: %s", res)}
	case res.Accepted():
		return Outcome{Passed: false, Details: "ledger accepted an unbalanced entry", EntryID: res.EntryID}
	default:
		return failf("could not observe a rejection: %s", res)
	}
}

// verifyDelta posts a two-line entry and checks that the watched side of the
// watched account grew by exactly the transacted amount. Comparing deltas
// against a pre-submission snapshot keeps re-runs against a dirty tenant
// honest.
func verifyDelta(ctx context.Context, env *Env, description string, debitCode, creditCode domain.AccountCode, amount decimal.Decimal, watchCode domain.AccountCode, watchCredit bool, debitMemo, creditMemo string) Outcome {
	debitID, err := env.Balances.ResolveAccount(ctx, debitCode)
	if err != nil {
		return failf("account resolution: %v", err)
	}
	creditID, err := env.Balances.ResolveAccount(ctx, creditCode)
	if err != nil {
		return failf("account resolution: %v", err)
	}
	watchID := debitID
	if watchCode == creditCode {
		watchID = creditID
	}

	before, err := env.Balances.TrialBalance(ctx)
	if err != nil {
		return failf("trial balance snapshot: %v", err)
	}

	entry := twoLineEntry(env, description, debitID, creditID, amount, debitMemo, creditMemo)
	entryID, fail := submitAndPost(ctx, env, entry)
	if fail != nil {
		return *fail
	}

	after, err := env.Balances.TrialBalance(ctx)
	if err != nil {
		return Outcome{Passed: false, Details: fmt.Sprintf("trial balance query: %v", err), EntryID: entryID}
	}

	var delta decimal.Decimal
	var side string
	if watchCredit {
		delta = balanceOf(after, watchID).Credit.Sub(balanceOf(before, watchID).Credit)
		side = "credit"
	} else {
		delta = balanceOf(after, watchID).Debit.Sub(balanceOf(before, watchID).Debit)
		side = "debit"
	}

	return Outcome{
		Passed:  env.Check.WithinTolerance(delta, amount),
		Details: fmt.Sprintf("account %s %s delta: %s (expected %s)", watchCode, side, delta, amount),
		EntryID: entryID,
	}
}

func revenueTransaction(ctx context.Context, env *Env) Outcome {
	fx := env.Fixture
	return verifyDelta(ctx, env, "Cash sale",
		fx.CashCode, fx.SalesRevenueCode, fx.Revenue,
		fx.SalesRevenueCode, true,
		"Cash received from sales", "Revenue from sales")
}

func expenseTransaction(ctx context.Context, env *Env) Outcome {
	fx := env.Fixture
	return verifyDelta(ctx, env, "Monthly salaries",
		fx.SalaryExpenseCode, fx.CashCode, fx.Expense,
		fx.SalaryExpenseCode, false,
		"Monthly salary expense", "Cash paid for salaries")
}

func cogsTransaction(ctx context.Context, env *Env) Outcome {
	fx := env.Fixture
	return verifyDelta(ctx, env, "Inventory sold at cost",
		fx.COGSCode, fx.CashCode, fx.COGS,
		fx.COGSCode, false,
		"Cost of goods sold", "Cash paid for inventory")
}

// periodEndAccrual books a utilities accrual and verifies both legs landed:
// the expense side as a debit and the liability side as a credit.
func periodEndAccrual(ctx context.Context, env *Env) Outcome {
	fx := env.Fixture

	expenseID, err := env.Balances.ResolveAccount(ctx, fx.UtilitiesExpenseCode)
	if err != nil {
		return failf("account resolution: %v", err)
	}
	liabilityID, err := env.Balances.ResolveAccount(ctx, fx.AccruedExpensesCode)
	if err != nil {
		return failf("account resolution: %v", err)
	}

	before, err := env.Balances.TrialBalance(ctx)
	if err != nil {
		return failf("trial balance snapshot: %v", err)
	}

	entry := twoLineEntry(env, "Period-end utilities accrual",
		expenseID, liabilityID, fx.Accrual,
		"Accrued utilities expense", "Utilities payable")
	entryID, fail := submitAndPost(ctx, env, entry)
	if fail != nil {
		return *fail
	}

	after, err := env.Balances.TrialBalance(ctx)
	if err != nil {
		return Outcome{Passed: false, Details: fmt.Sprintf("trial balance query: %v", err), EntryID: entryID}
	}

	expenseDelta := balanceOf(after, expenseID).Debit.Sub(balanceOf(before, expenseID).Debit)
	liabilityDelta := balanceOf(after, liabilityID).Credit.Sub(balanceOf(before, liabilityID).Credit)

	passed := env.Check.WithinTolerance(expenseDelta, fx.Accrual) &&
		env.Check.WithinTolerance(liabilityDelta, fx.Accrual)
	return Outcome{
		Passed: passed,
		Details: fmt.Sprintf("expense debit delta: %s | liability credit delta: %s (expected %s)",
			expenseDelta, liabilityDelta, fx.Accrual),
		EntryID: entryID,
	}
}

// statementRetrieval asks the ledger for its own derived statements. The
// harness treats the documents as opaque; what it verifies is that the
// reporting path works at all after the scenarios mutated the books.
func statementRetrieval(ctx context.Context, env *Env) Outcome {
	now := env.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	income, err := env.Ledger.IncomeStatement(ctx, monthStart, now)
	if err != nil {
		return failf("income statement: %v", err)
	}
	if income == nil {
		return failf("income statement came back empty")
	}

	sheet, err := env.Ledger.BalanceSheet(ctx)
	if err != nil {
		return failf("balance sheet: %v", err)
	}
	if sheet == nil {
		return failf("balance sheet came back empty")
	}

	return Outcome{
		Passed:  true,
		Details: fmt.Sprintf("income statement fields: %d | balance sheet fields: %d", len(income), len(sheet)),
	}
}

// crossValidation is the run's top-level conservation check: after every
// scenario has left its marks, global trial-balance debits must still equal
// credits.
func crossValidation(ctx context.Context, env *Env) Outcome {
	tb, err := env.Balances.TrialBalance(ctx)
	if err != nil {
		return failf("trial balance query: %v", err)
	}

	debit, credit := tb.DebitTotal(), tb.CreditTotal()
	return Outcome{
		Passed:  env.Check.WithinTolerance(debit, credit),
		Details: fmt.Sprintf("Total Debit: %s | Total Credit: %s | Difference: %s", debit, credit, env.Check.Diff(debit, credit)),
	}
}
