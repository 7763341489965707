package scenario

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slms-dev/ledgercheck/internal/apperrors"
	"github.com/slms-dev/ledgercheck/internal/core/domain"
	portsrepo "github.com/slms-dev/ledgercheck/internal/core/ports/repositories"
	portssvc "github.com/slms-dev/ledgercheck/internal/core/ports/services"
	"github.com/slms-dev/ledgercheck/internal/invariant"
	"github.com/slms-dev/ledgercheck/internal/report"
)

// --- Mock LedgerService ---

type MockLedger struct {
	mock.Mock
}

var _ portssvc.LedgerService = (*MockLedger)(nil)

func (m *MockLedger) Login(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *MockLedger) SubmitEntry(ctx context.Context, entry domain.JournalEntry) domain.SubmitResult {
	args := m.Called(ctx, entry)
	return args.Get(0).(domain.SubmitResult)
}

func (m *MockLedger) PostEntry(ctx context.Context, entryID int64) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockLedger) IncomeStatement(ctx context.Context, from, to time.Time) (map[string]any, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockLedger) BalanceSheet(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// --- Mock BalanceReader ---

type MockBalances struct {
	mock.Mock
}

var _ portsrepo.BalanceReader = (*MockBalances)(nil)

func (m *MockBalances) ResolveAccount(ctx context.Context, code domain.AccountCode) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalances) TrialBalance(ctx context.Context) (domain.TrialBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.TrialBalance), args.Error(1)
}

func (m *MockBalances) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- helpers ---

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func accepted(id int64) domain.SubmitResult {
	return domain.SubmitResult{Outcome: domain.SubmitAccepted, EntryID: &id, StatusCode: 201}
}

func newTestEnv(ledger *MockLedger, balances *MockBalances) *Env {
	fixed := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return &Env{
		Ledger:   ledger,
		Balances: balances,
		Check:    invariant.NewChecker(decimal.RequireFromString("0.01")),
		Fixture:  DefaultFixture(),
		Clock:    func() time.Time { return fixed },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestBalancedCapitalEntryPasses(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, domain.CodeCash).Return(int64(1), nil)
	balances.On("ResolveAccount", mock.Anything, domain.CodeCapital).Return(int64(2), nil)
	ledger.On("SubmitEntry", mock.Anything, mock.Anything).Return(accepted(10))
	ledger.On("PostEntry", mock.Anything, int64(10)).Return(nil)
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{
		1: {Debit: d(100000), Credit: d(0)},
		2: {Debit: d(0), Credit: d(100000)},
	}, nil)

	out := balancedCapitalEntry(context.Background(), env)

	assert.True(t, out.Passed, out.Details)
	require.NotNil(t, out.EntryID)
	assert.Equal(t, int64(10), *out.EntryID)
	ledger.AssertExpectations(t)
	balances.AssertExpectations(t)
}

func TestBalancedCapitalEntrySubmitsBalancedLines(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, mock.Anything).Return(int64(1), nil)
	ledger.On("SubmitEntry", mock.Anything, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.DebitTotal().Equal(e.CreditTotal()) && len(e.Lines) == 2
	})).Return(accepted(10))
	ledger.On("PostEntry", mock.Anything, int64(10)).Return(nil)
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{}, nil)

	balancedCapitalEntry(context.Background(), env)
	ledger.AssertExpectations(t)
}

func TestBalancedCapitalEntryResolutionFailureIsRecordedNotFatal(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, domain.CodeCash).Return(int64(0), apperrors.ErrNotFound)

	out := balancedCapitalEntry(context.Background(), env)

	assert.False(t, out.Passed)
	assert.Contains(t, out.Details, "account resolution")
	ledger.AssertNotCalled(t, "SubmitEntry", mock.Anything, mock.Anything)
}

func TestBalancedCapitalEntryPostFailure(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, mock.Anything).Return(int64(1), nil)
	ledger.On("SubmitEntry", mock.Anything, mock.Anything).Return(accepted(10))
	ledger.On("PostEntry", mock.Anything, int64(10)).Return(errors.New("status 409"))

	out := balancedCapitalEntry(context.Background(), env)

	assert.False(t, out.Passed)
	assert.Contains(t, out.Details, "failed to post")
	require.NotNil(t, out.EntryID)
}

func TestUnbalancedEntryRejectionPasses(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, mock.Anything).Return(int64(1), nil)
	ledger.On("SubmitEntry", mock.Anything, mock.MatchedBy(func(e domain.JournalEntry) bool {
		// The submitted legs must genuinely disagree or the check is void.
		return !e.DebitTotal().Equal(e.CreditTotal())
	})).Return(domain.SubmitResult{Outcome: domain.SubmitRejected, StatusCode: 422, Reason: "entry does not balance"})

	out := unbalancedEntryRejected(context.Background(), env)

	assert.True(t, out.Passed, out.Details)
	assert.Contains(t, out.Details, "refused")
}

func TestUnbalancedEntryAcceptedFails(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, mock.Anything).Return(int64(1), nil)
	ledger.On("SubmitEntry", mock.Anything, mock.Anything).Return(accepted(66))

	out := unbalancedEntryRejected(context.Background(), env)

	assert.False(t, out.Passed)
	require.NotNil(t, out.EntryID, "the wrongly created entry must be traceable")
	assert.Equal(t, int64(66), *out.EntryID)
}

func TestUnbalancedEntryTransportErrorFails(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, mock.Anything).Return(int64(1), nil)
	ledger.On("SubmitEntry", mock.Anything, mock.Anything).Return(domain.SubmitResult{Outcome: domain.SubmitErrored, Reason: "connection refused"})

	out := unbalancedEntryRejected(context.Background(), env)

	assert.False(t, out.Passed, "a transport error is not proof of rejection")
}

func TestRevenueTransactionVerifiesDelta(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, domain.CodeCash).Return(int64(1), nil)
	balances.On("ResolveAccount", mock.Anything, domain.CodeSalesRevenue).Return(int64(4), nil)
	// Dirty tenant: the revenue account already carries activity from an
	// earlier run. Only the delta matters.
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{
		4: {Debit: d(0), Credit: d(5000)},
	}, nil).Once()
	ledger.On("SubmitEntry", mock.Anything, mock.Anything).Return(accepted(11))
	ledger.On("PostEntry", mock.Anything, int64(11)).Return(nil)
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{
		1: {Debit: d(50000), Credit: d(0)},
		4: {Debit: d(0), Credit: d(55000)},
	}, nil).Once()

	out := revenueTransaction(context.Background(), env)

	assert.True(t, out.Passed, out.Details)
}

func TestExpenseTransactionWrongDeltaFails(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, domain.CodeSalaryExpense).Return(int64(6), nil)
	balances.On("ResolveAccount", mock.Anything, domain.CodeCash).Return(int64(1), nil)
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{}, nil).Once()
	ledger.On("SubmitEntry", mock.Anything, mock.Anything).Return(accepted(12))
	ledger.On("PostEntry", mock.Anything, int64(12)).Return(nil)
	// The ledger recorded half the amount: invariant violation.
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{
		6: {Debit: d(10000), Credit: d(0)},
	}, nil).Once()

	out := expenseTransaction(context.Background(), env)

	assert.False(t, out.Passed)
	assert.Contains(t, out.Details, "expected 20000")
}

func TestCOGSTransactionPasses(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, domain.CodeCOGS).Return(int64(5), nil)
	balances.On("ResolveAccount", mock.Anything, domain.CodeCash).Return(int64(1), nil)
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{}, nil).Once()
	ledger.On("SubmitEntry", mock.Anything, mock.Anything).Return(accepted(13))
	ledger.On("PostEntry", mock.Anything, int64(13)).Return(nil)
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{
		5: {Debit: d(30000), Credit: d(0)},
	}, nil).Once()

	out := cogsTransaction(context.Background(), env)

	assert.True(t, out.Passed, out.Details)
}

func TestPeriodEndAccrualChecksBothLegs(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("ResolveAccount", mock.Anything, domain.CodeUtilitiesExpense).Return(int64(62), nil)
	balances.On("ResolveAccount", mock.Anything, domain.CodeAccruedExpenses).Return(int64(22), nil)
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{}, nil).Once()
	ledger.On("SubmitEntry", mock.Anything, mock.Anything).Return(accepted(14))
	ledger.On("PostEntry", mock.Anything, int64(14)).Return(nil)
	// Expense leg landed, liability leg did not: must fail.
	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{
		62: {Debit: d(5000), Credit: d(0)},
	}, nil).Once()

	out := periodEndAccrual(context.Background(), env)

	assert.False(t, out.Passed)
	assert.Contains(t, out.Details, "liability credit delta: 0")
}

func TestStatementRetrieval(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	ledger.On("IncomeStatement", mock.Anything, mock.Anything, mock.Anything).Return(map[string]any{"net_profit": 25000.0}, nil)
	ledger.On("BalanceSheet", mock.Anything).Return(map[string]any{"assets": 130000.0}, nil)

	out := statementRetrieval(context.Background(), env)
	assert.True(t, out.Passed, out.Details)
}

func TestStatementRetrievalUnavailableFails(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	ledger.On("IncomeStatement", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("status 500"))

	out := statementRetrieval(context.Background(), env)
	assert.False(t, out.Passed)
	ledger.AssertNotCalled(t, "BalanceSheet", mock.Anything)
}

func TestCrossValidation(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{
		1: {Debit: d(150000), Credit: d(50000)},
		2: {Debit: d(0), Credit: d(100000)},
	}, nil)

	out := crossValidation(context.Background(), env)
	assert.True(t, out.Passed, out.Details)
}

func TestCrossValidationDetectsImbalance(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)

	balances.On("TrialBalance", mock.Anything).Return(domain.TrialBalance{
		1: {Debit: d(1000), Credit: d(0)},
		2: {Debit: d(0), Credit: d(500)},
	}, nil)

	out := crossValidation(context.Background(), env)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Details, "Difference: 500")
}

func TestRunnerContainsPanics(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)
	recorder := report.NewRecorder()
	runner := NewRunner(env, recorder)

	scenarios := []Scenario{
		{Name: "healthy", Run: func(ctx context.Context, env *Env) Outcome {
			return Outcome{Passed: true, Details: "ok"}
		}},
		{Name: "explosive", Run: func(ctx context.Context, env *Env) Outcome {
			panic("boom")
		}},
		{Name: "after the blast", Run: func(ctx context.Context, env *Env) Outcome {
			return Outcome{Passed: true, Details: "still running"}
		}},
	}

	summary := runner.RunScenarios(context.Background(), scenarios)

	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 1, summary.Failed)

	results := recorder.Results()
	require.Len(t, results, 3)
	assert.Equal(t, "explosive", results[1].Name)
	assert.False(t, results[1].Passed)
	assert.Contains(t, results[1].Details, "panic")
}

func TestRunnerRecordsInPipelineOrder(t *testing.T) {
	ledger := new(MockLedger)
	balances := new(MockBalances)
	env := newTestEnv(ledger, balances)
	recorder := report.NewRecorder()

	var order []string
	scenarios := make([]Scenario, 0, 3)
	for _, name := range []string{"first", "second", "third"} {
		name := name
		scenarios = append(scenarios, Scenario{Name: name, Run: func(ctx context.Context, env *Env) Outcome {
			order = append(order, name)
			return Outcome{Passed: true}
		}})
	}

	NewRunner(env, recorder).RunScenarios(context.Background(), scenarios)

	assert.Equal(t, []string{"first", "second", "third"}, order)
	results := recorder.Results()
	require.Len(t, results, 3)
	for i, name := range []string{"first", "second", "third"} {
		assert.Equal(t, name, results[i].Name)
	}
}

func TestPipelineShape(t *testing.T) {
	pipeline := Pipeline()
	require.Len(t, pipeline, 8)
	assert.Equal(t, "Scenario 1: Basic Balanced Entry", pipeline[0].Name)
	assert.Equal(t, "Scenario 2: Unbalanced Entry Rejection", pipeline[1].Name)
	assert.Equal(t, "Cross-Validation: TB = GL", pipeline[len(pipeline)-1].Name)
}
