package scenario

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/slms-dev/ledgercheck/internal/core/domain"
)

// Fixture carries the amounts and account codes the scenarios transact
// with. Defaults mirror the standard SLMS chart of accounts; a YAML file can
// override them for ledgers seeded differently.
type Fixture struct {
	EntryType string

	Capital          decimal.Decimal
	UnbalancedDebit  decimal.Decimal
	UnbalancedCredit decimal.Decimal
	Revenue          decimal.Decimal
	Expense          decimal.Decimal
	COGS             decimal.Decimal
	Accrual          decimal.Decimal

	CashCode             domain.AccountCode
	CapitalCode          domain.AccountCode
	SalesRevenueCode     domain.AccountCode
	SalaryExpenseCode    domain.AccountCode
	COGSCode             domain.AccountCode
	UtilitiesExpenseCode domain.AccountCode
	AccruedExpensesCode  domain.AccountCode
}

// DefaultFixture returns the stock scenario parameters.
func DefaultFixture() Fixture {
	return Fixture{
		EntryType:        "journal",
		Capital:          decimal.NewFromInt(100000),
		UnbalancedDebit:  decimal.NewFromInt(1000),
		UnbalancedCredit: decimal.NewFromInt(500),
		Revenue:          decimal.NewFromInt(50000),
		Expense:          decimal.NewFromInt(20000),
		COGS:             decimal.NewFromInt(30000),
		Accrual:          decimal.NewFromInt(5000),

		CashCode:             domain.CodeCash,
		CapitalCode:          domain.CodeCapital,
		SalesRevenueCode:     domain.CodeSalesRevenue,
		SalaryExpenseCode:    domain.CodeSalaryExpense,
		COGSCode:             domain.CodeCOGS,
		UtilitiesExpenseCode: domain.CodeUtilitiesExpense,
		AccruedExpensesCode:  domain.CodeAccruedExpenses,
	}
}

// fixtureFile is the YAML shape of a fixture override. Every field is
// optional; unset fields keep their defaults.
type fixtureFile struct {
	EntryType string `yaml:"entry_type"`

	Amounts struct {
		Capital          float64 `yaml:"capital" validate:"omitempty,gt=0"`
		UnbalancedDebit  float64 `yaml:"unbalanced_debit" validate:"omitempty,gt=0"`
		UnbalancedCredit float64 `yaml:"unbalanced_credit" validate:"omitempty,gt=0"`
		Revenue          float64 `yaml:"revenue" validate:"omitempty,gt=0"`
		Expense          float64 `yaml:"expense" validate:"omitempty,gt=0"`
		COGS             float64 `yaml:"cogs" validate:"omitempty,gt=0"`
		Accrual          float64 `yaml:"accrual" validate:"omitempty,gt=0"`
	} `yaml:"amounts"`

	Accounts struct {
		Cash             string `yaml:"cash"`
		Capital          string `yaml:"capital"`
		SalesRevenue     string `yaml:"sales_revenue"`
		SalaryExpense    string `yaml:"salary_expense"`
		COGS             string `yaml:"cogs"`
		UtilitiesExpense string `yaml:"utilities_expense"`
		AccruedExpenses  string `yaml:"accrued_expenses"`
	} `yaml:"accounts"`
}

// LoadFixture reads a fixture override file and merges it over the
// defaults. Unknown YAML fields are rejected so typos surface immediately.
func LoadFixture(path string) (Fixture, error) {
	fx := DefaultFixture()

	data, err := os.ReadFile(path)
	if err != nil {
		return fx, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var file fixtureFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return fx, fmt.Errorf("failed to parse fixture file: %w", err)
	}
	if err := validator.New().Struct(&file); err != nil {
		return fx, fmt.Errorf("invalid fixture file: %w", err)
	}

	if file.EntryType != "" {
		fx.EntryType = file.EntryType
	}
	overrideAmount(&fx.Capital, file.Amounts.Capital)
	overrideAmount(&fx.UnbalancedDebit, file.Amounts.UnbalancedDebit)
	overrideAmount(&fx.UnbalancedCredit, file.Amounts.UnbalancedCredit)
	overrideAmount(&fx.Revenue, file.Amounts.Revenue)
	overrideAmount(&fx.Expense, file.Amounts.Expense)
	overrideAmount(&fx.COGS, file.Amounts.COGS)
	overrideAmount(&fx.Accrual, file.Amounts.Accrual)

	overrideCode(&fx.CashCode, file.Accounts.Cash)
	overrideCode(&fx.CapitalCode, file.Accounts.Capital)
	overrideCode(&fx.SalesRevenueCode, file.Accounts.SalesRevenue)
	overrideCode(&fx.SalaryExpenseCode, file.Accounts.SalaryExpense)
	overrideCode(&fx.COGSCode, file.Accounts.COGS)
	overrideCode(&fx.UtilitiesExpenseCode, file.Accounts.UtilitiesExpense)
	overrideCode(&fx.AccruedExpensesCode, file.Accounts.AccruedExpenses)

	return fx, nil
}

func overrideAmount(dst *decimal.Decimal, v float64) {
	if v > 0 {
		*dst = decimal.NewFromFloat(v)
	}
}

func overrideCode(dst *domain.AccountCode, v string) {
	if v != "" {
		*dst = domain.AccountCode(v)
	}
}
