package domain

// AccountCode is a stable chart-of-accounts code. Codes are resolved to
// numeric account IDs scoped to a company at run time; the harness never
// assumes IDs are stable across environments.
type AccountCode string

// Chart-of-accounts codes used by the scenarios. The numeric ranges follow
// the SLMS chart layout: 1xxx assets, 2xxx liabilities, 3xxx equity,
// 4xxx revenue, 5xxx cost of goods, 6xxx expenses.
const (
	// Assets (1000-1999)
	CodeCash        AccountCode = "1010"
	CodeBank        AccountCode = "1020"
	CodeARCustomers AccountCode = "1200"

	// Liabilities (2000-2999)
	CodeAPSuppliers     AccountCode = "2100"
	CodeAccruedExpenses AccountCode = "2200"

	// Equity (3000-3999)
	CodeCapital          AccountCode = "3100"
	CodeRetainedEarnings AccountCode = "3200"

	// Revenue (4000-4999)
	CodeSalesRevenue   AccountCode = "4100"
	CodeServiceRevenue AccountCode = "4200"

	// Cost of goods (5000-5999)
	CodeCOGS      AccountCode = "5100"
	CodeInventory AccountCode = "5200"

	// Expenses (6000-6999)
	CodeSalaryExpense       AccountCode = "6100"
	CodeUtilitiesExpense    AccountCode = "6200"
	CodeRentExpense         AccountCode = "6300"
	CodeDepreciationExpense AccountCode = "6400"
)
