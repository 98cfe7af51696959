package domain

import (
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/shopspring/decimal"
)

// BudgetState is the lifecycle state of a budget window.
type BudgetState string

const (
	BudgetDraft    BudgetState = "DRAFT"
	BudgetApproved BudgetState = "APPROVED"
	BudgetActive   BudgetState = "ACTIVE"
	BudgetClosed   BudgetState = "CLOSED"
)

// CanTransitionTo reports whether the state machine allows moving from s to
// next. The only path is DRAFT -> APPROVED -> ACTIVE -> CLOSED; a DRAFT
// budget may additionally be deleted, which is handled outside the state
// machine.
func (s BudgetState) CanTransitionTo(next BudgetState) bool {
	switch s {
	case BudgetDraft:
		return next == BudgetApproved
	case BudgetApproved:
		return next == BudgetActive
	case BudgetActive:
		return next == BudgetClosed
	default:
		return false
	}
}

// AlertLevel classifies budget health.
type AlertLevel string

const (
	AlertGreen  AlertLevel = "GREEN"
	AlertYellow AlertLevel = "YELLOW"
	AlertRed    AlertLevel = "RED"
)

// ProgramBudget is a budget window for a program: planned income and expense
// amounts over a date range, in a single currency.
type ProgramBudget struct {
	BudgetID      string          `json:"budgetID"` // Primary Key (UUID)
	ProgramID     string          `json:"programID"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	IncomeBudget  decimal.Decimal `json:"incomeBudget"`
	ExpenseBudget decimal.Decimal `json:"expenseBudget"`
	CurrencyCode  string          `json:"currencyCode"`
	State         BudgetState     `json:"state"`
	AuditFields
}

// BudgetMetrics holds the quantities derived from a budget window and its
// actual transaction sums. These are recomputed on every read and never
// persisted.
type BudgetMetrics struct {
	ActualIncome          decimal.Decimal `json:"actualIncome"`
	ActualExpenses        decimal.Decimal `json:"actualExpenses"`
	IncomeUtilization     decimal.Decimal `json:"incomeUtilization"`     // percent, unclamped
	ExpenseUtilization    decimal.Decimal `json:"expenseUtilization"`    // percent, unclamped above 100
	DaysElapsedPercentage decimal.Decimal `json:"daysElapsedPercentage"` // percent, clamped to [0,100]
	AlertLevel            AlertLevel      `json:"alertLevel"`
}

var (
	hundred           = decimal.NewFromInt(100)
	redUtilization    = decimal.NewFromInt(90)
	yellowUtilization = decimal.NewFromInt(70)
	redPaceMargin     = decimal.NewFromInt(20)
	yellowPaceMargin  = decimal.NewFromInt(10)
)

// ComputeBudgetMetrics derives utilization, elapsed time and the alert level
// for a budget window as of a given date. actualIncome/actualExpenses must
// already be converted to the budget currency.
//
// The alert conditions overlap, so evaluation order is load-bearing: the red
// check runs first and yellow only applies when red is false.
func ComputeBudgetMetrics(b ProgramBudget, actualIncome, actualExpenses decimal.Decimal, asOf time.Time) (BudgetMetrics, error) {
	if b.ExpenseBudget.IsNegative() || b.IncomeBudget.IsNegative() {
		return BudgetMetrics{}, apperrors.ErrNegativeBudget
	}

	elapsed := elapsedPercentage(b.StartDate, b.EndDate, asOf)
	expenseUtil := utilization(actualExpenses, b.ExpenseBudget)
	incomeUtil := utilization(actualIncome, b.IncomeBudget)

	level := AlertGreen
	switch {
	case expenseUtil.GreaterThanOrEqual(redUtilization) || expenseUtil.GreaterThan(elapsed.Add(redPaceMargin)):
		level = AlertRed
	case expenseUtil.GreaterThanOrEqual(yellowUtilization) || expenseUtil.GreaterThan(elapsed.Add(yellowPaceMargin)):
		level = AlertYellow
	}

	return BudgetMetrics{
		ActualIncome:          actualIncome,
		ActualExpenses:        actualExpenses,
		IncomeUtilization:     incomeUtil.Round(2),
		ExpenseUtilization:    expenseUtil.Round(2),
		DaysElapsedPercentage: elapsed.Round(2),
		AlertLevel:            level,
	}, nil
}

// utilization is actual/budget as a percentage, defined as 0 for a zero
// budget. It is deliberately not clamped above 100 so overspend is visible.
func utilization(actual, budget decimal.Decimal) decimal.Decimal {
	if budget.IsZero() {
		return decimal.Zero
	}
	return actual.Mul(hundred).Div(budget)
}

// elapsedPercentage is the share of the window that has passed as of asOf,
// clamped to [0,100]. A zero-length window counts as fully elapsed.
func elapsedPercentage(start, end, asOf time.Time) decimal.Decimal {
	total := end.Sub(start)
	if total <= 0 {
		return hundred
	}
	elapsed := asOf.Sub(start)
	if elapsed <= 0 {
		return decimal.Zero
	}
	if elapsed >= total {
		return hundred
	}
	return decimal.NewFromFloat(elapsed.Hours()).Mul(hundred).Div(decimal.NewFromFloat(total.Hours()))
}
