package domain

import (
	"testing"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quarterBudget(expenseBudget int64) ProgramBudget {
	return ProgramBudget{
		BudgetID:      "bud-1",
		ProgramID:     "prog-1",
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		IncomeBudget:  decimal.NewFromInt(2_000_000),
		ExpenseBudget: decimal.NewFromInt(expenseBudget),
		CurrencyCode:  "UGX",
		State:         BudgetActive,
	}
}

func TestComputeBudgetMetrics_RedOnHighUtilization(t *testing.T) {
	b := quarterBudget(1_000_000)
	asOf := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	m, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.NewFromInt(950_000), asOf)
	require.NoError(t, err)

	assert.True(t, m.ExpenseUtilization.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, AlertRed, m.AlertLevel)
}

func TestComputeBudgetMetrics_GreenWhenOnPace(t *testing.T) {
	b := quarterBudget(1_000_000)
	asOf := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	m, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.NewFromInt(600_000), asOf)
	require.NoError(t, err)

	// 60% spent, roughly half the window elapsed: under both yellow rules.
	assert.True(t, m.ExpenseUtilization.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, AlertGreen, m.AlertLevel)
}

func TestComputeBudgetMetrics_YellowOnThreshold(t *testing.T) {
	b := quarterBudget(1_000_000)
	// Late enough in the window that 70% spend is not ahead of pace by 20.
	asOf := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	m, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.NewFromInt(700_000), asOf)
	require.NoError(t, err)
	assert.Equal(t, AlertYellow, m.AlertLevel)
}

func TestComputeBudgetMetrics_RedCheckedBeforeYellow(t *testing.T) {
	// 95% utilization satisfies both the red and yellow conditions; the
	// result must be red.
	b := quarterBudget(1_000_000)
	asOf := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)

	m, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.NewFromInt(950_000), asOf)
	require.NoError(t, err)
	assert.Equal(t, AlertRed, m.AlertLevel)
}

func TestComputeBudgetMetrics_AlertMonotonicInUtilization(t *testing.T) {
	b := quarterBudget(1_000_000)
	asOf := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	rank := map[AlertLevel]int{AlertGreen: 0, AlertYellow: 1, AlertRed: 2}
	prev := -1
	for spend := int64(0); spend <= 1_200_000; spend += 50_000 {
		m, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.NewFromInt(spend), asOf)
		require.NoError(t, err)
		require.GreaterOrEqual(t, rank[m.AlertLevel], prev,
			"alert level regressed at spend %d", spend)
		prev = rank[m.AlertLevel]
	}
}

func TestComputeBudgetMetrics_ZeroBudgetIsZeroUtilization(t *testing.T) {
	b := quarterBudget(0)
	asOf := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	m, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.NewFromInt(500), asOf)
	require.NoError(t, err)
	assert.True(t, m.ExpenseUtilization.IsZero())
}

func TestComputeBudgetMetrics_OverspendExceedsHundred(t *testing.T) {
	b := quarterBudget(1_000_000)
	asOf := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	m, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.NewFromInt(1_500_000), asOf)
	require.NoError(t, err)
	assert.True(t, m.ExpenseUtilization.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, AlertRed, m.AlertLevel)
}

func TestComputeBudgetMetrics_NegativeBudgetRejected(t *testing.T) {
	b := quarterBudget(1_000_000)
	b.ExpenseBudget = decimal.NewFromInt(-1)

	_, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.Zero, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrNegativeBudget)
}

func TestElapsedPercentage_Bounds(t *testing.T) {
	b := quarterBudget(1_000_000)

	before, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.Zero, b.StartDate.AddDate(0, 0, -10))
	require.NoError(t, err)
	assert.True(t, before.DaysElapsedPercentage.IsZero())

	after, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.Zero, b.EndDate.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.True(t, after.DaysElapsedPercentage.Equal(decimal.NewFromInt(100)))
}

func TestElapsedPercentage_ZeroLengthWindow(t *testing.T) {
	b := quarterBudget(1_000_000)
	b.EndDate = b.StartDate

	m, err := ComputeBudgetMetrics(b, decimal.Zero, decimal.Zero, b.StartDate)
	require.NoError(t, err)
	assert.True(t, m.DaysElapsedPercentage.Equal(decimal.NewFromInt(100)))
}

func TestBudgetStateTransitions(t *testing.T) {
	allowed := map[BudgetState]BudgetState{
		BudgetDraft:    BudgetApproved,
		BudgetApproved: BudgetActive,
		BudgetActive:   BudgetClosed,
	}
	states := []BudgetState{BudgetDraft, BudgetApproved, BudgetActive, BudgetClosed}
	for _, from := range states {
		for _, to := range states {
			want := allowed[from] == to
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}
