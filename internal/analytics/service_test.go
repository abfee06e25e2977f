package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/despesas-dev/despesas/internal/analytics"
	"github.com/despesas-dev/despesas/internal/expense"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newService wires an analytics service over an expense service whose
// repository always returns the given records.
func newService(t *testing.T, exps []*expense.Expense) *analytics.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().
		ListExpenses(gomock.Any(), gomock.Any()).
		Return(exps, nil).
		AnyTimes()

	return analytics.NewService(expense.NewService(repo))
}

func TestService_ByCategory(t *testing.T) {
	svc := newService(t, []*expense.Expense{
		{Category: "A", Value: dec("10.00")},
		{Category: "B", Value: dec("20.00")},
		{Category: "A", Value: dec("5.00")},
	})

	totals, err := svc.ByCategory(context.Background())
	require.NoError(t, err)

	require.Len(t, totals, 2)
	assert.Equal(t, "A", totals[0].Category)
	assert.True(t, totals[0].Total.Equal(dec("15.00")))
	assert.Equal(t, "B", totals[1].Category)
	assert.True(t, totals[1].Total.Equal(dec("20.00")))
}

func TestService_Monthly(t *testing.T) {
	svc := newService(t, []*expense.Expense{
		{DueDate: date(2023, time.October, 5), Value: dec("10.00")},
		{DueDate: date(2023, time.November, 5), Value: dec("20.00")},
		{DueDate: date(2023, time.December, 5), Value: dec("30.00")},
		{DueDate: date(2024, time.January, 5), Value: dec("40.00")},
		{DueDate: date(2024, time.January, 20), Value: dec("5.00")},
		{DueDate: date(2024, time.February, 5), Value: dec("50.00")},
	})

	totals, err := svc.Monthly(context.Background(), 2)
	require.NoError(t, err)

	// Only the two most recent months with expenses, most recent first;
	// empty months are not zero-filled.
	require.Len(t, totals, 2)
	assert.Equal(t, "2024-02", totals[0].Month)
	assert.True(t, totals[0].Total.Equal(dec("50.00")))
	assert.Equal(t, "2024-01", totals[1].Month)
	assert.True(t, totals[1].Total.Equal(dec("45.00")))
}

func TestService_Monthly_AllWhenCountExceedsMonths(t *testing.T) {
	svc := newService(t, []*expense.Expense{
		{DueDate: date(2024, time.January, 5), Value: dec("40.00")},
	})

	totals, err := svc.Monthly(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "2024-01", totals[0].Month)
}

func TestService_Project(t *testing.T) {
	total3 := 3
	paid := 2

	svc := newService(t, []*expense.Expense{
		{Type: expense.TypeFixed, Value: dec("100.00"), DueDate: date(2024, time.January, 5)},
		// Unpaid series due in February (zero-based month 1): contributes
		// value/remaining to projection indexes 1..3.
		{
			Type:              expense.TypeInstallment,
			Value:             dec("300.00"),
			DueDate:           date(2024, time.February, 15),
			TotalInstallments: &total3,
		},
		// Fully paid series contributes nothing.
		{
			Type:              expense.TypeInstallment,
			Value:             dec("900.00"),
			DueDate:           date(2024, time.February, 15),
			TotalInstallments: &total3,
			PaidInstallments:  3,
		},
		// Partially paid series: remaining=1, window is index 1 only.
		{
			Type:              expense.TypeInstallment,
			Value:             dec("50.00"),
			DueDate:           date(2024, time.February, 10),
			TotalInstallments: &total3,
			PaidInstallments:  paid,
		},
	})

	proj, err := svc.Project(context.Background(), date(2024, time.January, 10))
	require.NoError(t, err)

	require.Len(t, proj.Months, 6)
	assert.Equal(t, "Jan 24", proj.Months[0].Month)
	assert.Equal(t, "Jun 24", proj.Months[5].Month)

	want := []string{"100", "250", "200", "200", "100", "100"}
	for i, w := range want {
		assert.True(t, proj.Months[i].Total.Equal(dec(w)), "month %d: got %s want %s", i, proj.Months[i].Total, w)
	}

	assert.True(t, proj.Total.Equal(dec("950")))
	assert.True(t, proj.MonthlyAverage.Equal(dec("158.3333333333333333")))
}

func TestService_Project_FixedOnly(t *testing.T) {
	svc := newService(t, []*expense.Expense{
		{Type: expense.TypeFixed, Value: dec("80.00"), DueDate: date(2024, time.March, 1)},
		{Type: expense.TypeFixed, Value: dec("20.00"), DueDate: date(2024, time.August, 1)},
	})

	proj, err := svc.Project(context.Background(), date(2024, time.November, 2))
	require.NoError(t, err)

	// Fixed expenses recur every month regardless of due date, and the
	// six-month window crosses into the next year.
	require.Len(t, proj.Months, 6)
	assert.Equal(t, "Nov 24", proj.Months[0].Month)
	assert.Equal(t, "Apr 25", proj.Months[5].Month)

	for _, m := range proj.Months {
		assert.True(t, m.Total.Equal(dec("100.00")))
	}

	assert.True(t, proj.Total.Equal(dec("600.00")))
	assert.True(t, proj.MonthlyAverage.Equal(dec("100.00")))
}

func TestService_Summarize(t *testing.T) {
	svc := newService(t, []*expense.Expense{
		{DueDate: date(2024, time.March, 5), Value: dec("50.00"), Status: expense.StatusPaid},
		{DueDate: date(2024, time.March, 12), Value: dec("30.00"), Status: expense.StatusPending},
		{DueDate: date(2024, time.March, 20), Value: dec("20.00"), Status: expense.StatusOverdue},
		// Other months are out of scope.
		{DueDate: date(2024, time.April, 5), Value: dec("99.00"), Status: expense.StatusPending},
		{DueDate: date(2023, time.March, 5), Value: dec("77.00"), Status: expense.StatusPaid},
	})

	summary, err := svc.Summarize(context.Background(), date(2024, time.March, 10))
	require.NoError(t, err)

	assert.Equal(t, "2024-03", summary.Month)
	assert.True(t, summary.Total.Equal(dec("100.00")))
	assert.True(t, summary.Paid.Equal(dec("50.00")))
	assert.True(t, summary.Pending.Equal(dec("30.00")))
	assert.True(t, summary.Overdue.Equal(dec("20.00")))
}

func TestService_Upcoming(t *testing.T) {
	svc := newService(t, []*expense.Expense{
		{Name: "due in a week", DueDate: date(2024, time.March, 17), Status: expense.StatusPending},
		{Name: "due today", DueDate: date(2024, time.March, 10), Status: expense.StatusPending},
		{Name: "already paid", DueDate: date(2024, time.March, 12), Status: expense.StatusPaid},
		{Name: "too far out", DueDate: date(2024, time.March, 18), Status: expense.StatusPending},
		{Name: "past due", DueDate: date(2024, time.March, 9), Status: expense.StatusOverdue},
	})

	upcoming, err := svc.Upcoming(context.Background(), date(2024, time.March, 10))
	require.NoError(t, err)

	require.Len(t, upcoming, 2)
	assert.Equal(t, "due today", upcoming[0].Name)
	assert.Equal(t, "due in a week", upcoming[1].Name)
}
