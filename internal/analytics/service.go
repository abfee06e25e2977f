package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/despesas-dev/despesas/internal/expense"
)

// Service computes rollups and projections over the full expense set. It
// reads through the expense service on demand and holds no state of its own.
type Service struct {
	expenses *expense.Service
}

func NewService(expenses *expense.Service) *Service {
	return &Service{expenses: expenses}
}

// CategoryTotal is the lifetime sum of all expenses in one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MonthlyTotal is the sum of all expenses due in one calendar month.
type MonthlyTotal struct {
	Month string // YYYY-MM
	Total decimal.Decimal
}

// MonthProjection is one month of the forward projection.
type MonthProjection struct {
	Month string
	Total decimal.Decimal
}

// Projection is the six-month forward spend estimate.
type Projection struct {
	Months         []MonthProjection
	Total          decimal.Decimal
	MonthlyAverage decimal.Decimal
}

// Summary is the current-calendar-month rollup shown on the dashboard.
type Summary struct {
	Month   string // YYYY-MM
	Total   decimal.Decimal
	Paid    decimal.Decimal
	Pending decimal.Decimal
	Overdue decimal.Decimal
}

// ByCategory sums every record, installment children included, grouped by
// category. Lifetime totals, no date scoping. Output is sorted by category
// name so callers see a consistent order.
func (s *Service) ByCategory(ctx context.Context) ([]CategoryTotal, error) {
	exps, err := s.expenses.List(ctx, expense.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, exp := range exps {
		byCategory[exp.Category] = byCategory[exp.Category].Add(exp.Value)
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		totals = append(totals, CategoryTotal{Category: category, Total: total})
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Category < totals[j].Category
	})

	return totals, nil
}

// Monthly groups all records by the calendar month of their due date and
// returns at most monthCount entries, most recent first. Months with no
// expenses are absent, not zero-filled.
func (s *Service) Monthly(ctx context.Context, monthCount int) ([]MonthlyTotal, error) {
	exps, err := s.expenses.List(ctx, expense.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	byMonth := make(map[string]decimal.Decimal)
	for _, exp := range exps {
		key := exp.DueDate.Format("2006-01")
		byMonth[key] = byMonth[key].Add(exp.Value)
	}

	totals := make([]MonthlyTotal, 0, len(byMonth))
	for month, total := range byMonth {
		totals = append(totals, MonthlyTotal{Month: month, Total: total})
	}

	// Lexicographic order is chronological for YYYY-MM.
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Month > totals[j].Month
	})

	if monthCount > 0 && len(totals) > monthCount {
		totals = totals[:monthCount]
	}

	return totals, nil
}

// Project estimates spend for the next six months starting with the month of
// now. Each month carries the full sum of fixed expenses, plus a share of
// every installment series that still has unpaid installments: the share is
// value divided by the remaining count, included while the series' window
// covers the month index.
//
// The window condition compares the zero-based month of year of the due date
// against the projection index and ignores years entirely, so series due near
// December behave oddly. The original application works this way and the
// behavior is kept, not corrected.
func (s *Service) Project(ctx context.Context, now time.Time) (*Projection, error) {
	exps, err := s.expenses.List(ctx, expense.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	fixedTotal := decimal.Zero

	for _, exp := range exps {
		if exp.Type == expense.TypeFixed {
			fixedTotal = fixedTotal.Add(exp.Value)
		}
	}

	proj := &Projection{Months: make([]MonthProjection, 0, 6)}

	for i := 0; i < 6; i++ {
		month := time.Date(now.Year(), now.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		total := fixedTotal

		for _, exp := range exps {
			if exp.Type != expense.TypeInstallment || exp.TotalInstallments == nil {
				continue
			}

			if exp.PaidInstallments == *exp.TotalInstallments {
				continue
			}

			remaining := *exp.TotalInstallments - exp.PaidInstallments
			perInstallment := exp.Value.Div(decimal.NewFromInt(int64(remaining)))

			month0 := int(exp.DueDate.Month()) - 1
			if month0+remaining > i && month0 <= i {
				total = total.Add(perInstallment)
			}
		}

		proj.Months = append(proj.Months, MonthProjection{
			Month: month.Format("Jan 06"),
			Total: total,
		})
		proj.Total = proj.Total.Add(total)
	}

	proj.MonthlyAverage = proj.Total.Div(decimal.NewFromInt(6))

	return proj, nil
}

// Summarize totals the current calendar month and breaks it down by status.
func (s *Service) Summarize(ctx context.Context, now time.Time) (*Summary, error) {
	exps, err := s.expenses.List(ctx, expense.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	summary := &Summary{Month: now.Format("2006-01")}

	for _, exp := range exps {
		if exp.DueDate.Year() != now.Year() || exp.DueDate.Month() != now.Month() {
			continue
		}

		summary.Total = summary.Total.Add(exp.Value)

		switch exp.Status {
		case expense.StatusPaid:
			summary.Paid = summary.Paid.Add(exp.Value)
		case expense.StatusPending:
			summary.Pending = summary.Pending.Add(exp.Value)
		case expense.StatusOverdue:
			summary.Overdue = summary.Overdue.Add(exp.Value)
		}
	}

	return summary, nil
}

// Upcoming returns unpaid expenses due within the next seven days, today
// included, soonest first.
func (s *Service) Upcoming(ctx context.Context, now time.Time) ([]*expense.Expense, error) {
	exps, err := s.expenses.List(ctx, expense.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var upcoming []*expense.Expense

	for _, exp := range exps {
		if exp.Status == expense.StatusPaid {
			continue
		}

		due := time.Date(exp.DueDate.Year(), exp.DueDate.Month(), exp.DueDate.Day(), 0, 0, 0, 0, time.UTC)

		days := int(due.Sub(today).Hours() / 24)
		if days >= 0 && days <= 7 {
			upcoming = append(upcoming, exp)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})

	return upcoming, nil
}
