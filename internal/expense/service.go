package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	// CreateExpenses persists all records in a single transaction so an
	// installment fan-out cannot be left half-written.
	CreateExpenses(ctx context.Context, exps []*Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	UpdateExpense(ctx context.Context, exp *Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteExpensesByParent(ctx context.Context, parentID uuid.UUID) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name              string
	Value             decimal.Decimal
	Category          string
	DueDate           time.Time
	Type              Type
	TotalInstallments *int
	PaidInstallments  int
	Status            Status
}

type ListFilter struct {
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Name              *string
	Value             *decimal.Decimal
	Category          *string
	DueDate           *time.Time
	Type              *Type
	TotalInstallments *int
	PaidInstallments  *int
	Status            *Status
}

// Create persists the expense. A fixed expense becomes exactly one record.
// An installment expense with N total installments fans out into N records:
// the primary keeps the submitted due date and gets "(1/N)" appended to its
// name; each child is dated one calendar month after the previous, carries
// the same value and category, starts out pending with zero paid
// installments, and points back at the primary via ParentExpenseID. Only the
// primary record is returned; the children appear in the store silently.
//
// Due dates advance with time.Time.AddDate, so Jan 31 plus one month rolls
// over into early March. The original application behaves the same way.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	status := params.Status
	if status == "" {
		status = StatusPending
	}

	primary := &Expense{
		ID:                uuid.New(),
		Name:              params.Name,
		Value:             params.Value,
		Category:          params.Category,
		DueDate:           params.DueDate,
		Type:              params.Type,
		TotalInstallments: params.TotalInstallments,
		PaidInstallments:  params.PaidInstallments,
		Status:            status,
	}

	records := []*Expense{primary}

	if params.Type == TypeInstallment && params.TotalInstallments != nil {
		n := *params.TotalInstallments
		primary.Name = fmt.Sprintf("%s (1/%d)", params.Name, n)

		for i := 1; i < n; i++ {
			parentID := primary.ID
			total := n
			records = append(records, &Expense{
				ID:                uuid.New(),
				Name:              fmt.Sprintf("%s (%d/%d)", params.Name, i+1, n),
				Value:             params.Value,
				Category:          params.Category,
				DueDate:           params.DueDate.AddDate(0, i, 0),
				Type:              TypeInstallment,
				TotalInstallments: &total,
				PaidInstallments:  0,
				Status:            StatusPending,
				ParentExpenseID:   &parentID,
			})
		}
	}

	if err := s.repo.CreateExpenses(ctx, records); err != nil {
		return nil, fmt.Errorf("creating expense records: %w", err)
	}

	return primary, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}

// Update applies a shallow merge of the set fields onto the record. It never
// cascades to siblings or children: marking a parent paid leaves every child
// untouched, and the parent's PaidInstallments counter is not linked to child
// statuses. Returns ErrNotFound when the id does not exist.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Expense, error) {
	exp, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		exp.Name = *params.Name
	}

	if params.Value != nil {
		exp.Value = *params.Value
	}

	if params.Category != nil {
		exp.Category = *params.Category
	}

	if params.DueDate != nil {
		exp.DueDate = *params.DueDate
	}

	if params.Type != nil {
		exp.Type = *params.Type
	}

	if params.TotalInstallments != nil {
		exp.TotalInstallments = params.TotalInstallments
	}

	if params.PaidInstallments != nil {
		exp.PaidInstallments = *params.PaidInstallments
	}

	if params.Status != nil {
		exp.Status = *params.Status
	}

	if err := s.repo.UpdateExpense(ctx, exp); err != nil {
		return nil, fmt.Errorf("updating expense: %w", err)
	}

	return exp, nil
}

// Delete removes the record. For an installment parent the children are
// removed first, then the parent itself; the cascade is an explicit two-step
// rather than a foreign-key action. Deleting a child removes only that child.
// Returns false when the id does not exist.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	exp, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	if exp.IsInstallmentParent() {
		if _, err := s.repo.DeleteExpensesByParent(ctx, id); err != nil {
			return false, fmt.Errorf("deleting installment children: %w", err)
		}
	}

	deleted, err := s.repo.DeleteExpense(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	return deleted, nil
}
