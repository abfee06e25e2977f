package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an expense id does not exist in the store.
var ErrNotFound = errors.New("expense not found")

// Type represents how an expense recurs.
type Type string

const (
	// TypeFixed recurs conceptually every month at the same amount and is
	// stored as a single record.
	TypeFixed Type = "fixed"
	// TypeInstallment is split across N monthly due dates and materialized
	// as N independent records at creation time.
	TypeInstallment Type = "installment"
)

// Status is the payment state of an expense. It is never derived from the
// due date by the server; callers set it explicitly.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
)

// Expense is a single expense record. For an installment series the record
// entered by the user is the parent (ParentExpenseID nil) and the N-1
// follow-on records are children pointing back at it.
type Expense struct {
	ID       uuid.UUID
	Name     string
	Value    decimal.Decimal // per-installment amount as entered, never divided
	Category string
	DueDate  time.Time // date-only
	Type     Type
	// TotalInstallments is nil for fixed expenses.
	TotalInstallments *int
	// PaidInstallments is bookkeeping on the parent record; children are
	// tracked through their own Status and are never linked back to it.
	PaidInstallments int
	Status           Status
	ParentExpenseID  *uuid.UUID
	CreatedAt        time.Time
}

// IsInstallmentParent reports whether the expense is the first record of an
// installment series, i.e. the record whose deletion cascades to children.
func (e *Expense) IsInstallmentParent() bool {
	return e.Type == TypeInstallment && e.ParentExpenseID == nil
}
