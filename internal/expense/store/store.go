package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/despesas-dev/despesas/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanExpense reads an expense row from the scanner and returns a populated Expense.
// Expected column order: id, name, value, category, due_date, type, total_installments, paid_installments, status, parent_expense_id, created_at
func scanExpense(s scanner) (*expense.Expense, error) {
	var exp expense.Expense

	var typeStr, statusStr string

	var totalInstallments *int

	var parentID *uuid.UUID

	if err := s.Scan(
		&exp.ID, &exp.Name, &exp.Value, &exp.Category, &exp.DueDate,
		&typeStr, &totalInstallments, &exp.PaidInstallments, &statusStr,
		&parentID, &exp.CreatedAt,
	); err != nil {
		return nil, err
	}

	exp.Type = expense.Type(typeStr)
	exp.Status = expense.Status(statusStr)
	exp.TotalInstallments = totalInstallments
	exp.ParentExpenseID = parentID

	return &exp, nil
}

const selectExpenseColumns = `
	id, name, value, category, due_date, type,
	total_installments, paid_installments, status, parent_expense_id, created_at
`

// CreateExpenses inserts all records inside a single database transaction so
// an installment fan-out is either fully written or not at all.
func (s *Store) CreateExpenses(ctx context.Context, exps []*expense.Expense) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO expenses (id, name, value, category, due_date, type, total_installments, paid_installments, status, parent_expense_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING created_at
	`

	for _, exp := range exps {
		err := dbTx.QueryRowContext(ctx, query,
			exp.ID,
			exp.Name,
			exp.Value,
			exp.Category,
			exp.DueDate,
			exp.Type,
			exp.TotalInstallments,
			exp.PaidInstallments,
			exp.Status,
			exp.ParentExpenseID,
		).Scan(&exp.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating expense: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing expenses: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE id = $1`

	exp, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return exp, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE 1=1`

	var args []any

	argIdx := 1
	filtered := false

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
		filtered = true
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND due_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
		filtered = true
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND due_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
		filtered = true
	}

	// The unfiltered listing shows newest first; range and status views read
	// in chronological order.
	if filtered {
		query += " ORDER BY due_date ASC"
	} else {
		query += " ORDER BY due_date DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var exps []*expense.Expense

	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		exps = append(exps, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return exps, nil
}

func (s *Store) UpdateExpense(ctx context.Context, exp *expense.Expense) error {
	query := `
		UPDATE expenses
		SET name = $1, value = $2, category = $3, due_date = $4, type = $5,
		    total_installments = $6, paid_installments = $7, status = $8
		WHERE id = $9
	`

	_, err := s.db.ExecContext(ctx, query,
		exp.Name,
		exp.Value,
		exp.Category,
		exp.DueDate,
		exp.Type,
		exp.TotalInstallments,
		exp.PaidInstallments,
		exp.Status,
		exp.ID,
	)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}

	return n > 0, nil
}

func (s *Store) DeleteExpensesByParent(ctx context.Context, parentID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE parent_expense_id = $1`, parentID)
	if err != nil {
		return 0, fmt.Errorf("deleting installment children: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}

	return n, nil
}
