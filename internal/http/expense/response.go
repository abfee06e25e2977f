package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/despesas-dev/despesas/internal/expense"
)

type expenseResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Value             decimal.Decimal `json:"value"`
	Category          string          `json:"category"`
	DueDate           string          `json:"dueDate"`
	Type              expense.Type    `json:"type"`
	TotalInstallments *int            `json:"totalInstallments,omitempty"`
	PaidInstallments  int             `json:"paidInstallments"`
	Status            expense.Status  `json:"status"`
	ParentExpenseID   *uuid.UUID      `json:"parentExpenseId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func toResponse(exp *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:                exp.ID,
		Name:              exp.Name,
		Value:             exp.Value,
		Category:          exp.Category,
		DueDate:           exp.DueDate.Format(time.DateOnly),
		Type:              exp.Type,
		TotalInstallments: exp.TotalInstallments,
		PaidInstallments:  exp.PaidInstallments,
		Status:            exp.Status,
		ParentExpenseID:   exp.ParentExpenseID,
		CreatedAt:         exp.CreatedAt,
	}
}

func toResponseList(exps []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(exps))
	for i, exp := range exps {
		resp[i] = toResponse(exp)
	}

	return resp
}
