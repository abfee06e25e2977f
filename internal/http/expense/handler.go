package expense

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/despesas-dev/despesas/internal/expense"
)

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/range/{start}/{end}", h.listRange)
	r.Get("/status/{status}", h.listByStatus)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenseRequest struct {
	Name              string `json:"name"`
	Value             string `json:"value"`
	Category          string `json:"category"`
	DueDate           string `json:"dueDate"`
	Type              string `json:"type"`
	TotalInstallments *int   `json:"totalInstallments,omitempty"`
	PaidInstallments  int    `json:"paidInstallments"`
	Status            string `json:"status"`
}

// validate enforces the boundary contract: malformed input never reaches the
// service.
func (req *createExpenseRequest) validate() (expense.CreateParams, error) {
	var params expense.CreateParams

	if req.Name == "" {
		return params, errors.New("name is required")
	}

	if req.Category == "" {
		return params, errors.New("category is required")
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		return params, fmt.Errorf("invalid value %q", req.Value)
	}

	dueDate, err := time.Parse(time.DateOnly, req.DueDate)
	if err != nil {
		return params, fmt.Errorf("invalid due date %q", req.DueDate)
	}

	typ := expense.Type(req.Type)
	if typ != expense.TypeFixed && typ != expense.TypeInstallment {
		return params, fmt.Errorf("invalid type %q", req.Type)
	}

	if typ == expense.TypeInstallment && (req.TotalInstallments == nil || *req.TotalInstallments < 1) {
		return params, errors.New("totalInstallments must be a positive integer for installment expenses")
	}

	status := expense.Status(req.Status)
	if req.Status != "" && !validStatus(status) {
		return params, fmt.Errorf("invalid status %q", req.Status)
	}

	params = expense.CreateParams{
		Name:              req.Name,
		Value:             value,
		Category:          req.Category,
		DueDate:           dueDate,
		Type:              typ,
		TotalInstallments: req.TotalInstallments,
		PaidInstallments:  req.PaidInstallments,
		Status:            status,
	}

	return params, nil
}

func validStatus(s expense.Status) bool {
	return s == expense.StatusPaid || s == expense.StatusPending || s == expense.StatusOverdue
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.validate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exp, err := h.svc.Create(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(exp)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	exps, err := h.svc.List(r.Context(), expense.ListFilter{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeList(w, exps)
}

func (h *Handler) listRange(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.DateOnly, chi.URLParam(r, "start"))
	if err != nil {
		http.Error(w, "invalid start date", http.StatusBadRequest)
		return
	}

	end, err := time.Parse(time.DateOnly, chi.URLParam(r, "end"))
	if err != nil {
		http.Error(w, "invalid end date", http.StatusBadRequest)
		return
	}

	exps, err := h.svc.List(r.Context(), expense.ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeList(w, exps)
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request) {
	status := expense.Status(chi.URLParam(r, "status"))
	if !validStatus(status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	exps, err := h.svc.List(r.Context(), expense.ListFilter{Status: &status})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeList(w, exps)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	exp, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(exp)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateExpenseRequest struct {
	Name              *string `json:"name,omitempty"`
	Value             *string `json:"value,omitempty"`
	Category          *string `json:"category,omitempty"`
	DueDate           *string `json:"dueDate,omitempty"`
	Type              *string `json:"type,omitempty"`
	TotalInstallments *int    `json:"totalInstallments,omitempty"`
	PaidInstallments  *int    `json:"paidInstallments,omitempty"`
	Status            *string `json:"status,omitempty"`
}

func (req *updateExpenseRequest) validate() (expense.UpdateParams, error) {
	var params expense.UpdateParams

	if req.Name != nil {
		if *req.Name == "" {
			return params, errors.New("name cannot be empty")
		}

		params.Name = req.Name
	}

	if req.Value != nil {
		value, err := decimal.NewFromString(*req.Value)
		if err != nil {
			return params, fmt.Errorf("invalid value %q", *req.Value)
		}

		params.Value = &value
	}

	if req.Category != nil {
		if *req.Category == "" {
			return params, errors.New("category cannot be empty")
		}

		params.Category = req.Category
	}

	if req.DueDate != nil {
		dueDate, err := time.Parse(time.DateOnly, *req.DueDate)
		if err != nil {
			return params, fmt.Errorf("invalid due date %q", *req.DueDate)
		}

		params.DueDate = &dueDate
	}

	if req.Type != nil {
		typ := expense.Type(*req.Type)
		if typ != expense.TypeFixed && typ != expense.TypeInstallment {
			return params, fmt.Errorf("invalid type %q", *req.Type)
		}

		params.Type = &typ
	}

	params.TotalInstallments = req.TotalInstallments
	params.PaidInstallments = req.PaidInstallments

	if req.Status != nil {
		status := expense.Status(*req.Status)
		if !validStatus(status) {
			return params, fmt.Errorf("invalid status %q", *req.Status)
		}

		params.Status = &status
	}

	return params, nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.validate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exp, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(exp)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !deleted {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeList(w http.ResponseWriter, exps []*expense.Expense) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(exps)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
