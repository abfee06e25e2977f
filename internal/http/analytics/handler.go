package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/despesas-dev/despesas/internal/analytics"
	"github.com/despesas-dev/despesas/internal/expense"
)

const defaultMonthCount = 6

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/by-category", h.byCategory)
	r.Get("/monthly/{months}", h.monthly)
	r.Get("/projection", h.projection)
	r.Get("/summary", h.summary)
	r.Get("/upcoming", h.upcoming)
}

type categoryTotalResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.ByCategory(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]categoryTotalResponse, len(totals))
	for i, t := range totals {
		resp[i] = categoryTotalResponse{Category: t.Category, Total: t.Total}
	}

	writeJSON(w, resp)
}

type monthlyTotalResponse struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	months, err := strconv.Atoi(chi.URLParam(r, "months"))
	if err != nil || months < 1 {
		months = defaultMonthCount
	}

	totals, err := h.svc.Monthly(r.Context(), months)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]monthlyTotalResponse, len(totals))
	for i, t := range totals {
		resp[i] = monthlyTotalResponse{Month: t.Month, Total: t.Total}
	}

	writeJSON(w, resp)
}

type projectionResponse struct {
	Months         []monthlyTotalResponse `json:"months"`
	Total          decimal.Decimal        `json:"total"`
	MonthlyAverage decimal.Decimal        `json:"monthlyAverage"`
}

func (h *Handler) projection(w http.ResponseWriter, r *http.Request) {
	proj, err := h.svc.Project(r.Context(), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := projectionResponse{
		Months:         make([]monthlyTotalResponse, len(proj.Months)),
		Total:          proj.Total,
		MonthlyAverage: proj.MonthlyAverage,
	}
	for i, m := range proj.Months {
		resp.Months[i] = monthlyTotalResponse{Month: m.Month, Total: m.Total}
	}

	writeJSON(w, resp)
}

type summaryResponse struct {
	Month   string          `json:"month"`
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
	Overdue decimal.Decimal `json:"overdue"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summarize(r.Context(), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, summaryResponse{
		Month:   summary.Month,
		Total:   summary.Total,
		Paid:    summary.Paid,
		Pending: summary.Pending,
		Overdue: summary.Overdue,
	})
}

type upcomingExpenseResponse struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Value   decimal.Decimal `json:"value"`
	DueDate string          `json:"dueDate"`
	Status  expense.Status  `json:"status"`
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	exps, err := h.svc.Upcoming(r.Context(), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]upcomingExpenseResponse, len(exps))
	for i, exp := range exps {
		resp[i] = upcomingExpenseResponse{
			ID:      exp.ID,
			Name:    exp.Name,
			Value:   exp.Value,
			DueDate: exp.DueDate.Format(time.DateOnly),
			Status:  exp.Status,
		}
	}

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
