package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"calico/internal/core"
	"calico/internal/ledger"
	"calico/internal/log"
	"calico/internal/storage"
)

// Wire DTOs. Monetary amounts are rendered as whole-currency floats; all
// arithmetic stays in cents up to this boundary.

type transactionDTO struct {
	ID          string  `json:"id"`
	Vendor      string  `json:"vendor"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"createdAt"`
	Kind        string  `json:"kind"`
	CategoryID  string  `json:"categoryId,omitempty"`
}

func toTransactionDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		Vendor:      t.Vendor,
		Description: t.Description,
		Amount:      t.Total.Float(),
		Date:        t.Date.UTC().Format("2006-01-02"),
		CreatedAt:   t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Kind:        string(t.Kind),
		CategoryID:  t.CategoryID,
	}
}

func toTransactionDTOs(txs []core.Transaction) []transactionDTO {
	out := make([]transactionDTO, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionDTO(t))
	}
	return out
}

type budgetRowDTO struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Categories []string `json:"categories"`
	Budget     float64  `json:"budget"`
	Spent      float64  `json:"spent"`
	Remaining  float64  `json:"remaining"`
	Progress   int64    `json:"progress"`
}

func toBudgetRowDTOs(rows []ledger.BudgetRow) []budgetRowDTO {
	out := make([]budgetRowDTO, 0, len(rows))
	for _, row := range rows {
		categories := []string{}
		if row.CategoryLabels != "" {
			categories = strings.Split(row.CategoryLabels, ", ")
		}
		out = append(out, budgetRowDTO{
			ID:         row.ID,
			Title:      row.Title,
			Categories: categories,
			Budget:     row.Budget.Float(),
			Spent:      row.Spent.Float(),
			Remaining:  row.Remaining.Float(),
			Progress:   row.Progress,
		})
	}
	return out
}

type summaryCardsDTO struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type dailyPointDTO struct {
	Date  string  `json:"date"`
	Spent float64 `json:"spent"`
}

func toDailyPointDTOs(series []ledger.DailyPoint) []dailyPointDTO {
	out := make([]dailyPointDTO, 0, len(series))
	for _, pt := range series {
		out = append(out, dailyPointDTO{Date: pt.Date, Spent: pt.Spent.Float()})
	}
	return out
}

type categorySpendDTO struct {
	CategoryID string  `json:"categoryId"`
	Label      string  `json:"label"`
	Spent      float64 `json:"spent"`
}

func toCategorySpendDTOs(ranked []ledger.CategorySpend) []categorySpendDTO {
	out := make([]categorySpendDTO, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, categorySpendDTO{CategoryID: c.CategoryID, Label: c.Label, Spent: c.Spent.Float()})
	}
	return out
}

type trendRowDTO struct {
	Month    string  `json:"month"`
	Category string  `json:"category"`
	Spent    float64 `json:"spent"`
	Budget   float64 `json:"budget"`
}

func toTrendRowDTOs(rows []ledger.TrendRow) []trendRowDTO {
	out := make([]trendRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, trendRowDTO{
			Month:    row.Month,
			Category: row.Category,
			Spent:    row.Spent.Float(),
			Budget:   row.Budget.Float(),
		})
	}
	return out
}

type alertDTO struct {
	Name    string `json:"name"`
	Percent int64  `json:"percent"`
}

func toAlertDTOs(alerts []ledger.OverspendAlert) []alertDTO {
	out := make([]alertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertDTO{Name: a.Name, Percent: a.Percent})
	}
	return out
}

type insightsDTO struct {
	OnTrackCount        int      `json:"onTrackCount"`
	NearingLimit        []string `json:"nearingLimit"`
	OverBudget          []string `json:"overBudget"`
	OnTrackPercentage   int64    `json:"onTrackPercentage"`
	Total               int      `json:"total"`
	SuggestedReductions []string `json:"suggestedReductions"`
}

type reportSummaryDTO struct {
	TotalBudget          float64    `json:"totalBudget"`
	TotalSpent           float64    `json:"totalSpent"`
	BudgetUsedPercentage int64      `json:"budgetUsedPercentage"`
	OverBudgetCount      int        `json:"overBudgetCount"`
	NetVariance          float64    `json:"netVariance"`
	OverspendingAlerts   []alertDTO `json:"overspendingAlerts"`
}

type themeDTO struct {
	Theme string `json:"theme"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Internal details never
// leak past the 5xx boundary.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, errorDTO{Error: "not authenticated"})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorDTO{Error: "not found"})
	case errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrEmptyVendor),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyName):
		writeJSON(w, http.StatusUnprocessableEntity, errorDTO{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentHTTP,
			log.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, errorDTO{Error: "internal error"})
	}
}
