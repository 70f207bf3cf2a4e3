package http

import (
	"net/http"

	"calico/internal/services"
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorDTO{Error: err.Error()})
		return
	}

	amount, err := req.amountCents()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.deps.Budgets.Create(r.Context(), services.CreateBudgetInput{
		UserID:        user,
		Title:         req.Title,
		Amount:        amount,
		CategoryIDs:   req.CategoryIDs,
		CategoryNames: req.CategoryNames,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateUser(user)
	writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}

func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.respondCached(w, r, user, func() (any, error) {
		cards, err := s.deps.Reports.SummaryCards(r.Context(), user, s.now())
		if err != nil {
			return nil, err
		}
		return summaryCardsDTO{
			Income:   cards.Income.Float(),
			Expenses: cards.Expenses.Float(),
			Balance:  cards.Balance.Float(),
		}, nil
	})
}

func (s *Server) handleBudgetTable(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := periodFromQuery(r, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.respondCached(w, r, user, func() (any, error) {
		rows, err := s.deps.Reports.BudgetTable(r.Context(), user, p)
		if err != nil {
			return nil, err
		}
		return toBudgetRowDTOs(rows), nil
	})
}
