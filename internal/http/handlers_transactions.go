package http

import (
	"net/http"

	"calico/internal/core"
	"calico/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	txs, err := s.deps.Transactions.List(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.respondCached(w, r, user, func() (any, error) {
		recent, err := s.deps.Reports.Recent(r.Context(), user)
		if err != nil {
			return nil, err
		}
		return toTransactionDTOs(recent), nil
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorDTO{Error: err.Error()})
		return
	}

	total, err := req.amountCents()
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := req.parseDate()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorDTO{Error: err.Error()})
		return
	}

	created, err := s.deps.Transactions.Create(r.Context(), services.CreateTransactionInput{
		UserID:       user,
		Vendor:       req.Vendor,
		Description:  req.Description,
		Total:        total,
		Date:         date,
		Kind:         core.Kind(req.Kind),
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateUser(user)
	writeJSON(w, http.StatusCreated, toTransactionDTO(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorDTO{Error: err.Error()})
		return
	}

	total, err := req.amountCents()
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := req.parseDate()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorDTO{Error: err.Error()})
		return
	}

	updated, err := s.deps.Transactions.Update(r.Context(), services.UpdateTransactionInput{
		UserID:       user,
		ID:           r.PathValue("id"),
		Vendor:       req.Vendor,
		Description:  req.Description,
		Total:        total,
		Date:         date,
		Kind:         core.Kind(req.Kind),
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateUser(user)
	writeJSON(w, http.StatusOK, toTransactionDTO(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.deps.Transactions.Delete(r.Context(), user, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateUser(user)
	w.WriteHeader(http.StatusNoContent)
}
