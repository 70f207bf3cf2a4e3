package http

import (
	"net/http"
)

func (s *Server) handleSpending(w http.ResponseWriter, r *http.Request) {
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
		series, err := s.deps.Reports.Spending(r.Context(), user, p)
		if err != nil {
			return nil, err
		}
		return toDailyPointDTOs(series), nil
	})
}

func (s *Server) handleTopCategories(w http.ResponseWriter, r *http.Request) {
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
		ranked, err := s.deps.Reports.TopCategories(r.Context(), user, p)
		if err != nil {
			return nil, err
		}
		return toCategorySpendDTOs(ranked), nil
	})
}

func (s *Server) handleOverspending(w http.ResponseWriter, r *http.Request) {
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
		alerts, err := s.deps.Reports.Overspending(r.Context(), user, p)
		if err != nil {
			return nil, err
		}
		return toAlertDTOs(alerts), nil
	})
}
