package http

import (
	"net/http"

	"calico/internal/ledger"
)

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.respondCached(w, r, user, func() (any, error) {
		rows, err := s.deps.Reports.Trends(r.Context(), user)
		if err != nil {
			return nil, err
		}
		return toTrendRowDTOs(rows), nil
	})
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
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
		summary, err := s.deps.Reports.Summary(r.Context(), user, p)
		if err != nil {
			return nil, err
		}
		return reportSummaryDTO{
			TotalBudget:          summary.TotalBudget.Float(),
			TotalSpent:           summary.TotalSpent.Float(),
			BudgetUsedPercentage: summary.BudgetUsedPercent,
			OverBudgetCount:      summary.OverBudgetCount,
			NetVariance:          summary.NetVariance.Float(),
			OverspendingAlerts:   toAlertDTOs(summary.Alerts),
		}, nil
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
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
		report, err := s.deps.Reports.Insights(r.Context(), user, p, ledger.DefaultReductionPolicy())
		if err != nil {
			return nil, err
		}
		nearing := report.Classification.NearingLimit
		if nearing == nil {
			nearing = []string{}
		}
		over := report.Classification.OverBudget
		if over == nil {
			over = []string{}
		}
		reductions := report.SuggestedReductions
		if reductions == nil {
			reductions = []string{}
		}
		return insightsDTO{
			OnTrackCount:        report.Classification.OnTrackCount,
			NearingLimit:        nearing,
			OverBudget:          over,
			OnTrackPercentage:   report.Classification.OnTrackPercentage,
			Total:               report.Classification.Total,
			SuggestedReductions: reductions,
		}, nil
	})
}
