package http

import (
	"net/http"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/dashboard"
	"fintrack/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	key := s.summaryCacheKey(user.ID)

	if summary, found := s.summaryCache.Get(key); found {
		s.logger.DebugContext(r.Context(), "Summary cache hit", log.FieldUserID, user.ID)
		writeJSON(w, http.StatusOK, summary)
		return
	}

	incomes, err := s.transactions.ListTransactions(r.Context(), user.ID, core.KindIncome)
	if err != nil {
		s.serverError(w, r, "dashboard", err)
		return
	}
	expenses, err := s.transactions.ListTransactions(r.Context(), user.ID, core.KindExpense)
	if err != nil {
		s.serverError(w, r, "dashboard", err)
		return
	}

	summary := dashboard.Compute(incomes, expenses, time.Now())
	s.summaryCache.Set(key, summary)

	writeJSON(w, http.StatusOK, summary)
}
