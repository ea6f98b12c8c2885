package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"contas/internal/core"
	"contas/internal/finance"
)

// parseMonthParams extracts year and month from the query string,
// defaulting to the current civil month.
func (s *Server) parseMonthParams(r *http.Request) (int, int) {
	today := s.engine.Today()
	year, month := today.Year(), today.Month()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	return year, month
}

func (s *Server) handleMonthReport(w http.ResponseWriter, r *http.Request) {
	year, month := s.parseMonthParams(r)
	key := fmt.Sprintf("%04d-%02d", year, month)

	if report, ok := s.reportCache.Get(key); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	transactions, err := s.repo.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	goals, err := s.repo.ListGoals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	report := s.engine.MonthReport(transactions, goals, year, month)
	if report.Occurrences == nil {
		report.Occurrences = []core.Transaction{}
	}
	s.reportCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	const key = "balances"
	if balances, ok := s.balancesCache.Get(key); ok {
		writeJSON(w, http.StatusOK, balances)
		return
	}

	transactions, err := s.repo.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	goals, err := s.repo.ListGoals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	balances := s.engine.Balances(transactions, goals)
	if balances == nil {
		balances = []finance.MonthlyBalance{}
	}
	s.balancesCache.Set(key, balances)
	writeJSON(w, http.StatusOK, balances)
}

func (s *Server) handlePendingPayments(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.repo.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	groups := s.engine.PendingPayments(transactions)
	if groups.Overdue == nil {
		groups.Overdue = []core.Transaction{}
	}
	if groups.DueSoon == nil {
		groups.DueSoon = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	from, err := core.ParseDay(strings.TrimSpace(r.URL.Query().Get("from")))
	if err != nil {
		badRequest(w, fmt.Errorf("invalid from: %w", err))
		return
	}
	to, err := core.ParseDay(strings.TrimSpace(r.URL.Query().Get("to")))
	if err != nil {
		badRequest(w, fmt.Errorf("invalid to: %w", err))
		return
	}
	if to.Before(from) {
		badRequest(w, fmt.Errorf("to %s precedes from %s", to, from))
		return
	}

	transactions, err := s.repo.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	occurrences := s.engine.Calendar(transactions, from, to)
	if occurrences == nil {
		occurrences = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, occurrences)
}
