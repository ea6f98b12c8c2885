package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
	"contas/internal/finance"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.repo.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

// transactionView pairs a stored record with its due classification so
// the client can render a badge without re-deriving dates.
type transactionView struct {
	core.Transaction
	Classification finance.DueClassification `json:"classification"`
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.repo.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionView{
		Transaction:    t,
		Classification: finance.Classify(t, s.engine.Today()),
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		badRequest(w, err)
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Recurrence == "" {
		t.Recurrence = core.None
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if err := t.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.txService.Create(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		badRequest(w, err)
		return
	}
	t.ID = r.PathValue("id")
	if t.Recurrence == "" {
		t.Recurrence = core.None
	}
	if err := t.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.txService.Update(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTogglePaid(w http.ResponseWriter, r *http.Request) {
	t, err := s.txService.TogglePaid(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.txService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusNoContent, nil)
}
