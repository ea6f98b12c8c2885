package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
	"contas/internal/finance"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.repo.ListGoals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if goals == nil {
		goals = []core.SavingsGoal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.SavingsGoal
	if err := decodeJSON(r, &g); err != nil {
		badRequest(w, err)
		return
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	if g.Contributions == nil {
		g.Contributions = []core.SavingsContribution{}
	}
	finance.RecomputeCurrentAmount(&g)
	if err := g.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.repo.SaveGoal(r.Context(), g); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusCreated, g)
}

// handleUpdateGoal updates name, target and deadline. Contributions are
// managed through their own endpoints so the ledger invariant stays in
// one place.
func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var in core.SavingsGoal
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	g, err := s.repo.GetGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	g.Name = in.Name
	g.TargetAmount = in.TargetAmount
	g.Deadline = in.Deadline
	if err := g.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.repo.SaveGoal(r.Context(), g); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusNoContent, nil)
}

type contributionRequest struct {
	Amount core.Money `json:"amount"`
	Date   core.Date  `json:"date"`
}

func (s *Server) handleAddContribution(w http.ResponseWriter, r *http.Request) {
	var in contributionRequest
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	g, err := s.repo.GetGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	c := core.SavingsContribution{
		ID:        uuid.NewString(),
		Amount:    in.Amount,
		Date:      in.Date,
		CreatedAt: time.Now().UTC(),
	}
	if err := finance.AddContribution(&g, c); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.repo.SaveGoal(r.Context(), g); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleUpdateContribution(w http.ResponseWriter, r *http.Request) {
	var in contributionRequest
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	g, err := s.repo.GetGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := finance.UpdateContribution(&g, r.PathValue("cid"), in.Amount, in.Date); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.repo.SaveGoal(r.Context(), g); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteContribution(w http.ResponseWriter, r *http.Request) {
	g, err := s.repo.GetGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := finance.DeleteContribution(&g, r.PathValue("cid")); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.repo.SaveGoal(r.Context(), g); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports()
	writeJSON(w, http.StatusOK, g)
}
