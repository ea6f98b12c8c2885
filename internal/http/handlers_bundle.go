package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"contas/internal/bundle"
	"contas/internal/core"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
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

	out, err := bundle.Export(transactions, goals, s.clk.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	name := fmt.Sprintf("contas-export-%s.json", s.engine.Today())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write export", "error", err)
	}
}

type importResult struct {
	Mode         string `json:"mode"`
	Transactions int    `json:"transactions"`
	SavingsGoals int    `json:"savingsGoals"`
}

// handleImport validates an uploaded bundle and loads it. mode=replace
// (the default) swaps the whole ledger for the bundle; mode=merge
// upserts record by record and keeps everything else.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "replace"
	}
	if mode != "replace" && mode != "merge" {
		badRequest(w, fmt.Errorf("unknown mode %q", mode))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		badRequest(w, fmt.Errorf("read body: %w", err))
		return
	}

	b, err := bundle.Validate(body, s.engine.Today())
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	switch mode {
	case "replace":
		if err := s.repo.ReplaceAll(ctx, b.Transactions, b.SavingsGoals); err != nil {
			writeError(w, r, err)
			return
		}
	case "merge":
		for _, t := range b.Transactions {
			_, getErr := s.repo.GetTransaction(ctx, t.ID)
			switch {
			case getErr == nil:
				err = s.txService.Update(ctx, t)
			case errors.Is(getErr, core.ErrNotFound):
				err = s.txService.Create(ctx, t)
			default:
				err = getErr
			}
			if err != nil {
				writeError(w, r, err)
				return
			}
		}
		for _, g := range b.SavingsGoals {
			if err := s.repo.SaveGoal(ctx, g); err != nil {
				writeError(w, r, err)
				return
			}
		}
	}

	s.invalidateReports()
	writeJSON(w, http.StatusOK, importResult{
		Mode:         mode,
		Transactions: len(b.Transactions),
		SavingsGoals: len(b.SavingsGoals),
	})
}
