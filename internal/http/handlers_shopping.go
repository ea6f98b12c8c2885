package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"contas/internal/core"
)

func (s *Server) handleListShoppingItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.ListShoppingItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []core.ShoppingItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateShoppingItem(w http.ResponseWriter, r *http.Request) {
	var item core.ShoppingItem
	if err := decodeJSON(r, &item); err != nil {
		badRequest(w, err)
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if err := item.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.repo.CreateShoppingItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateShoppingItem(w http.ResponseWriter, r *http.Request) {
	var item core.ShoppingItem
	if err := decodeJSON(r, &item); err != nil {
		badRequest(w, err)
		return
	}
	item.ID = r.PathValue("id")
	if err := item.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.repo.UpdateShoppingItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteShoppingItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
