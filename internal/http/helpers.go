package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"contas/internal/bundle"
	"contas/internal/core"
)

// maxBodySize bounds request bodies; import bundles are the largest
// legitimate payload and stay well under this.
const maxBodySize = 4 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses: missing records are
// 404, bad bundles are 400, invalid domain values are 422, everything
// else is a 500 with the detail kept out of the response body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		malformed *bundle.MalformedInputError
		schema    *bundle.SchemaError
	)
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &malformed), errors.As(err, &schema):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case isDomainError(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrEmptyDescription,
		core.ErrEmptyName,
		core.ErrInvalidKind,
		core.ErrInvalidRecurrence,
		core.ErrMissingDueDate,
		core.ErrInvalidTarget,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// badRequest reports a malformed request body without touching the
// domain error mapping.
func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
