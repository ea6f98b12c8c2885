// Package http exposes the REST API consumed by the single-page client.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"contas/internal/cache"
	"contas/internal/clock"
	"contas/internal/finance"
	"contas/internal/services"
	"contas/internal/storage"
)

type Server struct {
	http.Server

	repo      storage.Repository
	txService *services.TransactionService
	engine    *finance.Engine
	clk       clock.Clock

	rateLimiter *rateLimiter

	// Report caches, purged on every ledger mutation.
	reportCache   *cache.LRUCache[finance.MonthReport]
	balancesCache *cache.LRUCache[[]finance.MonthlyBalance]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, repo storage.Repository, txService *services.TransactionService, clk clock.Clock) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		repo:             repo,
		txService:        txService,
		engine:           finance.NewEngine(clk),
		clk:              clk,
		rateLimiter:      newRateLimiter(60, time.Minute),
		reportCache:      cache.NewLRUCache[finance.MonthReport](100, 5*time.Minute),
		balancesCache:    cache.NewLRUCache[[]finance.MonthlyBalance](10, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}
	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.with(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.with(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.with(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.with(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.with(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/transactions/{id}/toggle-paid", s.with(s.handleTogglePaid))

	mux.HandleFunc("GET /api/goals", s.with(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.with(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.with(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.with(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/contributions", s.with(s.handleAddContribution))
	mux.HandleFunc("PUT /api/goals/{id}/contributions/{cid}", s.with(s.handleUpdateContribution))
	mux.HandleFunc("DELETE /api/goals/{id}/contributions/{cid}", s.with(s.handleDeleteContribution))

	mux.HandleFunc("GET /api/shopping-items", s.with(s.handleListShoppingItems))
	mux.HandleFunc("POST /api/shopping-items", s.with(s.handleCreateShoppingItem))
	mux.HandleFunc("PUT /api/shopping-items/{id}", s.with(s.handleUpdateShoppingItem))
	mux.HandleFunc("DELETE /api/shopping-items/{id}", s.with(s.handleDeleteShoppingItem))

	mux.HandleFunc("GET /api/reports/month", s.with(s.handleMonthReport))
	mux.HandleFunc("GET /api/reports/balances", s.with(s.handleBalances))
	mux.HandleFunc("GET /api/reports/pending", s.with(s.handlePendingPayments))
	mux.HandleFunc("GET /api/calendar", s.with(s.handleCalendar))

	mux.HandleFunc("GET /api/export", s.with(s.handleExport))
	mux.HandleFunc("POST /api/import", s.with(s.handleImport))

	return s
}

// with adds security headers, rate limiting on mutations, a request id
// and request logging around a handler.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		setSecurityHeaders(w)
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// invalidateReports is called by every mutating handler: derived
// aggregates must never outlive the records that produced them.
func (s *Server) invalidateReports() {
	s.reportCache.Purge()
	s.balancesCache.Purge()
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cleaned := s.reportCache.CleanExpired() + s.balancesCache.CleanExpired()
			if cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.repo.ListShoppingItems(ctx); err != nil {
		slog.ErrorContext(ctx, "Readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage not ready"})
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
