// Package http is the JSON API surface: auth and user lifecycle, the two
// record collections, reference data and the dashboard balance.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"moneytrack/internal/auth"
	"moneytrack/internal/core"
	"moneytrack/internal/services"
	"moneytrack/internal/storage"
)

type Server struct {
	http.Server

	repo    *storage.Repository
	records *services.RecordService
	users   *services.UserService
	tokens  *auth.Service

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer wires all routes and returns a ready-to-run server.
func NewServer(addr string, repo *storage.Repository, records *services.RecordService, users *services.UserService, tokens *auth.Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		repo:        repo,
		records:     records,
		users:       users,
		tokens:      tokens,
		rateLimiter: newRateLimiter(),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.withCommon(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /auth/currencies", s.handleCurrencies)
	mux.HandleFunc("GET /auth/timezones", s.handleTimezones)
	mux.HandleFunc("POST /auth/forgot-password/{email}", s.handleForgotPassword)
	mux.HandleFunc("PUT /auth/reset-password/{id}", s.requireAuth(s.handleResetPassword))
	// The password route keeps its literal segment first so it can never
	// collide with the reset-password pattern above.
	mux.HandleFunc("PUT /auth/password/{id}", s.requireAuth(s.handleChangePassword))
	mux.HandleFunc("PUT /auth/{id}", s.requireAuth(s.handleUpdateUser))
	mux.HandleFunc("DELETE /auth/{id}", s.requireAuth(s.handleDeleteUser))
	mux.HandleFunc("GET /auth/{id}/check-password", s.requireAuth(s.handleCheckPassword))

	mux.HandleFunc("GET /categories", s.handleCategories)

	for _, family := range []core.Family{core.FamilyTransactions, core.FamilyDebts} {
		base := "/" + string(family)
		mux.HandleFunc("GET "+base+"/{userId}", s.requireAuth(s.handleListRecords(family)))
		mux.HandleFunc("POST "+base, s.requireAuth(s.handleCreateRecord(family)))
		mux.HandleFunc("PUT "+base+"/{id}", s.requireAuth(s.handleUpdateRecord(family)))
		mux.HandleFunc("DELETE "+base+"/{id}", s.requireAuth(s.handleDeleteRecord(family)))
		mux.HandleFunc("GET "+base+"/{userId}/balance/{kind}", s.requireAuth(s.handleBalance(family)))
		mux.HandleFunc("GET "+base+"/{userId}/chart", s.requireAuth(s.handleChart(family)))
	}

	mux.HandleFunc("GET /dashboard/balance/{userId}", s.requireAuth(s.handleDashboardBalance))

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageBody{Message: "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable,
			errorBody{Error: fmt.Sprintf("database not ready: %s", err)})
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "ready"})
}

// Shutdown stops the rate limiter bookkeeping and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
