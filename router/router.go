// Copyright (c) 2025 The election-backend authors.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/razeemarc/election-backend/cliparse"
	"github.com/razeemarc/election-backend/election"
	"github.com/razeemarc/election-backend/handlers"
	"github.com/razeemarc/election-backend/metrics"
	"github.com/razeemarc/election-backend/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	engine := election.New(db,
		election.WithLogger(slog.Default()),
		election.WithRejectPolicy(election.RejectPolicy(cfg.RejectPolicy)),
	)
	return newRouter(engine, cfg, metrics.New())
}

func newRouter(engine *election.Engine, cfg cliparse.Config, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// route registers a logged, instrumented handler; the pattern doubles as
	// the metrics label
	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, m.Instrument(pattern, middleware.WithLogging(h)))
	}
	member := func(h http.HandlerFunc) http.HandlerFunc { return middleware.RequireAuth(cfg.JWTSecret, h) }
	admin := func(h http.HandlerFunc) http.HandlerFunc { return middleware.RequireAdmin(cfg.JWTSecret, h) }

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(engine, cfg)
	memberHandler := handlers.NewMemberHandler(engine)
	electionHandler := handlers.NewElectionHandler(engine)
	candidateHandler := handlers.NewCandidateHandler(engine, m)
	votingHandler := handlers.NewVotingHandler(engine, m)
	resultsHandler := handlers.NewResultsHandler(engine)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Accounts
	route("POST /auth/signup", authHandler.Signup)
	route("POST /auth/login", authHandler.Login)

	// Member administration
	route("GET /members", admin(memberHandler.ListMembers))
	route("PATCH /members/{id}/block", admin(memberHandler.SetBlocked))

	// Election administration
	route("POST /admin/elections", admin(electionHandler.CreateElection))
	route("GET /admin/elections", admin(electionHandler.ListElections))
	route("GET /admin/elections/{id}", admin(electionHandler.GetElection))
	route("PUT /admin/elections/{id}", admin(electionHandler.UpdateElection))
	route("DELETE /admin/elections/{id}", admin(electionHandler.DeleteElection))

	// Public listings
	route("GET /elections/current", electionHandler.ListCurrent)
	route("GET /elections/upcoming", electionHandler.ListUpcoming)

	// Candidacies
	route("POST /candidates/apply", member(candidateHandler.Apply))
	route("GET /candidates/pending", admin(candidateHandler.ListPending))
	route("PATCH /candidates/{memberId}/{electionId}/decision", admin(candidateHandler.Decide))
	route("GET /candidates/{memberId}/{electionId}/history", admin(candidateHandler.History))

	// Voting
	route("POST /elections/{id}/votes", member(votingHandler.CastVote))

	// Results (public, live)
	route("GET /results", resultsHandler.GetResults)
	route("GET /results/{id}", resultsHandler.GetElectionResults)

	// Dashboard
	route("GET /dashboard/stats", admin(resultsHandler.DashboardStats))
	route("GET /dashboard/monthly-elections", admin(resultsHandler.MonthlyElections))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("election-backend API v1"))
	})

	return mux
}
