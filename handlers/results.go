// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/razeemarc/election-backend/election"
	"github.com/razeemarc/election-backend/middleware"
)

type ResultsHandler struct {
	engine *election.Engine
}

func NewResultsHandler(engine *election.Engine) *ResultsHandler {
	return &ResultsHandler{engine: engine}
}

// GetResults handles GET /results
// Results are public and live; there is no sealing until close.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.engine.GetResults(r.Context())
	if err != nil {
		engineError(w, "get results", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetElectionResults handles GET /results/{id}
func (h *ResultsHandler) GetElectionResults(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.GetElectionResults(r.Context(), r.PathValue("id"))
	if err != nil {
		engineError(w, "get election results", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// DashboardStats handles GET /dashboard/stats
func (h *ResultsHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.DashboardStats(r.Context())
	if err != nil {
		engineError(w, "dashboard stats", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}

// MonthlyElections handles GET /dashboard/monthly-elections?year=YYYY
// The year defaults to the current one.
func (h *ResultsHandler) MonthlyElections(w http.ResponseWriter, r *http.Request) {
	year := h.engine.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "year must be a number")
			return
		}
		year = y
	}

	counts, err := h.engine.MonthlyElectionCounts(r.Context(), year)
	if err != nil {
		engineError(w, "monthly elections", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, counts)
}
