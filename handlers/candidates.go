// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"net/http"
	"strings"

	"github.com/razeemarc/election-backend/election"
	"github.com/razeemarc/election-backend/metrics"
	"github.com/razeemarc/election-backend/middleware"
	"github.com/razeemarc/election-backend/models"
)

type CandidateHandler struct {
	engine  *election.Engine
	metrics *metrics.Metrics
}

func NewCandidateHandler(engine *election.Engine, m *metrics.Metrics) *CandidateHandler {
	return &CandidateHandler{engine: engine, metrics: m}
}

// Apply handles POST /candidates/apply
// The caller applies for themselves.
func (h *CandidateHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req models.ApplyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ElectionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	candidate, err := h.engine.Apply(r.Context(), callerID(r), req.ElectionID, req.ProposedElectionDate)
	h.metrics.RecordEvent("apply", err)
	if err != nil {
		engineError(w, "apply", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// ListPending handles GET /candidates/pending
func (h *CandidateHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.engine.ListPending(r.Context())
	if err != nil {
		engineError(w, "list pending", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, pending)
}

// Decide handles PATCH /candidates/{memberId}/{electionId}/decision
func (h *CandidateHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req models.DecisionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	status := models.CandidateStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	candidate, err := h.engine.Decide(r.Context(), r.PathValue("memberId"), r.PathValue("electionId"), status)
	h.metrics.RecordEvent("decide", err)
	if err != nil {
		engineError(w, "decide", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidate)
}

// History handles GET /candidates/{memberId}/{electionId}/history
func (h *CandidateHandler) History(w http.ResponseWriter, r *http.Request) {
	events, err := h.engine.CandidacyHistory(r.Context(), r.PathValue("memberId"), r.PathValue("electionId"))
	if err != nil {
		engineError(w, "candidacy history", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, events)
}
