// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"net/http"

	"github.com/razeemarc/election-backend/election"
	"github.com/razeemarc/election-backend/metrics"
	"github.com/razeemarc/election-backend/middleware"
	"github.com/razeemarc/election-backend/models"
)

type VotingHandler struct {
	engine  *election.Engine
	metrics *metrics.Metrics
}

func NewVotingHandler(engine *election.Engine, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{engine: engine, metrics: m}
}

// CastVote handles POST /elections/{id}/votes
// The voter is the bearer of the token; a second ballot gets 409 and a
// ballot outside the window 403.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	receipt, err := h.engine.CastVote(r.Context(), callerID(r), r.PathValue("id"), req.CandidateID)
	h.metrics.RecordEvent("vote", err)
	if err != nil {
		engineError(w, "cast vote", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, receipt)
}
