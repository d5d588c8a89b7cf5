// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"net/http"

	"github.com/razeemarc/election-backend/election"
	"github.com/razeemarc/election-backend/middleware"
	"github.com/razeemarc/election-backend/models"
)

type ElectionHandler struct {
	engine *election.Engine
}

func NewElectionHandler(engine *election.Engine) *ElectionHandler {
	return &ElectionHandler{engine: engine}
}

// CreateElection handles POST /admin/elections
// The caller becomes the creator.
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	detail, err := h.engine.CreateElection(r.Context(), election.NewElection{
		CreatorID:    callerID(r),
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CandidateIDs: req.MemberIDs,
	})
	if err != nil {
		engineError(w, "create election", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, detail)
}

// ListElections handles GET /admin/elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.engine.ListElections(r.Context())
	if err != nil {
		engineError(w, "list elections", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /admin/elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	detail, err := h.engine.GetElection(r.Context(), r.PathValue("id"))
	if err != nil {
		engineError(w, "get election", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// UpdateElection handles PUT /admin/elections/{id}
// Omitted fields keep their current value.
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	detail, err := h.engine.UpdateElection(r.Context(), r.PathValue("id"), election.ElectionUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		engineError(w, "update election", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// DeleteElection handles DELETE /admin/elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	out, err := h.engine.DeleteElection(r.Context(), r.PathValue("id"))
	if err != nil {
		engineError(w, "delete election", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}

// ListCurrent handles GET /elections/current
func (h *ElectionHandler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	elections, err := h.engine.ListCurrent(r.Context())
	if err != nil {
		engineError(w, "list current", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, elections)
}

// ListUpcoming handles GET /elections/upcoming
func (h *ElectionHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	elections, err := h.engine.ListUpcoming(r.Context())
	if err != nil {
		engineError(w, "list upcoming", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, elections)
}
