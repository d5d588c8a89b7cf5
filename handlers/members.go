// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"net/http"

	"github.com/razeemarc/election-backend/election"
	"github.com/razeemarc/election-backend/middleware"
	"github.com/razeemarc/election-backend/models"
)

type MemberHandler struct {
	engine *election.Engine
}

func NewMemberHandler(engine *election.Engine) *MemberHandler {
	return &MemberHandler{engine: engine}
}

// callerID returns the member ID from the bearer token, if any
func callerID(r *http.Request) string {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return ""
	}
	return claims.MemberID()
}

// ListMembers handles GET /members
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.engine.ListMembers(r.Context())
	if err != nil {
		engineError(w, "list members", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, members)
}

// SetBlocked handles PATCH /members/{id}/block
func (h *MemberHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")

	var req models.SetBlockedRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	member, err := h.engine.SetBlocked(r.Context(), memberID, req.Blocked)
	if err != nil {
		engineError(w, "set blocked", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, member)
}
