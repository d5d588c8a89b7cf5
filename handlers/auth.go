// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/razeemarc/election-backend/auth"
	"github.com/razeemarc/election-backend/cliparse"
	"github.com/razeemarc/election-backend/election"
	"github.com/razeemarc/election-backend/middleware"
	"github.com/razeemarc/election-backend/models"
)

type AuthHandler struct {
	engine *election.Engine
	cfg    cliparse.Config
}

func NewAuthHandler(engine *election.Engine, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{engine: engine, cfg: cfg}
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, m models.Member) {
	token, err := auth.IssueToken(h.cfg.JWTSecret, m.ID, m.Email, m.Role, time.Now(), h.cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "member_id", m.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	middleware.JSONResponse(w, status, models.AuthResponse{Member: m, Token: token})
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and email are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	member, err := h.engine.RegisterMember(r.Context(), election.NewMember{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		engineError(w, "signup", err)
		return
	}

	h.issue(w, http.StatusCreated, member)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	member, err := h.engine.FindMemberByEmail(r.Context(), req.Email)
	if errors.Is(err, election.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		engineError(w, "login", err)
		return
	}

	if err := auth.CheckPassword(member.PasswordHash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	slog.Info("member logged in", "member_id", member.ID)
	h.issue(w, http.StatusOK, member)
}
