// Copyright (c) 2025 The election-backend authors.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (status,
duration_ms).

# Authentication

Member routes require a bearer token issued at login; admin routes also
require the ADMIN role:

	mux.HandleFunc("POST /candidates/apply", middleware.RequireAuth(secret, h.Apply))
	mux.HandleFunc("GET /members", middleware.RequireAdmin(secret, h.ListMembers))

Handlers read the caller from the request context:

	claims, _ := middleware.ClaimsFromContext(r.Context())

Missing or invalid tokens get 401, a non-admin on an admin route gets 403.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
