// Copyright (c) 2025 The election-backend authors.

/*
Package router defines HTTP routes for the election API.

# Route Registration

NewRouter builds the election engine and metrics, then returns a configured
http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

Every route is logged and instrumented under its pattern.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Accounts (public):

	POST /auth/signup - Create member, returns token
	POST /auth/login  - Returns token

Administration (admin token):

	GET    /members                    - Members with candidacies
	PATCH  /members/{id}/block         - Block or unblock
	POST   /admin/elections            - Create election
	GET    /admin/elections            - List elections
	GET    /admin/elections/{id}       - Election detail
	PUT    /admin/elections/{id}       - Edit (until first vote)
	DELETE /admin/elections/{id}       - Delete with votes and candidacies
	GET    /candidates/pending         - Pending applications
	PATCH  /candidates/{memberId}/{electionId}/decision
	GET    /candidates/{memberId}/{electionId}/history
	GET    /dashboard/stats
	GET    /dashboard/monthly-elections?year=YYYY

Members (any valid token):

	POST /candidates/apply       - Apply for an election
	POST /elections/{id}/votes   - Cast the caller's ballot

Public:

	GET /elections/current
	GET /elections/upcoming
	GET /results
	GET /results/{id}
*/
package router
