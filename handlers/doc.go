// Copyright (c) 2025 The election-backend authors.

/*
Package handlers contains HTTP request handlers for the election API.

# Handler Types

Each handler is a struct over the shared *election.Engine. AuthHandler also
holds the Config for token signing, and the candidacy and voting handlers
record into *metrics.Metrics:

  - AuthHandler: Signup and login, both returning a bearer token
  - MemberHandler: Member listing and blocking (admin)
  - ElectionHandler: Election CRUD (admin) and current/upcoming listings
  - CandidateHandler: Applications, decisions and candidacy history
  - VotingHandler: Ballot casting
  - ResultsHandler: Live results and dashboard statistics

Handlers are created via constructor functions:

	electionHandler := handlers.NewElectionHandler(engine)

# Identity

Handlers never parse tokens themselves. The router wraps them with
middleware.RequireAuth or middleware.RequireAdmin, and the caller's member
ID is read from the request context.

# Errors

Engine errors map onto status codes in one place (errors.go):

	not found    → 404
	validation   → 400
	conflict     → 409
	time window  → 403
	store        → 500 "Database error"
*/
package handlers
