// Copyright (c) 2025 The election-backend authors.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignupRequest, LoginRequest: credentials
  - CreateElectionRequest: title, description, window, up to 5 member_ids
  - UpdateElectionRequest: partial election fields (nil = unchanged)
  - ApplyRequest: election_id, proposed_election_date
  - DecisionRequest: status (APPROVED or REJECTED)
  - CastVoteRequest: candidate_id
  - SetBlockedRequest: blocked

# Domain Types

  - Member: identity record; PasswordHash never serialised
  - Election: title and time window [start_time, end_time]
  - Candidate: one candidacy per (member, election) with a status
  - Vote: one vote per (member, election), immutable
  - CandidacyEvent: audit trail of candidacy transitions

# Candidacy States

	PENDING → APPROVED
	PENDING → REJECTED

A blocked member's candidacies are reported with is_blocked = true; the flag
is always derived from the member record.

# Results

ElectionResult lists CandidateTally entries ranked by vote count, earliest
application first on ties.
*/
package models
