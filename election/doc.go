// Copyright (c) 2025 The election-backend authors.

/*
Package election implements the members, elections, candidacies and ballots
of the election service on top of database/sql.

# Engine

All operations hang off an Engine built around an open *sql.DB:

	engine := election.New(db,
		election.WithLogger(logger),
		election.WithRejectPolicy(election.RejectRetain),
	)

The engine reads "now" from a Clock so window checks can be tested with a
fixed instant. Every stored instant is UTC with whole-second precision.

# Lifecycle

An election is open for voting while start <= now <= end. Members apply
(PENDING), an admin approves or rejects, and only APPROVED candidates whose
member is not blocked can receive votes. Each member casts at most one vote
per election; the votes primary key enforces this even under concurrency.

Once an election has a vote it can no longer be edited. Deleting it removes
its votes, candidacies and candidacy history in one transaction.

# Errors

Every returned error wraps one of ErrNotFound, ErrValidation, ErrConflict,
ErrTimeWindow or ErrStore. Use errors.Is, or Kind for a short label:

	if errors.Is(err, election.ErrConflict) { ... }
*/
package election
