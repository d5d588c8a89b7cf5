// Copyright (c) 2025 The election-backend authors.

/*
Package db handles database connections and schema creation.

# Connections

Open selects the driver from the configured database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:elections.db")

PostgreSQL uses github.com/lib/pq. SQLite uses the pure-Go modernc.org/sqlite
driver with foreign keys enabled.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - members: identity records (role, blocked flag)
  - elections: title and voting window, CHECK (end_time > start_time)
  - candidates: one row per (member_id, election_id)
  - votes: primary key (member_id, election_id)
  - candidacy_events: append-only candidacy audit trail

# Relationships

	members 1──* candidates *──1 elections
	members 1──* votes      *──1 elections
	candidates 1──* votes (composite key candidate_id, election_id)

Foreign keys do not cascade. Deleting an election removes votes, candidacy
events and candidates explicitly, in that order, inside one transaction.

# Constraint Violations

IsUniqueViolation recognises unique and primary key violations from both
drivers so callers can report duplicates as conflicts.
*/
package db
