// Copyright (c) 2025 The election-backend authors.

/*
Package main provides the entry point for the election API server.

Members sign up, apply as candidates for time-boxed elections, and vote once
per election for an approved candidate. Administrators create elections,
decide on applications, block members and watch live results.

# Starting the Server

The server reads CLI flags, then the environment:

	DATABASE_URL=elections.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --jwt-secret ...

An --env-file loads variables from a dotenv file first.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): Token signing secret

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - TOKEN_TTL (--token-ttl): Token lifetime (default: 24h)
  - REJECT_POLICY (--reject-policy): retain (default) or delete
  - ADMIN_EMAIL, ADMIN_PASSWORD, ADMIN_NAME: Bootstrap administrator

# Architecture

  - election: Domain engine (members, registry, candidacy, ballots, results)
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: Auth, CORS, logging, JSON helpers
  - metrics: Prometheus counters and /metrics
  - models: Request/response and domain types
  - auth: Password hashing and JWTs
  - db: Connections and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
