// Copyright (c) 2025 The election-backend authors.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - JWTSecret: HMAC secret for bearer tokens (required)
  - TokenTTL: token lifetime (default: 24h)
  - RejectPolicy: retain (default) keeps rejected candidacies, delete removes them
  - AdminName, AdminEmail, AdminPassword: optional bootstrap administrator

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-jwt-secret     JWT signing secret
	-token-ttl      Token lifetime (Go duration)
	-reject-policy  retain or delete
	-env-file       dotenv file loaded before reading the environment

# Environment Variables

Flags fall back to environment variables:

	PORT, DATABASE_URL, DATABASE_TYPE, JWT_SECRET, TOKEN_TTL, REJECT_POLICY,
	ADMIN_NAME, ADMIN_EMAIL, ADMIN_PASSWORD

Values from -env-file never override variables that are already set.
*/
package cliparse
