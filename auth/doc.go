// Copyright (c) 2025 The election-backend authors.

/*
Package auth provides password hashing and bearer token utilities.

# Passwords

Passwords are hashed with bcrypt (cost 10) and must be at least six
characters long:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, attempt)

CheckPassword returns ErrInvalidCredentials on any mismatch so callers can't
distinguish an unknown email from a wrong password.

# Tokens

Tokens are HS256 JWTs whose subject is the member ID:

	token, err := auth.IssueToken(secret, memberID, email, role, time.Now(), ttl)
	claims, err := auth.ParseToken(secret, token)

ParseToken only accepts HS256, checks expiry, and requires a subject. Every
failure is reported as ErrInvalidToken.
*/
package auth
