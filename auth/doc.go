// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides dashboard user authentication and session tokens.

# Users File

Dashboard accounts live in a YAML document keyed by username:

	users:
	  analyst: 5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8
	  admin: $2b$10$...

A hash is either the SHA-256 hex digest of the password (see HashPassword)
or a bcrypt hash. Load it with:

	users, err := auth.LoadUsers("users.yaml")
	err = users.Authenticate(username, password)

# Session Tokens

Session tokens use HMAC-SHA256 over the expiry, a random nonce and the
username:

	token, expires := auth.IssueSessionToken(username, salt, ttl, time.Now())
	username, err := auth.ValidateSessionToken(token, salt, time.Now())

Tokens are stateless. Changing the salt invalidates every outstanding
session.

# IP Hashing

For privacy-preserving request logs:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
