// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation, key signing, session tokens,
and password hashing.

# Tot IDs

Tots use short random base62 identifiers:

	id, err := auth.GenerateTotID() // e.g. "x3Fq9aK0Zp"

# Admin Keys

Admin keys are deterministic HMACs over a tot ID, so operators can re-derive
them from the server salt:

	key := auth.GenerateAdminKey(totID, salt)
	err := auth.ValidateAdminKey(totID, key, salt)

Admin operations (counter reconciliation) require the X-Admin-Key header.

# Upload Signatures

Signed upload URLs carry an expiry and an HMAC over the object name:

	sig := auth.SignUpload(name, expires, salt)
	err := auth.VerifyUpload(name, expires, sig, salt)

# Session Tokens

Sessions use HS256 JWTs carrying the user ID and a JTI that references the
sessions table; logout deletes the row, revoking the token early:

	tok, err := auth.SignSessionToken(userID, jti, secret, auth.SessionTTL)
	claims, err := auth.ParseSessionToken(tok, secret)

# Passwords

Passwords are hashed with bcrypt:

	hash, err := auth.HashPassword(pw)
	ok := auth.CheckPassword(hash, pw)
*/
package auth
