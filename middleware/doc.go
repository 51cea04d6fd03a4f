// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and request/response helpers.

# Middleware

  - WithLogging: structured request logging via slog
  - WithAuth: optional session authentication; attaches claims to context
  - CORS: cross-origin headers and preflight handling

# Helpers

  - JSONResponse / ErrorResponse: JSON serialization with status codes
  - ParseJSONBody: request body decoding
  - VoterIP: voter identity IP resolution
  - CurrentUserID / CurrentClaims: principal accessors for handlers

# Voter IP Resolution

VoterIP derives the deduplication IP from proxy headers, in order:

 1. X-Real-IP
 2. First entry of X-Forwarded-For (comma-separated chain)
 3. The literal sentinel "unknown"

Resolution never fails. The sentinel means all un-proxied anonymous clients
share one identity; IP deduplication is a heuristic, not an identity proof.

# Authentication

WithAuth is applied to every route and never rejects a request itself.
It parses the Bearer token, verifies the signature and expiry, and confirms
the JTI still references a live sessions row. Handlers that require a
principal check CurrentUserID and return 401 themselves.
*/
package middleware
