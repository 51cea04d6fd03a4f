// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes using Go 1.22+ method routing.

# Routes

Accounts:

	POST /auth/register
	POST /auth/login
	POST /auth/logout
	GET  /auth/me

Tots:

	POST /tots
	GET  /tots/public
	GET  /tots/search
	GET  /tots/{id}

Voting and results:

	POST /tots/{id}/vote
	GET  /tots/{id}/vote-status
	GET  /tots/{id}/results
	POST /tots/{id}/reconcile   (X-Admin-Key)

Image storage:

	POST /storage/upload-url
	PUT  /storage/upload/{name}  (signed)
	GET  /storage/images/{name}

Monitoring:

	GET /health
	GET /

Every API route runs through logging and optional-auth middleware; the
signed upload PUT and image GET skip auth since their access control is the
URL signature itself.
*/
package router
