// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Validtot API server.

Validtot is a This-or-That polling service: users create two- or
three-option polls (optionally with images), share them, and visitors —
anonymous or registered — cast at most one vote per poll, after which
percentage results are shown.

# Starting the Server

The server reads configuration from environment variables, a .env file,
or CLI flags:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 4747 -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string
  - SESSION_SECRET (--session-secret): Secret for session token signing
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - UPLOAD_SALT (--upload-salt): Secret for signed upload URLs

Optional settings:

  - PORT (-p): Server port (default: 4747)
  - DATABASE_TYPE (-t): postgres (default) or sqlite
  - EXPIRY_WINDOW (--expiry): Default tot expiry window (default: 168h)
  - UPLOAD_DIR (--upload-dir): Image storage directory (default: ./uploads)
  - PUBLIC_BASE_URL (--base-url): Base URL in issued upload/image links

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (tots, voting, results, users, storage)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, optional auth, JSON helpers
  - models: Request/response types
  - auth: IDs, admin keys, session tokens, password hashing
  - db: Schema creation and driver error inspection
  - cliparse: Configuration parsing

# Vote Integrity

Each (tot, voter) pair gets at most one vote. The votes table enforces this
with a UNIQUE constraint so concurrent duplicate submissions cannot race
past the existence check, and a vote's ledger insert and counter increment
commit in a single transaction.

See package documentation for each component.
*/
package main
