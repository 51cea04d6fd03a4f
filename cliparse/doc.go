// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4747)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "postgres" (default) or "sqlite"
  - SessionSecret: Secret for session token signing (required)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - UploadSalt: Secret for signed upload URLs (required)
  - ExpiryWindow: Default tot expiry window (default: 168h)
  - UploadDir: Directory for uploaded images (default: ./uploads)
  - PublicBaseURL: Base URL for upload/image links (default: http://localhost:PORT)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	EXPIRY_WINDOW   → --expiry
	UPLOAD_DIR      → --upload-dir
	PUBLIC_BASE_URL → --base-url
	SESSION_SECRET  → --session-secret
	ADMIN_KEY_SALT  → --admin-salt
	UPLOAD_SALT     → --upload-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - EXPIRY_WINDOW must parse as a positive duration when set
  - SESSION_SECRET, ADMIN_KEY_SALT, and UPLOAD_SALT must be provided
*/
package cliparse
