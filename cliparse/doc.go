// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3400)
  - DatabaseURL: Database connection string or SQLite path (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - ModKeySalt: Secret for moderator key HMAC (required)

# CLI Flags

	-p          Server port
	-d          Database URL
	-t          Database type
	--mod-salt  Moderator key salt

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	MOD_KEY_SALT  → --mod-salt

CLI flags take precedence over environment variables. main loads a local
.env file (via godotenv) before parsing, so either source works in dev.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - MOD_KEY_SALT must be provided
*/
package cliparse
