// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the community Q&A API server.

The service backs the help site's community forum: questions with flat
answers, anonymous upvoting with duplicate-vote prevention, moderator
solution marking, and one-way conversion of questions into draft
knowledge-base articles.

# Starting the Server

The server reads environment variables (optionally from a local .env) or
CLI flags:

	DATABASE_URL=file:community.db MOD_KEY_SALT=... go run main.go

Or with flags:

	go run main.go -p 3400 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - MOD_KEY_SALT (--mod-salt): Secret for moderator key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3400)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (questions, answers, voting, moderation, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Voter identity resolution and moderator keys
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
