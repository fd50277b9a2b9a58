// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides database connection and schema management.

# Opening a Connection

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

"postgres" uses lib/pq; "sqlite" uses modernc.org/sqlite (no cgo). The
test suite runs entirely on in-memory SQLite.

# Schema

CreateSchema installs the per-dialect DDL and is idempotent:

	err := db.CreateSchema(conn, cfg.DatabaseType)

The schema carries the engine's hard invariants at the storage layer:

  - UNIQUE (answer_id, voter_identity) on upvote - one live vote per pair
  - CHECK on question.status - only open/resolved/converted
  - UNIQUE article.slug

Denormalized counters (question.answer_count, answer.upvote_count) are
caches of COUNT queries; the recount endpoint recomputes them from live
rows when drift is suspected.
*/
package db
