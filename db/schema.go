// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the database selected by cfg's type knob.
// "postgres" uses lib/pq; "sqlite" uses the cgo-free modernc driver.
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	switch databaseType {
	case "postgres":
		return sql.Open("postgres", databaseURL)
	case "sqlite":
		return sql.Open("sqlite", databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database type %q", databaseType)
	}
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, databaseType string) error {
	ddl := schemaPostgres
	if databaseType == "sqlite" {
		ddl = schemaSQLite
	}

	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The two dialects differ only in timestamp defaults and the article
// steps column type (JSONB vs TEXT). Placeholder-bearing queries in the
// handlers are shared between drivers, so all statements write $N
// placeholders strictly in order of first use.

const schemaPostgres = `
-- Categories (reference data, authored outside this engine)
CREATE TABLE IF NOT EXISTS category (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Questions (topics)
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    author_name TEXT,
    account_id TEXT,
    category_id TEXT REFERENCES category(id),
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'resolved', 'converted')),
    answer_count INTEGER NOT NULL DEFAULT 0,
    view_count INTEGER NOT NULL DEFAULT 0,
    is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    last_activity_at TIMESTAMP NOT NULL DEFAULT NOW(),
    resolved_at TIMESTAMP,
    converted_problem_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_question_status ON question(status);
CREATE INDEX IF NOT EXISTS idx_question_category ON question(category_id);
CREATE INDEX IF NOT EXISTS idx_question_activity ON question(last_activity_at);

CREATE TABLE IF NOT EXISTS question_tag (
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    tag TEXT NOT NULL,
    PRIMARY KEY (question_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_question_tag_tag ON question_tag(tag);

CREATE TABLE IF NOT EXISTS question_image (
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    url TEXT NOT NULL,
    PRIMARY KEY (question_id, position)
);

-- Answers
CREATE TABLE IF NOT EXISTS answer (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    author_name TEXT,
    account_id TEXT,
    is_solution BOOLEAN NOT NULL DEFAULT FALSE,
    upvote_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_answer_question ON answer(question_id);

CREATE TABLE IF NOT EXISTS answer_image (
    answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    url TEXT NOT NULL,
    PRIMARY KEY (answer_id, position)
);

CREATE TABLE IF NOT EXISTS answer_mention (
    answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
    mention TEXT NOT NULL,
    PRIMARY KEY (answer_id, mention)
);

-- Upvotes: the UNIQUE pair is the serialization point for toggle races
CREATE TABLE IF NOT EXISTS upvote (
    id TEXT PRIMARY KEY,
    answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
    voter_identity TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (answer_id, voter_identity)
);

CREATE INDEX IF NOT EXISTS idx_upvote_voter ON upvote(voter_identity);

-- Articles produced by question conversion
CREATE TABLE IF NOT EXISTS article (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    category_id TEXT NOT NULL REFERENCES category(id),
    summary TEXT NOT NULL,
    steps JSONB NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'draft',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_article_slug ON article(slug);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS category (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    author_name TEXT,
    account_id TEXT,
    category_id TEXT REFERENCES category(id),
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'resolved', 'converted')),
    answer_count INTEGER NOT NULL DEFAULT 0,
    view_count INTEGER NOT NULL DEFAULT 0,
    is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_activity_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    resolved_at TIMESTAMP,
    converted_problem_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_question_status ON question(status);
CREATE INDEX IF NOT EXISTS idx_question_category ON question(category_id);
CREATE INDEX IF NOT EXISTS idx_question_activity ON question(last_activity_at);

CREATE TABLE IF NOT EXISTS question_tag (
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    tag TEXT NOT NULL,
    PRIMARY KEY (question_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_question_tag_tag ON question_tag(tag);

CREATE TABLE IF NOT EXISTS question_image (
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    url TEXT NOT NULL,
    PRIMARY KEY (question_id, position)
);

CREATE TABLE IF NOT EXISTS answer (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    author_name TEXT,
    account_id TEXT,
    is_solution BOOLEAN NOT NULL DEFAULT FALSE,
    upvote_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_answer_question ON answer(question_id);

CREATE TABLE IF NOT EXISTS answer_image (
    answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    url TEXT NOT NULL,
    PRIMARY KEY (answer_id, position)
);

CREATE TABLE IF NOT EXISTS answer_mention (
    answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
    mention TEXT NOT NULL,
    PRIMARY KEY (answer_id, mention)
);

CREATE TABLE IF NOT EXISTS upvote (
    id TEXT PRIMARY KEY,
    answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
    voter_identity TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (answer_id, voter_identity)
);

CREATE INDEX IF NOT EXISTS idx_upvote_voter ON upvote(voter_identity);

CREATE TABLE IF NOT EXISTS article (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    category_id TEXT NOT NULL REFERENCES category(id),
    summary TEXT NOT NULL,
    steps TEXT NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'draft',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_article_slug ON article(slug);
`
