// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the community Q&A API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - QuestionHandler: Question lifecycle (create, list, get, view count)
  - AnswerHandler: Answer creation with mention extraction
  - VotingHandler: Upvote toggling and vote lookup
  - ModerationHandler: Solution marking, article conversion, counter recount
  - StatsHandler: TTL-cached community rollups

Handlers are created via constructor functions that accept *sql.DB and Config:

	questionHandler := handlers.NewQuestionHandler(db, cfg)

# Question Lifecycle

Questions progress through three states: open → resolved → converted

	POST /questions                → CreateQuestion (status open)
	POST /questions/{id}/solution  → MarkSolution (open → resolved)
	POST /questions/{id}/convert   → ConvertToArticle (→ converted, terminal)

Moderator operations require the X-Account-ID and X-Mod-Key headers.

# Voting

Upvotes are toggles keyed by (answer, voter identity):

	POST /answers/{id}/upvote → ToggleUpvote (returns "added" or "removed")
	POST /votes/lookup        → ListVotesForVoter

Anonymous voters are deduplicated by a fingerprint of client signals
(see the auth package); the UNIQUE (answer_id, voter_identity)
constraint serializes same-identity races, and an insert losing that
race converges to "added" without touching the counter.

# Counters

question.answer_count and answer.upvote_count are denormalized caches of
COUNT queries, updated incrementally in the same transaction as the row
mutation. view_count is intentionally a read-then-write display metric.
POST /questions/{id}/recount rebuilds the cached counters from live rows.
*/
package handlers
