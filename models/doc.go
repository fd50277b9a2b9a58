// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateQuestionRequest: title, description, author_name, account_id, category_id, tags, images
  - CreateAnswerRequest: content, author_name, account_id, images
  - ToggleUpvoteRequest: account_id, client signals
  - VoteLookupRequest: answer_ids, account_id, client signals
  - MarkSolutionRequest: answer_id
  - ConvertRequest: category_id

# Response Types

Types for JSON responses:

  - ToggleUpvoteResponse: action ("added"/"removed"), upvote_count
  - VoteLookupResponse: voted_answer_ids
  - MarkSolutionResponse: question_id, answer_id, status, resolved_at
  - ViewCountResponse: question_id, view_count
  - RecountResponse: corrected counters after reconciliation
  - StatsResponse: community rollups
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Question: topic with denormalized answer/view counters and lifecycle state
  - Answer: flat response to a question, with mention and image lists
  - Upvote: one (answer, voter) endorsement row
  - Article: knowledge-base draft produced by conversion
  - Category: reference data owned by the content-authoring tooling

# Constants

Question lifecycle:

	StatusOpen      = "open"
	StatusResolved  = "resolved"
	StatusConverted = "converted"

Category listing sorts:

	SortRecent   = "recent"
	SortPopular  = "popular"
	SortResolved = "resolved"
*/
package models
