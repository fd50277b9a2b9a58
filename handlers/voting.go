// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/resolveja/community/auth"
	"github.com/resolveja/community/cliparse"
	"github.com/resolveja/community/middleware"
	"github.com/resolveja/community/models"
)

const (
	actionAdded   = "added"
	actionRemoved = "removed"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// ToggleUpvote handles POST /answers/{id}/upvote
// One live vote per (answer, voter identity): a vote is created if absent,
// removed if present. The UNIQUE constraint on the upvote table is the
// serialization point - an insert losing a same-identity race is treated
// as "vote already exists", never as a second increment.
func (h *VotingHandler) ToggleUpvote(w http.ResponseWriter, r *http.Request) {
	answerID := r.PathValue("id")
	if answerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "answer id is required")
		return
	}

	var req models.ToggleUpvoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.AccountID == "" && req.Client.UserAgent == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account_id or client signals required")
		return
	}

	voter := auth.ResolveVoterIdentity(req.AccountID, req.Client)

	var questionID string
	err := h.db.QueryRow(`SELECT question_id FROM answer WHERE id = $1`, answerID).Scan(&questionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Answer not found")
		return
	}
	if err != nil {
		slog.Error("failed to query answer", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRow(`
		SELECT id FROM upvote WHERE answer_id = $1 AND voter_identity = $2
	`, answerID, voter).Scan(&existingID)

	var action string

	switch {
	case err == nil:
		// Vote exists: remove it and decrement, floored at zero
		if _, err := tx.Exec(`DELETE FROM upvote WHERE id = $1`, existingID); err != nil {
			slog.Error("failed to delete upvote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle upvote")
			return
		}
		if _, err := tx.Exec(`
			UPDATE answer
			SET upvote_count = CASE WHEN upvote_count > 0 THEN upvote_count - 1 ELSE 0 END
			WHERE id = $1
		`, answerID); err != nil {
			slog.Error("failed to decrement upvote count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle upvote")
			return
		}
		action = actionRemoved

	case err == sql.ErrNoRows:
		// No vote yet: create one and increment
		_, err = tx.Exec(`
			INSERT INTO upvote (id, answer_id, voter_identity, created_at)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), answerID, voter, now)

		if isUniqueViolation(err) {
			// Lost a same-identity race: the vote already exists, so the
			// toggle converges to "added" without touching the counter.
			tx.Rollback()
			h.respondToggle(w, answerID, actionAdded)
			return
		}
		if err != nil {
			slog.Error("failed to insert upvote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle upvote")
			return
		}

		if _, err := tx.Exec(`
			UPDATE answer SET upvote_count = upvote_count + 1 WHERE id = $1
		`, answerID); err != nil {
			slog.Error("failed to increment upvote count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle upvote")
			return
		}
		action = actionAdded

	default:
		slog.Error("failed to query upvote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// A vote change counts as question activity
	if _, err := tx.Exec(`
		UPDATE question SET last_activity_at = $1 WHERE id = $2
	`, now, questionID); err != nil {
		slog.Error("failed to stamp question activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle upvote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit upvote toggle", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle upvote")
		return
	}

	slog.Info("upvote toggled", "answer_id", answerID, "action", action)

	h.respondToggle(w, answerID, action)
}

func (h *VotingHandler) respondToggle(w http.ResponseWriter, answerID, action string) {
	var count int
	if err := h.db.QueryRow(`SELECT upvote_count FROM answer WHERE id = $1`, answerID).Scan(&count); err != nil {
		slog.Error("failed to read upvote count", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ToggleUpvoteResponse{
		Action:      action,
		UpvoteCount: count,
	})
}

// ListVotesForVoter handles POST /votes/lookup
// Returns the subset of answer_ids the voter currently holds votes on.
// POST because the anonymous identity is derived from client signals
// carried in the body.
func (h *VotingHandler) ListVotesForVoter(w http.ResponseWriter, r *http.Request) {
	var req models.VoteLookupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.AnswerIDs) == 0 {
		middleware.JSONResponse(w, http.StatusOK, models.VoteLookupResponse{VotedAnswerIDs: []string{}})
		return
	}

	voter := auth.ResolveVoterIdentity(req.AccountID, req.Client)

	voted, err := votedAnswerIDs(h.db, voter, req.AnswerIDs)
	if err != nil {
		slog.Error("failed to query votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteLookupResponse{VotedAnswerIDs: voted})
}

// votedAnswerIDs returns which of answerIDs carry a live vote from voter.
func votedAnswerIDs(db *sql.DB, voter string, answerIDs []string) ([]string, error) {
	args := []any{voter}
	for _, id := range answerIDs {
		args = append(args, id)
	}

	rows, err := db.Query(`
		SELECT answer_id FROM upvote
		WHERE voter_identity = $1 AND answer_id IN (`+inPlaceholders(2, len(answerIDs))+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	voted := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		voted = append(voted, id)
	}
	return voted, rows.Err()
}
