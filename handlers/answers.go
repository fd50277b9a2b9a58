// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resolveja/community/cliparse"
	"github.com/resolveja/community/middleware"
	"github.com/resolveja/community/models"
)

// Caller-facing length bounds for answer fields
const (
	contentMinLen = 5
	contentMaxLen = 5000
)

// mentionPattern matches @name tokens in answer bodies. Names may carry
// letters, digits, underscores, dots and hyphens.
var mentionPattern = regexp.MustCompile(`@([\p{L}\p{N}_.-]+)`)

type AnswerHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAnswerHandler(db *sql.DB, cfg cliparse.Config) *AnswerHandler {
	return &AnswerHandler{db: db, cfg: cfg}
}

// CreateAnswer handles POST /questions/{id}/answers
// The answer insert, the parent's answer_count bump and the activity
// stamp commit as one transaction so question reads observe them together.
func (h *AnswerHandler) CreateAnswer(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var req models.CreateAnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if len(req.Content) < contentMinLen || len(req.Content) > contentMaxLen {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("content must be %d-%d characters", contentMinLen, contentMaxLen))
		return
	}
	if len(req.AuthorName) > authorNameMaxLen {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("author_name must be at most %d characters", authorNameMaxLen))
		return
	}

	var status string
	err := h.db.QueryRow(`SELECT status FROM question WHERE id = $1`, questionID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status == models.StatusConverted {
		middleware.ErrorResponse(w, http.StatusConflict, "Question has been converted to an article")
		return
	}

	mentions := ExtractMentions(req.Content)
	answerID := uuid.NewString()
	now := time.Now()

	var authorName, accountID *string
	if req.AuthorName != "" {
		authorName = &req.AuthorName
	}
	if req.AccountID != "" {
		accountID = &req.AccountID
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO answer (id, question_id, content, author_name, account_id,
		                    is_solution, upvote_count, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, 0, $6)
	`, answerID, questionID, req.Content, authorName, accountID, now)

	if err != nil {
		slog.Error("failed to insert answer", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create answer")
		return
	}

	for i, url := range req.Images {
		if _, err := tx.Exec(`
			INSERT INTO answer_image (answer_id, position, url) VALUES ($1, $2, $3)
		`, answerID, i, url); err != nil {
			slog.Error("failed to insert answer image", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create answer")
			return
		}
	}

	for _, mention := range mentions {
		if _, err := tx.Exec(`
			INSERT INTO answer_mention (answer_id, mention) VALUES ($1, $2)
		`, answerID, mention); err != nil {
			slog.Error("failed to insert mention", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create answer")
			return
		}
	}

	// answer_count is a cache of COUNT(answer); it can drift under
	// failure and is reconcilable via the recount endpoint.
	_, err = tx.Exec(`
		UPDATE question SET answer_count = answer_count + 1, last_activity_at = $1 WHERE id = $2
	`, now, questionID)
	if err != nil {
		slog.Error("failed to update question counters", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create answer")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit answer", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create answer")
		return
	}

	slog.Info("answer created", "answer_id", answerID, "question_id", questionID)

	answer := models.Answer{
		ID:         answerID,
		QuestionID: questionID,
		Content:    req.Content,
		AuthorName: authorName,
		AccountID:  accountID,
		Images:     append([]string{}, req.Images...),
		Mentions:   mentions,
		CreatedAt:  now,
	}
	middleware.JSONResponse(w, http.StatusCreated, answer)
}

// ExtractMentions pulls @name tokens out of an answer body, deduplicated
// in order of first appearance.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	mentions := []string{}
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		mentions = append(mentions, name)
	}
	return mentions
}
