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

type ModerationHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewModerationHandler(db *sql.DB, cfg cliparse.Config) *ModerationHandler {
	return &ModerationHandler{db: db, cfg: cfg}
}

// MarkSolution handles POST /questions/{id}/solution (moderator only)
// Flags one answer as the accepted solution and resolves the question.
// Clearing siblings, setting the target and the status transition commit
// as one transaction; a failed commit leaves everything untouched and the
// caller retries the whole transition.
func (h *ModerationHandler) MarkSolution(w http.ResponseWriter, r *http.Request) {
	if err := requireModerator(r, h.cfg); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Moderator key required")
		return
	}

	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var req models.MarkSolutionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.AnswerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "answer_id is required")
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

	// resolved is only reachable from open; there is no reopen path
	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Question is not open")
		return
	}

	var belongs bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM answer WHERE id = $1 AND question_id = $2)
	`, req.AnswerID, questionID).Scan(&belongs)
	if err != nil {
		slog.Error("failed to query answer", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !belongs {
		middleware.ErrorResponse(w, http.StatusNotFound, "Answer not found for this question")
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

	// Clearing every sibling first makes the transition idempotent under
	// racing moderators: the last full sequence to commit is authoritative.
	if _, err := tx.Exec(`
		UPDATE answer SET is_solution = FALSE WHERE question_id = $1 AND id <> $2
	`, questionID, req.AnswerID); err != nil {
		slog.Error("failed to clear sibling solutions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to mark solution")
		return
	}

	if _, err := tx.Exec(`
		UPDATE answer SET is_solution = TRUE WHERE id = $1
	`, req.AnswerID); err != nil {
		slog.Error("failed to set solution flag", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to mark solution")
		return
	}

	if _, err := tx.Exec(`
		UPDATE question SET status = $1, resolved_at = $2, last_activity_at = $3 WHERE id = $4
	`, models.StatusResolved, now, now, questionID); err != nil {
		slog.Error("failed to resolve question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to mark solution")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit solution transition", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError,
			"Solution transition did not complete; retry the request")
		return
	}

	slog.Info("solution marked", "question_id", questionID, "answer_id", req.AnswerID)

	middleware.JSONResponse(w, http.StatusOK, models.MarkSolutionResponse{
		QuestionID: questionID,
		AnswerID:   req.AnswerID,
		Status:     models.StatusResolved,
		ResolvedAt: now,
	})
}

// ConvertToArticle handles POST /questions/{id}/convert (moderator only)
// Promotes a question into a draft knowledge-base article. The article
// insert and the question's terminal transition commit together, so a
// failure never leaves an orphaned article behind. Conversion is one-way:
// a converted question is rejected outright on a second call.
func (h *ModerationHandler) ConvertToArticle(w http.ResponseWriter, r *http.Request) {
	if err := requireModerator(r, h.cfg); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Moderator key required")
		return
	}

	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var req models.ConvertRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CategoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category_id is required")
		return
	}

	exists, err := categoryExists(h.db, req.CategoryID)
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}

	question, err := loadQuestion(h.db, questionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if question.Status == models.StatusConverted {
		middleware.ErrorResponse(w, http.StatusConflict, "Question has already been converted")
		return
	}

	// The accepted solution becomes the article summary; without one the
	// question's own body is used.
	summary := question.Description
	err = h.db.QueryRow(`
		SELECT content FROM answer WHERE question_id = $1 AND is_solution = TRUE
	`, questionID).Scan(&summary)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to query solution answer", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slug := auth.Slugify(question.Title)
	if slug == "" {
		slug = questionID
	}

	var slugTaken bool
	err = h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM article WHERE slug = $1)`, slug).Scan(&slugTaken)
	if err != nil {
		slog.Error("failed to query slug", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if slugTaken {
		slug = slug + "-" + uuid.NewString()[:8]
	}

	articleID := uuid.NewString()
	now := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO article (id, title, slug, category_id, summary, steps, status, created_at)
		VALUES ($1, $2, $3, $4, $5, '[]', $6, $7)
	`, articleID, question.Title, slug, req.CategoryID, summary, models.ArticleStatusDraft, now)

	if err != nil {
		slog.Error("failed to insert article", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to convert question")
		return
	}

	_, err = tx.Exec(`
		UPDATE question SET status = $1, converted_problem_id = $2 WHERE id = $3
	`, models.StatusConverted, articleID, questionID)
	if err != nil {
		slog.Error("failed to mark question converted", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to convert question")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit conversion", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError,
			"Conversion did not complete; retry the request")
		return
	}

	slog.Info("question converted", "question_id", questionID, "article_id", articleID, "slug", slug)

	middleware.JSONResponse(w, http.StatusCreated, models.Article{
		ID:         articleID,
		Title:      question.Title,
		Slug:       slug,
		CategoryID: req.CategoryID,
		Summary:    summary,
		Steps:      []string{},
		Status:     models.ArticleStatusDraft,
		CreatedAt:  now,
	})
}

// Recount handles POST /questions/{id}/recount (moderator only)
// Recomputes the question's answer_count and each answer's upvote_count
// from live rows. The incremental counters are caches; this is the
// reconciliation path when drift is suspected.
func (h *ModerationHandler) Recount(w http.ResponseWriter, r *http.Request) {
	if err := requireModerator(r, h.cfg); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Moderator key required")
		return
	}

	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM question WHERE id = $1)`, questionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE question
		SET answer_count = (SELECT COUNT(*) FROM answer a WHERE a.question_id = $1)
		WHERE id = $2
	`, questionID, questionID); err != nil {
		slog.Error("failed to recount answers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to recount")
		return
	}

	if _, err := tx.Exec(`
		UPDATE answer
		SET upvote_count = (SELECT COUNT(*) FROM upvote u WHERE u.answer_id = answer.id)
		WHERE question_id = $1
	`, questionID); err != nil {
		slog.Error("failed to recount upvotes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to recount")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit recount", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to recount")
		return
	}

	var answerCount int
	if err := h.db.QueryRow(`SELECT answer_count FROM question WHERE id = $1`, questionID).Scan(&answerCount); err != nil {
		slog.Error("failed to read answer count", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`SELECT id, upvote_count FROM answer WHERE question_id = $1`, questionID)
	if err != nil {
		slog.Error("failed to read upvote counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	upvoteCounts := map[string]int{}
	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			slog.Error("failed to scan upvote count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		upvoteCounts[id] = count
	}

	slog.Info("counters reconciled", "question_id", questionID, "answer_count", answerCount)

	middleware.JSONResponse(w, http.StatusOK, models.RecountResponse{
		QuestionID:   questionID,
		AnswerCount:  answerCount,
		UpvoteCounts: upvoteCounts,
	})
}
