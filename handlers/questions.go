// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resolveja/community/cliparse"
	"github.com/resolveja/community/middleware"
	"github.com/resolveja/community/models"
)

// Caller-facing length bounds for question fields
const (
	titleMinLen       = 10
	titleMaxLen       = 150
	descriptionMinLen = 20
	descriptionMaxLen = 5000
	authorNameMaxLen  = 50
)

type QuestionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewQuestionHandler(db *sql.DB, cfg cliparse.Config) *QuestionHandler {
	return &QuestionHandler{db: db, cfg: cfg}
}

// CreateQuestion handles POST /questions
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	if len(req.Title) < titleMinLen || len(req.Title) > titleMaxLen {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("title must be %d-%d characters", titleMinLen, titleMaxLen))
		return
	}
	if len(req.Description) < descriptionMinLen || len(req.Description) > descriptionMaxLen {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("description must be %d-%d characters", descriptionMinLen, descriptionMaxLen))
		return
	}
	if len(req.AuthorName) > authorNameMaxLen {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("author_name must be at most %d characters", authorNameMaxLen))
		return
	}

	if req.CategoryID != "" {
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
	}

	questionID := uuid.NewString()
	now := time.Now()

	var authorName, accountID, categoryID *string
	if req.AuthorName != "" {
		authorName = &req.AuthorName
	}
	if req.AccountID != "" {
		accountID = &req.AccountID
	}
	if req.CategoryID != "" {
		categoryID = &req.CategoryID
	}

	tags := dedupeTags(req.Tags)

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO question (id, title, description, author_name, account_id, category_id,
		                      status, answer_count, view_count, is_pinned, created_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, FALSE, $8, $9)
	`, questionID, req.Title, req.Description, authorName, accountID, categoryID,
		models.StatusOpen, now, now)

	if err != nil {
		slog.Error("failed to insert question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	for _, tag := range tags {
		if _, err := tx.Exec(`
			INSERT INTO question_tag (question_id, tag) VALUES ($1, $2)
		`, questionID, tag); err != nil {
			slog.Error("failed to insert tag", "error", err, "question_id", questionID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
			return
		}
	}

	for i, url := range req.Images {
		if _, err := tx.Exec(`
			INSERT INTO question_image (question_id, position, url) VALUES ($1, $2, $3)
		`, questionID, i, url); err != nil {
			slog.Error("failed to insert image", "error", err, "question_id", questionID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	slog.Info("question created", "question_id", questionID, "category_id", req.CategoryID)

	question := models.Question{
		ID:             questionID,
		Title:          req.Title,
		Description:    req.Description,
		AuthorName:     authorName,
		AccountID:      accountID,
		CategoryID:     categoryID,
		Tags:           tags,
		Images:         append([]string{}, req.Images...),
		Status:         models.StatusOpen,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	middleware.JSONResponse(w, http.StatusCreated, question)
}

// ListQuestions handles GET /questions
// Optional filters: status, category_id, tag. Newest first.
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	query := `SELECT ` + questionColumns + ` FROM question`

	var conds []string
	var args []any

	if status := r.URL.Query().Get("status"); status != "" {
		if status != models.StatusOpen && status != models.StatusResolved && status != models.StatusConverted {
			middleware.ErrorResponse(w, http.StatusBadRequest, "status must be open, resolved or converted")
			return
		}
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
		args = append(args, categoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		args = append(args, tag)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM question_tag qt WHERE qt.question_id = question.id AND qt.tag = $%d)", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	h.respondQuestionList(w, query, args)
}

// ListByCategory handles GET /categories/{id}/questions
// sort: recent (default, pinned first), popular, resolved
func (h *QuestionHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")
	if categoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category id is required")
		return
	}

	exists, err := categoryExists(h.db, categoryID)
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}

	sortMode := r.URL.Query().Get("sort")
	if sortMode == "" {
		sortMode = models.SortRecent
	}

	query := `SELECT ` + questionColumns + ` FROM question WHERE category_id = $1`
	args := []any{categoryID}

	switch sortMode {
	case models.SortRecent:
		query += " ORDER BY is_pinned DESC, last_activity_at DESC"
	case models.SortPopular:
		query += " ORDER BY answer_count DESC, created_at DESC"
	case models.SortResolved:
		args = append(args, models.StatusResolved)
		query += " AND status = $2 ORDER BY is_pinned DESC, last_activity_at DESC"
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "sort must be recent, popular or resolved")
		return
	}

	h.respondQuestionList(w, query, args)
}

func (h *QuestionHandler) respondQuestionList(w http.ResponseWriter, query string, args []any) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			slog.Error("failed to scan question", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for i := range questions {
		tags, err := loadQuestionTags(h.db, questions[i].ID)
		if err != nil {
			slog.Error("failed to load tags", "error", err, "question_id", questions[i].ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		questions[i].Tags = tags
		questions[i].Images = []string{}
	}

	middleware.JSONResponse(w, http.StatusOK, questions)
}

// GetQuestion handles GET /questions/{id}
// Returns the question with its answers in display order. When the caller
// presents a voter identity (X-Account-ID header or ?fingerprint= query),
// the response includes which answers that voter has upvoted.
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
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

	question.Tags, err = loadQuestionTags(h.db, questionID)
	if err != nil {
		slog.Error("failed to load tags", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	question.Images, err = loadQuestionImages(h.db, questionID)
	if err != nil {
		slog.Error("failed to load images", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	answers, err := loadAnswers(h.db, questionID)
	if err != nil {
		slog.Error("failed to load answers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for i := range answers {
		answers[i].Images, err = loadAnswerImages(h.db, answers[i].ID)
		if err != nil {
			slog.Error("failed to load answer images", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		answers[i].Mentions, err = loadAnswerMentions(h.db, answers[i].ID)
		if err != nil {
			slog.Error("failed to load answer mentions", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	response := models.QuestionWithAnswers{
		Question: question,
		Answers:  answers,
	}

	identity := r.Header.Get("X-Account-ID")
	if identity == "" {
		identity = r.URL.Query().Get("fingerprint")
	}
	if identity != "" && len(answers) > 0 {
		answerIDs := make([]string, len(answers))
		for i, a := range answers {
			answerIDs[i] = a.ID
		}
		voted, err := votedAnswerIDs(h.db, identity, answerIDs)
		if err != nil {
			slog.Error("failed to load voter state", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		response.VotedAnswerIDs = voted
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// IncrementViewCount handles POST /questions/{id}/view
// Two statements, not an atomic increment: concurrent views may lose
// updates. view_count is a display metric; recount is not needed here.
func (h *QuestionHandler) IncrementViewCount(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var viewCount int
	err := h.db.QueryRow(`SELECT view_count FROM question WHERE id = $1`, questionID).Scan(&viewCount)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query view count", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	viewCount++
	_, err = h.db.Exec(`UPDATE question SET view_count = $1 WHERE id = $2`, viewCount, questionID)
	if err != nil {
		slog.Error("failed to update view count", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update view count")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ViewCountResponse{
		QuestionID: questionID,
		ViewCount:  viewCount,
	})
}

// dedupeTags trims, drops empties, and removes duplicates preserving order.
func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := []string{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
