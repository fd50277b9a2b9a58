// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/resolveja/community/auth"
	"github.com/resolveja/community/cliparse"
	"github.com/resolveja/community/models"
)

// isUniqueViolation reports whether err is a storage-layer uniqueness
// constraint failure, for either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// requireModerator validates the X-Account-ID / X-Mod-Key header pair.
func requireModerator(r *http.Request, cfg cliparse.Config) error {
	accountID := r.Header.Get("X-Account-ID")
	modKey := r.Header.Get("X-Mod-Key")
	return auth.ValidateModeratorKey(accountID, modKey, cfg.ModKeySalt)
}

// inPlaceholders builds "$start,$start+1,..." for an IN clause of n values.
func inPlaceholders(start, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ",")
}

const questionColumns = `id, title, description, author_name, account_id, category_id, status,
       answer_count, view_count, is_pinned, created_at, last_activity_at,
       resolved_at, converted_problem_id`

func scanQuestion(row interface{ Scan(...any) error }) (models.Question, error) {
	var q models.Question
	err := row.Scan(
		&q.ID, &q.Title, &q.Description, &q.AuthorName, &q.AccountID, &q.CategoryID,
		&q.Status, &q.AnswerCount, &q.ViewCount, &q.IsPinned, &q.CreatedAt,
		&q.LastActivityAt, &q.ResolvedAt, &q.ConvertedProblemID,
	)
	return q, err
}

// loadQuestion fetches a question row. Returns sql.ErrNoRows when absent.
func loadQuestion(db *sql.DB, id string) (models.Question, error) {
	row := db.QueryRow(`SELECT `+questionColumns+` FROM question WHERE id = $1`, id)
	return scanQuestion(row)
}

func loadQuestionTags(db *sql.DB, questionID string) ([]string, error) {
	rows, err := db.Query(`SELECT tag FROM question_tag WHERE question_id = $1 ORDER BY tag`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func loadQuestionImages(db *sql.DB, questionID string) ([]string, error) {
	rows, err := db.Query(`SELECT url FROM question_image WHERE question_id = $1 ORDER BY position`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

func loadAnswerImages(db *sql.DB, answerID string) ([]string, error) {
	rows, err := db.Query(`SELECT url FROM answer_image WHERE answer_id = $1 ORDER BY position`, answerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

func loadAnswerMentions(db *sql.DB, answerID string) ([]string, error) {
	rows, err := db.Query(`SELECT mention FROM answer_mention WHERE answer_id = $1 ORDER BY mention`, answerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mentions := []string{}
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		mentions = append(mentions, m)
	}
	return mentions, rows.Err()
}

// loadAnswers returns a question's answers in display order: the accepted
// solution first, then by upvotes, oldest first as the tiebreak.
func loadAnswers(db *sql.DB, questionID string) ([]models.Answer, error) {
	rows, err := db.Query(`
		SELECT id, question_id, content, author_name, account_id, is_solution, upvote_count, created_at
		FROM answer
		WHERE question_id = $1
		ORDER BY is_solution DESC, upvote_count DESC, created_at ASC
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Content, &a.AuthorName,
			&a.AccountID, &a.IsSolution, &a.UpvoteCount, &a.CreatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func categoryExists(db *sql.DB, id string) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM category WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
