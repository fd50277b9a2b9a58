// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/resolveja/community/auth"
	"github.com/resolveja/community/cliparse"
	"github.com/resolveja/community/db"
)

var testDBCounter atomic.Int64

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own database, so tests never share state.
// The pool is pinned to a single connection: that keeps the in-memory
// database alive for the test's duration and serializes concurrent
// statements the way a real server's transaction scope would.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	conn, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3400,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		ModKeySalt:   "test-mod-salt",
	}
}

// ModeratorHeaders returns the header pair a privileged request needs.
func ModeratorHeaders(cfg cliparse.Config, accountID string) map[string]string {
	return map[string]string{
		"X-Account-ID": accountID,
		"X-Mod-Key":    auth.GenerateModeratorKey(accountID, cfg.ModKeySalt),
	}
}

// CreateTestCategory inserts a category and returns its ID
func CreateTestCategory(t *testing.T, conn *sql.DB, name string) string {
	t.Helper()

	categoryID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO category (id, name, created_at) VALUES ($1, $2, $3)
	`, categoryID, name, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return categoryID
}

// CreateTestQuestion inserts an open question and returns its ID.
// categoryID may be empty for an uncategorized question.
func CreateTestQuestion(t *testing.T, conn *sql.DB, title, categoryID string) string {
	t.Helper()

	questionID := uuid.NewString()
	var category *string
	if categoryID != "" {
		category = &categoryID
	}

	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO question (id, title, description, author_name, category_id,
		                      status, answer_count, view_count, is_pinned, created_at, last_activity_at)
		VALUES ($1, $2, 'A test question description.', 'TestUser', $3, 'open', 0, 0, FALSE, $4, $5)
	`, questionID, title, category, now, now)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return questionID
}

// PinQuestion flags a question as pinned
func PinQuestion(t *testing.T, conn *sql.DB, questionID string) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE question SET is_pinned = TRUE WHERE id = $1`, questionID); err != nil {
		t.Fatalf("Failed to pin question: %v", err)
	}
}

// CreateTestAnswer inserts an answer and bumps the question's counters
// the same way the engine does, returning the answer ID
func CreateTestAnswer(t *testing.T, conn *sql.DB, questionID, content string) string {
	t.Helper()

	answerID := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO answer (id, question_id, content, author_name, is_solution, upvote_count, created_at)
		VALUES ($1, $2, $3, 'TestUser', FALSE, 0, $4)
	`, answerID, questionID, content, now)
	if err != nil {
		t.Fatalf("Failed to create test answer: %v", err)
	}

	_, err = conn.Exec(`
		UPDATE question SET answer_count = answer_count + 1, last_activity_at = $1 WHERE id = $2
	`, now, questionID)
	if err != nil {
		t.Fatalf("Failed to bump answer count: %v", err)
	}

	return answerID
}

// CreateTestUpvote inserts an upvote row and increments the answer's counter
func CreateTestUpvote(t *testing.T, conn *sql.DB, answerID, voterIdentity string) string {
	t.Helper()

	upvoteID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO upvote (id, answer_id, voter_identity, created_at) VALUES ($1, $2, $3, $4)
	`, upvoteID, answerID, voterIdentity, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test upvote: %v", err)
	}

	_, err = conn.Exec(`UPDATE answer SET upvote_count = upvote_count + 1 WHERE id = $1`, answerID)
	if err != nil {
		t.Fatalf("Failed to bump upvote count: %v", err)
	}

	return upvoteID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
