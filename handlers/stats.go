// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/resolveja/community/cliparse"
	"github.com/resolveja/community/middleware"
	"github.com/resolveja/community/models"
)

// statsCacheTTL bounds staleness of the stats rollup. The payload is a
// pure read over the stores, so serving a snapshot up to this old is fine.
const statsCacheTTL = 30 * time.Second

// recentTopicsLimit caps the recent-topics list at one page.
const recentTopicsLimit = 8

type StatsHandler struct {
	db  *sql.DB
	cfg cliparse.Config

	mu       sync.Mutex
	cached   *models.StatsResponse
	cachedAt time.Time
}

func NewStatsHandler(db *sql.DB, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{db: db, cfg: cfg}
}

// GetStats handles GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cached != nil && time.Since(h.cachedAt) < statsCacheTTL {
		middleware.JSONResponse(w, http.StatusOK, h.cached)
		return
	}

	stats, err := h.computeStats()
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.cached = stats
	h.cachedAt = time.Now()

	middleware.JSONResponse(w, http.StatusOK, stats)
}

func (h *StatsHandler) computeStats() (*models.StatsResponse, error) {
	stats := &models.StatsResponse{
		Categories:   []models.CategoryStats{},
		RecentTopics: []models.RecentTopic{},
	}

	if err := h.db.QueryRow(`SELECT COUNT(*) FROM question`).Scan(&stats.TotalQuestions); err != nil {
		return nil, err
	}
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM answer`).Scan(&stats.TotalAnswers); err != nil {
		return nil, err
	}
	if err := h.db.QueryRow(`
		SELECT COUNT(*) FROM question WHERE status = $1
	`, models.StatusResolved).Scan(&stats.ResolvedQuestions); err != nil {
		return nil, err
	}

	// "Active today" uses the server's calendar day
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := h.db.QueryRow(`
		SELECT COUNT(*) FROM question WHERE last_activity_at >= $1
	`, midnight).Scan(&stats.ActiveToday); err != nil {
		return nil, err
	}

	// Per-category breakdown from live rows, not the cached counters
	rows, err := h.db.Query(`
		SELECT c.id, c.name, COUNT(DISTINCT q.id), COUNT(a.id)
		FROM category c
		LEFT JOIN question q ON q.category_id = c.id
		LEFT JOIN answer a ON a.question_id = q.id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cs models.CategoryStats
		if err := rows.Scan(&cs.CategoryID, &cs.Name, &cs.TopicCount, &cs.CommentCount); err != nil {
			return nil, err
		}
		stats.Categories = append(stats.Categories, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topicRows, err := h.db.Query(`
		SELECT id, title, status, is_pinned, answer_count, last_activity_at
		FROM question
		ORDER BY is_pinned DESC, last_activity_at DESC
		LIMIT $1
	`, recentTopicsLimit)
	if err != nil {
		return nil, err
	}
	defer topicRows.Close()

	for topicRows.Next() {
		var rt models.RecentTopic
		if err := topicRows.Scan(&rt.ID, &rt.Title, &rt.Status, &rt.IsPinned,
			&rt.AnswerCount, &rt.LastActivityAt); err != nil {
			return nil, err
		}
		rt.LastActivity = humanize.Time(rt.LastActivityAt)
		stats.RecentTopics = append(stats.RecentTopics, rt)
	}
	if err := topicRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
