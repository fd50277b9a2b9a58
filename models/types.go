// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Question status constants
const (
	StatusOpen      = "open"
	StatusResolved  = "resolved"
	StatusConverted = "converted"
)

// Article status constants
const (
	ArticleStatusDraft = "draft"
)

// Category listing sort modes
const (
	SortRecent   = "recent"
	SortPopular  = "popular"
	SortResolved = "resolved"
)

// ClientSignals are the browser-observable values an anonymous voter
// fingerprint is derived from. The fingerprint hashes the fields as a
// fixed ordered tuple, so adding a field changes every anonymous identity.
type ClientSignals struct {
	UserAgent      string `json:"user_agent"`
	Locale         string `json:"locale"`
	ScreenWidth    int    `json:"screen_width"`
	ScreenHeight   int    `json:"screen_height"`
	TimezoneOffset int    `json:"timezone_offset"`
}

// Request types

type CreateQuestionRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AuthorName  string   `json:"author_name"`
	AccountID   string   `json:"account_id"`
	CategoryID  string   `json:"category_id"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
}

type CreateAnswerRequest struct {
	Content    string   `json:"content"`
	AuthorName string   `json:"author_name"`
	AccountID  string   `json:"account_id"`
	Images     []string `json:"images"`
}

type ToggleUpvoteRequest struct {
	AccountID string        `json:"account_id"`
	Client    ClientSignals `json:"client"`
}

type VoteLookupRequest struct {
	AnswerIDs []string      `json:"answer_ids"`
	AccountID string        `json:"account_id"`
	Client    ClientSignals `json:"client"`
}

type MarkSolutionRequest struct {
	AnswerID string `json:"answer_id"`
}

type ConvertRequest struct {
	CategoryID string `json:"category_id"`
}

// Response types

type ToggleUpvoteResponse struct {
	Action      string `json:"action"` // "added" or "removed"
	UpvoteCount int    `json:"upvote_count"`
}

type VoteLookupResponse struct {
	VotedAnswerIDs []string `json:"voted_answer_ids"`
}

type MarkSolutionResponse struct {
	QuestionID string    `json:"question_id"`
	AnswerID   string    `json:"answer_id"`
	Status     string    `json:"status"`
	ResolvedAt time.Time `json:"resolved_at"`
}

type ViewCountResponse struct {
	QuestionID string `json:"question_id"`
	ViewCount  int    `json:"view_count"`
}

type RecountResponse struct {
	QuestionID   string         `json:"question_id"`
	AnswerCount  int            `json:"answer_count"`
	UpvoteCounts map[string]int `json:"upvote_counts"` // answer_id -> live row count
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Question struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	AuthorName         *string    `json:"author_name,omitempty"`
	AccountID          *string    `json:"account_id,omitempty"`
	CategoryID         *string    `json:"category_id,omitempty"`
	Tags               []string   `json:"tags"`
	Images             []string   `json:"images"`
	Status             string     `json:"status"`
	AnswerCount        int        `json:"answer_count"`
	ViewCount          int        `json:"view_count"`
	IsPinned           bool       `json:"is_pinned"`
	CreatedAt          time.Time  `json:"created_at"`
	LastActivityAt     time.Time  `json:"last_activity_at"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
	ConvertedProblemID *string    `json:"converted_problem_id,omitempty"`
}

type Answer struct {
	ID          string    `json:"id"`
	QuestionID  string    `json:"question_id"`
	Content     string    `json:"content"`
	AuthorName  *string   `json:"author_name,omitempty"`
	AccountID   *string   `json:"account_id,omitempty"`
	Images      []string  `json:"images"`
	Mentions    []string  `json:"mentions"`
	IsSolution  bool      `json:"is_solution"`
	UpvoteCount int       `json:"upvote_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Upvote struct {
	ID            string    `json:"id"`
	AnswerID      string    `json:"answer_id"`
	VoterIdentity string    `json:"-"` // Never expose in JSON
	CreatedAt     time.Time `json:"created_at"`
}

type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	CategoryID string    `json:"category_id"`
	Summary    string    `json:"summary"`
	Steps      []string  `json:"steps"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type QuestionWithAnswers struct {
	Question Question `json:"question"`
	Answers  []Answer `json:"answers"`
	// Answer IDs the requesting voter currently holds a vote on.
	// Present only when the request carries a voter identity.
	VotedAnswerIDs []string `json:"voted_answer_ids,omitempty"`
}

// Stats types

type CategoryStats struct {
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	TopicCount   int    `json:"topic_count"`
	CommentCount int    `json:"comment_count"`
}

type RecentTopic struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	IsPinned       bool      `json:"is_pinned"`
	AnswerCount    int       `json:"answer_count"`
	LastActivityAt time.Time `json:"last_activity_at"`
	LastActivity   string    `json:"last_activity"` // humanized, e.g. "3 minutes ago"
}

type StatsResponse struct {
	TotalQuestions    int             `json:"total_questions"`
	TotalAnswers      int             `json:"total_answers"`
	ResolvedQuestions int             `json:"resolved_questions"`
	ActiveToday       int             `json:"active_today"`
	Categories        []CategoryStats `json:"categories"`
	RecentTopics      []RecentTopic   `json:"recent_topics"`
}
