// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/resolveja/community/cliparse"
	"github.com/resolveja/community/handlers"
	"github.com/resolveja/community/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(db, cfg)
	answerHandler := handlers.NewAnswerHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	moderationHandler := handlers.NewModerationHandler(db, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Questions
	mux.HandleFunc("POST /questions", middleware.WithLogging(questionHandler.CreateQuestion))
	mux.HandleFunc("GET /questions", middleware.WithLogging(questionHandler.ListQuestions))
	mux.HandleFunc("GET /questions/{id}", middleware.WithLogging(questionHandler.GetQuestion))
	mux.HandleFunc("POST /questions/{id}/view", middleware.WithLogging(questionHandler.IncrementViewCount))
	mux.HandleFunc("GET /categories/{id}/questions", middleware.WithLogging(questionHandler.ListByCategory))

	// Answers and voting (public)
	mux.HandleFunc("POST /questions/{id}/answers", middleware.WithLogging(answerHandler.CreateAnswer))
	mux.HandleFunc("POST /answers/{id}/upvote", middleware.WithLogging(votingHandler.ToggleUpvote))
	mux.HandleFunc("POST /votes/lookup", middleware.WithLogging(votingHandler.ListVotesForVoter))

	// Moderation (requires X-Account-ID + X-Mod-Key)
	mux.HandleFunc("POST /questions/{id}/solution", middleware.WithLogging(moderationHandler.MarkSolution))
	mux.HandleFunc("POST /questions/{id}/convert", middleware.WithLogging(moderationHandler.ConvertToArticle))
	mux.HandleFunc("POST /questions/{id}/recount", middleware.WithLogging(moderationHandler.Recount))

	// Stats rollup (cached)
	mux.HandleFunc("GET /stats", middleware.WithLogging(statsHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("community API v1"))
	})

	return mux
}
