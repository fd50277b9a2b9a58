// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Request Logging

WithLogging wraps handlers with structured start/completion logs:

	mux.HandleFunc("POST /questions", middleware.WithLogging(h.CreateQuestion))

# JSON Helpers

	middleware.JSONResponse(w, http.StatusCreated, payload)
	middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
	err := middleware.ParseJSONBody(r, &req)

ErrorResponse emits the API's uniform error body: {"error": "...", "message": "..."}.

# CORS

CORS wraps the whole mux in main to allow the browser frontend's
cross-origin requests, including the X-Account-ID and X-Mod-Key headers.
*/
package middleware
