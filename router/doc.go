// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table.

NewRouter wires every handler onto a stdlib ServeMux using Go 1.22+
method-and-pattern routing:

	mux := router.NewRouter(db, cfg)

All routes are wrapped with request logging. CORS is applied to the whole
mux in main, so preflight requests never reach the route table.
*/
package router
