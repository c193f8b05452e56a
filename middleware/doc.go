// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

Handlers are wrapped per route name:

	h := middleware.WithLogging("poll-list",
		middleware.WithMetrics(m, "poll-list", pollHandler.List))

Both wrappers share a single status recorder, so the logged status and the
counted status always agree.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin, table),
	}

An empty origin reflects the request's Origin header (or "*").

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ValidationErrorResponse(w, fields)

Parse and validate request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if fields := middleware.Validate(req); fields != nil {
		middleware.ValidationErrorResponse(w, fields)
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)
*/
package middleware
