// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/polls-api/auth"
	"github.com/danielhkuo/polls-api/middleware"
	"github.com/danielhkuo/polls-api/models"
	"github.com/danielhkuo/polls-api/route"
	"github.com/danielhkuo/polls-api/store"
)

// pathInt reads an integer path parameter captured by the route table
func pathInt(r *http.Request, name string) (int64, bool) {
	return route.ParamsFrom(r.Context()).Int(name)
}

// storeError answers a failed store call: 404 for unknown records, 500 otherwise
func storeError(w http.ResponseWriter, err error, notFound, op string) {
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, notFound)
		return
	}
	slog.Error("failed to "+op, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}

// isCreator reports whether the request may modify p. Polls without a
// creator are open to everyone.
func isCreator(r *http.Request, p models.Poll) bool {
	if p.CreatedBy == nil {
		return true
	}
	userID, ok := auth.UserIDFrom(r.Context())
	return ok && userID == *p.CreatedBy
}

// decode parses and validates a JSON body, writing the 400 itself on failure
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.ParseJSONBody(r, v); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	if fields := middleware.Validate(v); fields != nil {
		middleware.ValidationErrorResponse(w, fields)
		return false
	}
	return true
}
