// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/polls-api/middleware"
)

type userKey struct{}

// WithUserID returns a context carrying the authenticated user ID
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserIDFrom returns the authenticated user ID, if any
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userKey{}).(int64)
	return id, ok
}

// UserIDPtr returns the authenticated user ID as a nullable value
func UserIDPtr(ctx context.Context) *int64 {
	if id, ok := UserIDFrom(ctx); ok {
		return &id
	}
	return nil
}

// UserExists reports whether the user named by a verified token is
// still registered
type UserExists func(ctx context.Context, userID int64) (bool, error)

// Authenticate wraps a handler with bearer token authentication.
// A present but invalid token is always rejected; a missing token is
// rejected only when required is set. When exists is non-nil a token
// whose user is gone is rejected too.
func Authenticate(a Authenticator, exists UserExists, required bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				if required {
					unauthorized(w, "Authentication credentials were not provided")
					return
				}
				next(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				unauthorized(w, "Invalid authorization header")
				return
			}

			claims, err := a.Verify(token)
			if err != nil {
				slog.Debug("token rejected", "error", err, "path", r.URL.Path)
				unauthorized(w, "Invalid token")
				return
			}

			if exists != nil {
				found, err := exists(r.Context(), claims.UserID)
				if err != nil {
					slog.Error("failed to query token user", "error", err, "user_id", claims.UserID)
					middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
					return
				}
				if !found {
					slog.Debug("token for unknown user", "user_id", claims.UserID, "path", r.URL.Path)
					unauthorized(w, "Invalid token")
					return
				}
			}

			next(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		}
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	middleware.ErrorResponse(w, http.StatusUnauthorized, message)
}
