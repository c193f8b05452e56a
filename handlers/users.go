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
	"github.com/danielhkuo/polls-api/store"
)

type UserHandler struct {
	store store.Store
	auth  auth.Authenticator
}

func NewUserHandler(s store.Store, a auth.Authenticator) *UserHandler {
	return &UserHandler{store: s, auth: a}
}

// Create handles POST /users/
// Responds with the new user and a session token
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		middleware.ValidationErrorResponse(w, map[string]string{
			"password": "Ensure this field has no more than 72 bytes.",
		})
		return
	}
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Username, req.Email, hash)
	if errors.Is(err, store.ErrUsernameTaken) {
		middleware.ValidationErrorResponse(w, map[string]string{
			"username": "A user with that username already exists.",
		})
		return
	}
	if err != nil {
		storeError(w, err, "User not found", "insert user")
		return
	}

	tok, err := h.auth.Issue(user.ID)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	slog.Info("user created", "user_id", user.ID, "username", user.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateUserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    tok.Value,
	})
}

// Login handles POST /login/
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Wrong Credentials")
		return
	}
	if err != nil {
		storeError(w, err, "User not found", "query user")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		slog.Debug("login rejected", "username", req.Username)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Wrong Credentials")
		return
	}

	tok, err := h.auth.Issue(user.ID)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "token_id", tok.ID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
	})
}
