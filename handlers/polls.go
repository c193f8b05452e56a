// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/polls-api/auth"
	"github.com/danielhkuo/polls-api/middleware"
	"github.com/danielhkuo/polls-api/models"
	"github.com/danielhkuo/polls-api/store"
)

type PollHandler struct {
	store store.Store
}

func NewPollHandler(s store.Store) *PollHandler {
	return &PollHandler{store: s}
}

// List handles GET /polls/
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	polls, err := h.store.ListPolls(r.Context())
	if err != nil {
		storeError(w, err, "Poll not found", "list polls")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// Create handles POST /polls/
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if !decode(w, r, &req) {
		return
	}

	poll, err := h.store.CreatePoll(r.Context(), strings.TrimSpace(req.Question), auth.UserIDPtr(r.Context()))
	if err != nil {
		storeError(w, err, "Poll not found", "insert poll")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID)

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// Retrieve handles GET /polls/{pk}/
// Returns the poll with its choices and their vote counts
func (h *PollHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pathInt(r, "pk")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		storeError(w, err, "Poll not found", "query poll")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// Update handles PUT /polls/{pk}/
func (h *PollHandler) Update(w http.ResponseWriter, r *http.Request) {
	poll, ok := h.ownedPoll(w, r, "You can not update this poll")
	if !ok {
		return
	}

	var req models.CreatePollRequest
	if !decode(w, r, &req) {
		return
	}

	h.save(w, r, poll.ID, req.Question)
}

// PartialUpdate handles PATCH /polls/{pk}/
func (h *PollHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	poll, ok := h.ownedPoll(w, r, "You can not update this poll")
	if !ok {
		return
	}

	var req models.UpdatePollRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Question == nil {
		middleware.JSONResponse(w, http.StatusOK, poll)
		return
	}

	h.save(w, r, poll.ID, *req.Question)
}

// Destroy handles DELETE /polls/{pk}/
// Choices and votes of the poll go with it
func (h *PollHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	poll, ok := h.ownedPoll(w, r, "You can not delete this poll")
	if !ok {
		return
	}

	if err := h.store.DeletePoll(r.Context(), poll.ID); err != nil {
		storeError(w, err, "Poll not found", "delete poll")
		return
	}

	slog.Info("poll deleted", "poll_id", poll.ID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *PollHandler) save(w http.ResponseWriter, r *http.Request, pollID int64, question string) {
	poll, err := h.store.UpdatePoll(r.Context(), pollID, strings.TrimSpace(question))
	if err != nil {
		storeError(w, err, "Poll not found", "update poll")
		return
	}

	slog.Info("poll updated", "poll_id", poll.ID)

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// ownedPoll loads the poll named by the path and checks that the
// requester created it
func (h *PollHandler) ownedPoll(w http.ResponseWriter, r *http.Request, forbidden string) (models.Poll, bool) {
	pollID, ok := pathInt(r, "pk")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return models.Poll{}, false
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		storeError(w, err, "Poll not found", "query poll")
		return models.Poll{}, false
	}

	if !isCreator(r, poll.Poll) {
		middleware.ErrorResponse(w, http.StatusForbidden, forbidden)
		return models.Poll{}, false
	}

	return poll.Poll, true
}
