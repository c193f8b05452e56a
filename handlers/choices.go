// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/polls-api/middleware"
	"github.com/danielhkuo/polls-api/models"
	"github.com/danielhkuo/polls-api/store"
)

type ChoiceHandler struct {
	store store.Store
}

func NewChoiceHandler(s store.Store) *ChoiceHandler {
	return &ChoiceHandler{store: s}
}

// List handles GET /polls/{pk}/choices/
func (h *ChoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pathInt(r, "pk")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	choices, err := h.store.ListChoices(r.Context(), pollID)
	if err != nil {
		storeError(w, err, "Poll not found", "query choices")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, choices)
}

// Create handles POST /polls/{pk}/choices/
// Only the poll's creator may add choices
func (h *ChoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	if !isCreator(r, poll.Poll) {
		middleware.ErrorResponse(w, http.StatusForbidden, "You can not create choice for this poll")
		return
	}

	var req models.CreateChoiceRequest
	if !decode(w, r, &req) {
		return
	}

	choice, err := h.store.CreateChoice(r.Context(), pollID, strings.TrimSpace(req.ChoiceText))
	if err != nil {
		storeError(w, err, "Poll not found", "insert choice")
		return
	}

	slog.Info("choice added", "poll_id", pollID, "choice_id", choice.ID)

	middleware.JSONResponse(w, http.StatusCreated, choice)
}
