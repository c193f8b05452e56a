// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/polls-api/auth"
	"github.com/danielhkuo/polls-api/middleware"
	"github.com/danielhkuo/polls-api/store"
)

type VoteHandler struct {
	store store.Store
}

func NewVoteHandler(s store.Store) *VoteHandler {
	return &VoteHandler{store: s}
}

// Create handles POST /polls/{pk}/choices/{choice_pk}/vote/
// The body is ignored: the voter is the authenticated user, or nobody
// when accounts are disabled.
func (h *VoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pathInt(r, "pk")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	choiceID, ok := pathInt(r, "choice_pk")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Choice not found")
		return
	}

	vote, err := h.store.CreateVote(r.Context(), pollID, choiceID, auth.UserIDPtr(r.Context()))
	if errors.Is(err, store.ErrAlreadyVoted) {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this poll")
		return
	}
	if err != nil {
		storeError(w, err, "Choice not found", "insert vote")
		return
	}

	slog.Info("vote cast", "poll_id", pollID, "choice_id", choiceID, "vote_id", vote.ID)

	middleware.JSONResponse(w, http.StatusCreated, vote)
}
