// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the polls API.

# Handler Types

Each handler is a struct over the store.Store port:

  - PollHandler: poll list, create, retrieve, update, partial update, destroy
  - ChoiceHandler: choices of a poll
  - VoteHandler: casting a vote
  - UserHandler: registration and login (also needs an auth.Authenticator)

	pollHandler := handlers.NewPollHandler(store.NewSQLStore(conn, cfg.DatabaseType))

# Path Parameters

Handlers read integer path parameters from the route table match:

	pollID, ok := route.ParamsFrom(r.Context()).Int("pk")

The poll is always "pk"; the choice of a vote is "choice_pk".

# Ownership

A poll created by an authenticated user can only be updated, deleted, or
given new choices by that user (403 otherwise). Polls created anonymously
are open to everyone.

# Votes

One vote per user and poll: a second vote answers 409. Votes cast without
authentication are not limited.
*/
package handlers
