// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, with validator tags:

  - CreatePollRequest: question
  - UpdatePollRequest: question (optional for PATCH)
  - CreateChoiceRequest: choice_text
  - CreateUserRequest: username, email, password
  - LoginRequest: username, password

# Response Types

  - CreateUserResponse: id, username, email, token
  - LoginResponse: token, expires_at
  - ErrorResponse: error, message, fields

# Domain Types

  - Poll: a question, optionally owned by the user who created it
  - Choice: an answer belonging to one poll, with its vote_count
  - PollWithChoices: poll detail body
  - Vote: one vote for a choice, optionally by a user
  - User: account; PasswordHash never leaves the server
*/
package models
