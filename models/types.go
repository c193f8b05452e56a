package models

import "time"

// Request types

type CreatePollRequest struct {
	Question string `json:"question" validate:"required,notblank,max=100"`
}

// Fields left nil are not changed by PATCH.
type UpdatePollRequest struct {
	Question *string `json:"question" validate:"omitnil,notblank,max=100"`
}

type CreateChoiceRequest struct {
	ChoiceText string `json:"choice_text" validate:"required,notblank,max=100"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response types

type CreateUserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Domain types

type Poll struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	CreatedBy *int64    `json:"created_by"`
	PubDate   time.Time `json:"pub_date"`
}

type Choice struct {
	ID         int64  `json:"id"`
	PollID     int64  `json:"poll"`
	ChoiceText string `json:"choice_text"`
	VoteCount  int64  `json:"vote_count"`
}

type PollWithChoices struct {
	Poll
	Choices []Choice `json:"choices"`
}

type Vote struct {
	ID       int64     `json:"id"`
	ChoiceID int64     `json:"choice"`
	PollID   int64     `json:"poll"`
	VotedBy  *int64    `json:"voted_by"`
	VotedAt  time.Time `json:"voted_at"`
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DateJoined   time.Time `json:"date_joined"`
}

// Error response

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
