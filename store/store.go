// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/polls-api/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	ErrAlreadyVoted  = fmt.Errorf("already voted in this poll: %w", ErrConflict)
	ErrUsernameTaken = fmt.Errorf("username already taken: %w", ErrConflict)
)

// Store is the persistence port used by the handlers. Records are keyed
// by database-generated integer ids.
type Store interface {
	ListPolls(ctx context.Context) ([]models.Poll, error)
	CreatePoll(ctx context.Context, question string, createdBy *int64) (models.Poll, error)
	GetPoll(ctx context.Context, id int64) (models.PollWithChoices, error)
	UpdatePoll(ctx context.Context, id int64, question string) (models.Poll, error)
	DeletePoll(ctx context.Context, id int64) error

	ListChoices(ctx context.Context, pollID int64) ([]models.Choice, error)
	CreateChoice(ctx context.Context, pollID int64, text string) (models.Choice, error)

	// CreateVote fails with ErrNotFound when the choice does not belong to
	// the poll and with ErrAlreadyVoted when votedBy already voted in it.
	CreateVote(ctx context.Context, pollID, choiceID int64, votedBy *int64) (models.Vote, error)

	CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// UserExists returns a check that reports whether a user id is still
// registered in s
func UserExists(s Store) func(ctx context.Context, id int64) (bool, error) {
	return func(ctx context.Context, id int64) (bool, error) {
		_, err := s.GetUser(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
}
