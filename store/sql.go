// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/polls-api/db"
	"github.com/danielhkuo/polls-api/models"
)

// SQLStore implements Store on PostgreSQL or SQLite.
type SQLStore struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

func NewSQLStore(conn *sql.DB, dialect string) *SQLStore {
	return &SQLStore{
		db:      conn,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// q rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func (s *SQLStore) q(query string) string {
	if s.dialect != db.DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (s *SQLStore) ListPolls(ctx context.Context) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, question, created_by, pub_date
		FROM poll
		ORDER BY id
	`))
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.Question, &p.CreatedBy, &p.PubDate); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read polls: %w", err)
	}

	return polls, nil
}

func (s *SQLStore) CreatePoll(ctx context.Context, question string, createdBy *int64) (models.Poll, error) {
	p := models.Poll{Question: question, CreatedBy: createdBy, PubDate: s.now()}

	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO poll (question, created_by, pub_date)
		VALUES (?, ?, ?)
		RETURNING id
	`), p.Question, p.CreatedBy, p.PubDate).Scan(&p.ID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	return p, nil
}

func (s *SQLStore) getPoll(ctx context.Context, id int64) (models.Poll, error) {
	var p models.Poll
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, question, created_by, pub_date
		FROM poll
		WHERE id = ?
	`), id).Scan(&p.ID, &p.Question, &p.CreatedBy, &p.PubDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, fmt.Errorf("poll %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	return p, nil
}

func (s *SQLStore) GetPoll(ctx context.Context, id int64) (models.PollWithChoices, error) {
	p, err := s.getPoll(ctx, id)
	if err != nil {
		return models.PollWithChoices{}, err
	}

	choices, err := s.queryChoices(ctx, id)
	if err != nil {
		return models.PollWithChoices{}, err
	}

	return models.PollWithChoices{Poll: p, Choices: choices}, nil
}

func (s *SQLStore) UpdatePoll(ctx context.Context, id int64, question string) (models.Poll, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE poll SET question = ? WHERE id = ?
	`), question, id)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to update poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to update poll: %w", err)
	}
	if n == 0 {
		return models.Poll{}, fmt.Errorf("poll %d: %w", id, ErrNotFound)
	}

	return s.getPoll(ctx, id)
}

// DeletePoll removes the poll with its choices and votes.
func (s *SQLStore) DeletePoll(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM vote WHERE poll_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM choice WHERE poll_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete choices: %w", err)
	}

	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM poll WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("poll %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) ListChoices(ctx context.Context, pollID int64) ([]models.Choice, error) {
	if _, err := s.getPoll(ctx, pollID); err != nil {
		return nil, err
	}
	return s.queryChoices(ctx, pollID)
}

func (s *SQLStore) queryChoices(ctx context.Context, pollID int64) ([]models.Choice, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT c.id, c.poll_id, c.choice_text, COUNT(v.id)
		FROM choice c
		LEFT JOIN vote v ON v.choice_id = c.id
		WHERE c.poll_id = ?
		GROUP BY c.id, c.poll_id, c.choice_text
		ORDER BY c.id
	`), pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	choices := []models.Choice{}
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.PollID, &c.ChoiceText, &c.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read choices: %w", err)
	}

	return choices, nil
}

func (s *SQLStore) CreateChoice(ctx context.Context, pollID int64, text string) (models.Choice, error) {
	if _, err := s.getPoll(ctx, pollID); err != nil {
		return models.Choice{}, err
	}

	c := models.Choice{PollID: pollID, ChoiceText: text}
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO choice (poll_id, choice_text)
		VALUES (?, ?)
		RETURNING id
	`), c.PollID, c.ChoiceText).Scan(&c.ID)
	if err != nil {
		return models.Choice{}, fmt.Errorf("failed to insert choice: %w", err)
	}

	return c, nil
}

func (s *SQLStore) CreateVote(ctx context.Context, pollID, choiceID int64, votedBy *int64) (models.Vote, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owner int64
	err = tx.QueryRowContext(ctx, s.q(`SELECT poll_id FROM choice WHERE id = ?`), choiceID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != pollID) {
		return models.Vote{}, fmt.Errorf("choice %d of poll %d: %w", choiceID, pollID, ErrNotFound)
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query choice: %w", err)
	}

	if votedBy != nil {
		var exists bool
		err = tx.QueryRowContext(ctx, s.q(`
			SELECT EXISTS(SELECT 1 FROM vote WHERE poll_id = ? AND voted_by = ?)
		`), pollID, *votedBy).Scan(&exists)
		if err != nil {
			return models.Vote{}, fmt.Errorf("failed to query votes: %w", err)
		}
		if exists {
			return models.Vote{}, ErrAlreadyVoted
		}
	}

	v := models.Vote{ChoiceID: choiceID, PollID: pollID, VotedBy: votedBy, VotedAt: s.now()}
	err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO vote (choice_id, poll_id, voted_by, voted_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), v.ChoiceID, v.PollID, v.VotedBy, v.VotedAt).Scan(&v.ID)
	if isUniqueViolation(err) {
		return models.Vote{}, ErrAlreadyVoted
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return models.Vote{}, ErrAlreadyVoted
		}
		return models.Vote{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return v, nil
}

func (s *SQLStore) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	if _, err := s.GetUserByUsername(ctx, username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	u := models.User{Username: username, Email: email, PasswordHash: passwordHash, DateJoined: s.now()}
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO app_user (username, email, password_hash, date_joined)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), u.Username, u.Email, u.PasswordHash, u.DateJoined).Scan(&u.ID)
	if isUniqueViolation(err) {
		return models.User{}, ErrUsernameTaken
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

func (s *SQLStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.getUser(ctx, "username = ?", username)
}

func (s *SQLStore) getUser(ctx context.Context, where string, arg any) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, username, email, password_hash, date_joined
		FROM app_user
		WHERE `+where), arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DateJoined)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
