// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/polls-api/auth"
	"github.com/danielhkuo/polls-api/cliparse"
	"github.com/danielhkuo/polls-api/db"
)

// TestPassword is the password of every user made by CreateTestUser
const TestPassword = "correct-horse-battery"

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: db.DialectSQLite,
		Routes:       cliparse.RoutesViewSet,
		Accounts:     true,
		TokenSecret:  "test-token-secret",
		TokenTTL:     time.Hour,
		LogLevel:     "error",
	}
}

// NewTestAuthenticator returns the authenticator matching cfg
func NewTestAuthenticator(cfg cliparse.Config) *auth.JWTAuthenticator {
	return auth.NewJWTAuthenticator(cfg.TokenSecret, cfg.TokenTTL)
}

// CreateTestUser inserts a user whose password is TestPassword and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, username string) int64 {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var id int64
	err = conn.QueryRow(`
		INSERT INTO app_user (username, email, password_hash, date_joined)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, username, username+"@example.com", hash, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestPoll creates a poll and returns its ID; createdBy may be nil
func CreateTestPoll(t *testing.T, conn *sql.DB, question string, createdBy *int64) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO poll (question, created_by, pub_date)
		VALUES (?, ?, ?)
		RETURNING id
	`, question, createdBy, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return id
}

// AddTestChoice adds a choice to a poll and returns the choice ID
func AddTestChoice(t *testing.T, conn *sql.DB, pollID int64, text string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO choice (poll_id, choice_text)
		VALUES (?, ?)
		RETURNING id
	`, pollID, text).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test choice: %v", err)
	}

	return id
}

// CastTestVote records a vote and returns its ID; votedBy may be nil
func CastTestVote(t *testing.T, conn *sql.DB, pollID, choiceID int64, votedBy *int64) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO vote (choice_id, poll_id, voted_by, voted_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, choiceID, pollID, votedBy, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return id
}

// AuthHeaders returns request headers carrying a valid token for userID
func AuthHeaders(t *testing.T, cfg cliparse.Config, userID int64) map[string]string {
	t.Helper()

	tok, err := NewTestAuthenticator(cfg).Issue(userID)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	return map[string]string{"Authorization": "Bearer " + tok.Value}
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var raw []byte
		if s, ok := body.(string); ok {
			raw = []byte(s)
		} else {
			raw, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
