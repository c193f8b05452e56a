// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/polls-api/models"
	"github.com/danielhkuo/polls-api/testutil"
)

func TestUserCreate(t *testing.T) {
	conn, s := setupStore(t)
	cfg := testutil.GetTestConfig()
	authn := testutil.NewTestAuthenticator(cfg)
	handler := NewUserHandler(s, authn)

	testutil.CreateTestUser(t, conn, "taken")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		badField       string
		checkResponse  func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name: "valid user",
			requestBody: models.CreateUserRequest{
				Username: "carol",
				Email:    "carol@example.com",
				Password: "long-enough",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp models.CreateUserResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ID == 0 || resp.Username != "carol" || resp.Email != "carol@example.com" {
					t.Errorf("Unexpected user %+v", resp)
				}

				claims, err := authn.Verify(resp.Token)
				if err != nil {
					t.Fatalf("Issued token does not verify: %v", err)
				}
				if claims.UserID != resp.ID {
					t.Errorf("Token is for user %d, expected %d", claims.UserID, resp.ID)
				}

				// Password is stored hashed
				var hash string
				if err := conn.QueryRow("SELECT password_hash FROM app_user WHERE id = ?", resp.ID).Scan(&hash); err != nil {
					t.Fatalf("Failed to query user: %v", err)
				}
				if hash == "long-enough" || !strings.HasPrefix(hash, "$2") {
					t.Errorf("Expected bcrypt hash, got '%s'", hash)
				}
			},
		},
		{
			name:           "no email",
			requestBody:    models.CreateUserRequest{Username: "dave", Password: "long-enough"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate username",
			requestBody:    models.CreateUserRequest{Username: "taken", Password: "long-enough"},
			expectedStatus: http.StatusBadRequest,
			badField:       "username",
		},
		{
			name:           "invalid username",
			requestBody:    models.CreateUserRequest{Username: "no spaces", Password: "long-enough"},
			expectedStatus: http.StatusBadRequest,
			badField:       "username",
		},
		{
			name:           "invalid email",
			requestBody:    models.CreateUserRequest{Username: "erin", Email: "erin", Password: "long-enough"},
			expectedStatus: http.StatusBadRequest,
			badField:       "email",
		},
		{
			name:           "short password",
			requestBody:    models.CreateUserRequest{Username: "frank", Password: "short"},
			expectedStatus: http.StatusBadRequest,
			badField:       "password",
		},
		{
			name:           "password too long",
			requestBody:    models.CreateUserRequest{Username: "grace", Password: strings.Repeat("p", 73)},
			expectedStatus: http.StatusBadRequest,
			badField:       "password",
		},
		{
			name:           "multi-byte password over 72 bytes",
			requestBody:    models.CreateUserRequest{Username: "heidi", Password: strings.Repeat("é", 40)},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Fields["password"] != "Ensure this field has no more than 72 bytes." {
					t.Errorf("Expected byte limit message, got %v", resp.Fields)
				}
			},
		},
		{
			name:           "invalid JSON",
			requestBody:    "{",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/users/", tt.requestBody, nil)
			w := serve(handler.Create, req, nil)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.badField != "" {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Fields[tt.badField] == "" {
					t.Errorf("Expected error on field '%s', got %v", tt.badField, resp.Fields)
				}
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	conn, s := setupStore(t)
	cfg := testutil.GetTestConfig()
	authn := testutil.NewTestAuthenticator(cfg)
	handler := NewUserHandler(s, authn)

	alice := testutil.CreateTestUser(t, conn, "alice")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectMessage  string
	}{
		{"valid credentials", models.LoginRequest{Username: "alice", Password: testutil.TestPassword}, http.StatusOK, ""},
		{"wrong password", models.LoginRequest{Username: "alice", Password: "nope-nope"}, http.StatusBadRequest, "Wrong Credentials"},
		{"unknown user", models.LoginRequest{Username: "mallory", Password: testutil.TestPassword}, http.StatusBadRequest, "Wrong Credentials"},
		{"missing password", models.LoginRequest{Username: "alice"}, http.StatusBadRequest, "Validation failed"},
		{"invalid JSON", "nope", http.StatusBadRequest, "Invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/login/", tt.requestBody, nil)
			w := serve(handler.Login, req, nil)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if w.Code == http.StatusOK {
				var resp models.LoginResponse
				testutil.AssertJSON(t, w, &resp)
				claims, err := authn.Verify(resp.Token)
				if err != nil {
					t.Fatalf("Issued token does not verify: %v", err)
				}
				if claims.UserID != alice {
					t.Errorf("Token is for user %d, expected %d", claims.UserID, alice)
				}
				if !resp.ExpiresAt.Equal(claims.ExpiresAt) {
					t.Errorf("expires_at %v does not match token expiry %v", resp.ExpiresAt, claims.ExpiresAt)
				}
				return
			}

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tt.expectMessage {
				t.Errorf("Expected message '%s', got '%s'", tt.expectMessage, resp.Message)
			}
		})
	}
}
