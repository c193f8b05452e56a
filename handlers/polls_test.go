// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/polls-api/auth"
	"github.com/danielhkuo/polls-api/db"
	"github.com/danielhkuo/polls-api/models"
	"github.com/danielhkuo/polls-api/route"
	"github.com/danielhkuo/polls-api/store"
	"github.com/danielhkuo/polls-api/testutil"
)

// setupStore returns a fresh database and the store on top of it
func setupStore(t *testing.T) (*sql.DB, store.Store) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return conn, store.NewSQLStore(conn, db.DialectSQLite)
}

// serve dispatches h as if the route table had matched with params,
// optionally on behalf of an authenticated user
func serve(h http.HandlerFunc, req *http.Request, userID *int64, params ...route.Param) *httptest.ResponseRecorder {
	ctx := route.WithParams(req.Context(), "test", params...)
	if userID != nil {
		ctx = auth.WithUserID(ctx, *userID)
	}
	w := httptest.NewRecorder()
	h(w, req.WithContext(ctx))
	return w
}

func pk(id int64) route.Param {
	return route.IntParam("pk", id)
}

func TestPollCreate(t *testing.T) {
	conn, s := setupStore(t)
	handler := NewPollHandler(s)
	alice := testutil.CreateTestUser(t, conn, "alice")

	tests := []struct {
		name           string
		requestBody    interface{}
		userID         *int64
		expectedStatus int
		checkResponse  func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:           "valid poll by user",
			requestBody:    models.CreatePollRequest{Question: "Tabs or spaces?"},
			userID:         &alice,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp models.Poll
				testutil.AssertJSON(t, w, &resp)
				if resp.ID == 0 {
					t.Error("Expected non-zero id")
				}
				if resp.Question != "Tabs or spaces?" {
					t.Errorf("Expected question 'Tabs or spaces?', got '%s'", resp.Question)
				}
				if resp.CreatedBy == nil || *resp.CreatedBy != alice {
					t.Errorf("Expected created_by %d, got %v", alice, resp.CreatedBy)
				}

				// Verify poll was created in database
				var question string
				err := conn.QueryRow("SELECT question FROM poll WHERE id = ?", resp.ID).Scan(&question)
				if err != nil {
					t.Fatalf("Failed to query poll: %v", err)
				}
			},
		},
		{
			name:           "anonymous poll",
			requestBody:    models.CreatePollRequest{Question: "Vim or Emacs?"},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				if !strings.Contains(w.Body.String(), `"created_by":null`) {
					t.Errorf("Expected null created_by, got %s", w.Body.String())
				}
			},
		},
		{
			name:           "missing question",
			requestBody:    models.CreatePollRequest{},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Fields["question"] == "" {
					t.Errorf("Expected question field error, got %v", resp.Fields)
				}
			},
		},
		{
			name:           "blank question",
			requestBody:    models.CreatePollRequest{Question: "   "},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Fields["question"] != "This field may not be blank." {
					t.Errorf("Expected blank question error, got %v", resp.Fields)
				}
			},
		},
		{
			name:           "question is trimmed",
			requestBody:    models.CreatePollRequest{Question: "  Padded?  "},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp models.Poll
				testutil.AssertJSON(t, w, &resp)
				if resp.Question != "Padded?" {
					t.Errorf("Expected question 'Padded?', got '%s'", resp.Question)
				}
			},
		},
		{
			name:           "question too long",
			requestBody:    models.CreatePollRequest{Question: strings.Repeat("?", 101)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/polls/", tt.requestBody, nil)
			w := serve(handler.Create, req, tt.userID)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestPollList(t *testing.T) {
	conn, s := setupStore(t)
	handler := NewPollHandler(s)

	t.Run("empty", func(t *testing.T) {
		w := serve(handler.List, testutil.MakeRequest("GET", "/polls/", nil, nil), nil)
		testutil.AssertStatus(t, w, http.StatusOK)
		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Errorf("Expected empty array, got %s", w.Body.String())
		}
	})

	first := testutil.CreateTestPoll(t, conn, "First", nil)
	second := testutil.CreateTestPoll(t, conn, "Second", nil)

	t.Run("ordered by id", func(t *testing.T) {
		w := serve(handler.List, testutil.MakeRequest("GET", "/polls/", nil, nil), nil)
		testutil.AssertStatus(t, w, http.StatusOK)

		var polls []models.Poll
		testutil.AssertJSON(t, w, &polls)
		if len(polls) != 2 {
			t.Fatalf("Expected 2 polls, got %d", len(polls))
		}
		if polls[0].ID != first || polls[1].ID != second {
			t.Errorf("Expected ids [%d %d], got [%d %d]", first, second, polls[0].ID, polls[1].ID)
		}
	})
}

func TestPollRetrieve(t *testing.T) {
	conn, s := setupStore(t)
	handler := NewPollHandler(s)

	alice := testutil.CreateTestUser(t, conn, "alice")
	bob := testutil.CreateTestUser(t, conn, "bob")
	pollID := testutil.CreateTestPoll(t, conn, "Lunch?", &alice)
	pizza := testutil.AddTestChoice(t, conn, pollID, "Pizza")
	testutil.AddTestChoice(t, conn, pollID, "Sushi")
	testutil.CastTestVote(t, conn, pollID, pizza, &alice)
	testutil.CastTestVote(t, conn, pollID, pizza, &bob)

	t.Run("with choices and counts", func(t *testing.T) {
		w := serve(handler.Retrieve, testutil.MakeRequest("GET", "/polls/1/", nil, nil), nil, pk(pollID))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.PollWithChoices
		testutil.AssertJSON(t, w, &resp)
		if resp.ID != pollID || resp.Question != "Lunch?" {
			t.Errorf("Unexpected poll %+v", resp.Poll)
		}
		if len(resp.Choices) != 2 {
			t.Fatalf("Expected 2 choices, got %d", len(resp.Choices))
		}
		if resp.Choices[0].VoteCount != 2 || resp.Choices[1].VoteCount != 0 {
			t.Errorf("Expected vote counts [2 0], got [%d %d]", resp.Choices[0].VoteCount, resp.Choices[1].VoteCount)
		}
	})

	t.Run("unknown poll", func(t *testing.T) {
		w := serve(handler.Retrieve, testutil.MakeRequest("GET", "/polls/999/", nil, nil), nil, pk(999))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("no path param", func(t *testing.T) {
		w := serve(handler.Retrieve, testutil.MakeRequest("GET", "/polls/x/", nil, nil), nil)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestPollUpdate(t *testing.T) {
	conn, s := setupStore(t)
	handler := NewPollHandler(s)

	alice := testutil.CreateTestUser(t, conn, "alice")
	bob := testutil.CreateTestUser(t, conn, "bob")
	owned := testutil.CreateTestPoll(t, conn, "Original", &alice)
	open := testutil.CreateTestPoll(t, conn, "Anyone", nil)

	question := func(id int64) string {
		var q string
		if err := conn.QueryRow("SELECT question FROM poll WHERE id = ?", id).Scan(&q); err != nil {
			t.Fatalf("Failed to query poll: %v", err)
		}
		return q
	}

	tests := []struct {
		name           string
		method         string
		pollID         int64
		userID         *int64
		requestBody    interface{}
		expectedStatus int
		expectQuestion string
	}{
		{"creator PUT", "PUT", owned, &alice, models.CreatePollRequest{Question: "Renamed"}, http.StatusOK, "Renamed"},
		{"other user PUT", "PUT", owned, &bob, models.CreatePollRequest{Question: "Hijacked"}, http.StatusForbidden, "Renamed"},
		{"anonymous PUT on owned poll", "PUT", owned, nil, models.CreatePollRequest{Question: "Hijacked"}, http.StatusForbidden, "Renamed"},
		{"PUT without question", "PUT", owned, &alice, map[string]string{}, http.StatusBadRequest, "Renamed"},
		{"creator PATCH", "PATCH", owned, &alice, map[string]string{"question": "Patched"}, http.StatusOK, "Patched"},
		{"empty PATCH keeps question", "PATCH", owned, &alice, map[string]string{}, http.StatusOK, "Patched"},
		{"PATCH empty question", "PATCH", owned, &alice, map[string]string{"question": ""}, http.StatusBadRequest, "Patched"},
		{"PATCH blank question", "PATCH", owned, &alice, map[string]string{"question": "   "}, http.StatusBadRequest, "Patched"},
		{"PATCH too long", "PATCH", owned, &alice, map[string]string{"question": strings.Repeat("x", 101)}, http.StatusBadRequest, "Patched"},
		{"anyone may edit a poll without creator", "PATCH", open, &bob, map[string]string{"question": "Edited"}, http.StatusOK, "Edited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.Update
			if tt.method == "PATCH" {
				h = handler.PartialUpdate
			}

			req := testutil.MakeRequest(tt.method, "/polls/1/", tt.requestBody, nil)
			w := serve(h, req, tt.userID, pk(tt.pollID))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if got := question(tt.pollID); got != tt.expectQuestion {
				t.Errorf("Expected question '%s', got '%s'", tt.expectQuestion, got)
			}
			if w.Code == http.StatusOK {
				var resp models.Poll
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if resp.Question != tt.expectQuestion {
					t.Errorf("Expected response question '%s', got '%s'", tt.expectQuestion, resp.Question)
				}
			}
		})
	}

	t.Run("unknown poll", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/polls/999/", models.CreatePollRequest{Question: "x"}, nil)
		w := serve(handler.Update, req, &alice, pk(999))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestPollDestroy(t *testing.T) {
	conn, s := setupStore(t)
	handler := NewPollHandler(s)

	alice := testutil.CreateTestUser(t, conn, "alice")
	bob := testutil.CreateTestUser(t, conn, "bob")
	pollID := testutil.CreateTestPoll(t, conn, "Doomed", &alice)
	choiceID := testutil.AddTestChoice(t, conn, pollID, "Yes")
	testutil.CastTestVote(t, conn, pollID, choiceID, &bob)

	t.Run("other user is forbidden", func(t *testing.T) {
		w := serve(handler.Destroy, testutil.MakeRequest("DELETE", "/polls/1/", nil, nil), &bob, pk(pollID))
		testutil.AssertStatus(t, w, http.StatusForbidden)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "You can not delete this poll" {
			t.Errorf("Unexpected message '%s'", resp.Message)
		}
	})

	t.Run("creator deletes with choices and votes", func(t *testing.T) {
		w := serve(handler.Destroy, testutil.MakeRequest("DELETE", "/polls/1/", nil, nil), &alice, pk(pollID))
		testutil.AssertStatus(t, w, http.StatusNoContent)

		for _, table := range []string{"poll", "choice", "vote"} {
			var n int
			if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
				t.Fatalf("Failed to count %s: %v", table, err)
			}
			if n != 0 {
				t.Errorf("Expected no rows in %s, got %d", table, n)
			}
		}
	})

	t.Run("already deleted", func(t *testing.T) {
		w := serve(handler.Destroy, testutil.MakeRequest("DELETE", "/polls/1/", nil, nil), &alice, pk(pollID))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
