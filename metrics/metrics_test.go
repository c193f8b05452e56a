// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.Observe("poll-list", "GET", "200", 5*time.Millisecond)
	m.Observe("poll-list", "GET", "200", 7*time.Millisecond)
	m.Observe("poll-list", "POST", "201", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal().WithLabelValues("poll-list", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal().WithLabelValues("poll-list", "POST", "201")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Observe("login", "POST", "400", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{code="400",method="POST",route="login"} 1`), body)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
}

func TestNew_Independent(t *testing.T) {
	// Two instances must not panic on duplicate registration.
	a, b := New(), New()
	a.Observe("x", "GET", "200", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RequestsTotal().WithLabelValues("x", "GET", "200")))
}
