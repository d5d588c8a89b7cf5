// Copyright (c) 2025 The election-backend authors.

package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/razeemarc/election-backend/election"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestInstrument(t *testing.T) {
	m := New()

	ok := m.Instrument("GET /results", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	missing := m.Instrument("GET /results/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		ok(w, httptest.NewRequest(http.MethodGet, "/results", nil))
		assert.Equal(t, "ok", w.Body.String())
	}
	w := httptest.NewRecorder()
	missing(w, httptest.NewRequest(http.MethodGet, "/results/x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="GET",route="GET /results",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",route="GET /results/{id}",status="404"} 1`)
	assert.Contains(t, body, `http_request_duration_seconds_count{route="GET /results"} 2`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRecordEvent(t *testing.T) {
	m := New()

	m.RecordEvent("vote", nil)
	m.RecordEvent("vote", fmt.Errorf("%w: already voted", election.ErrConflict))
	m.RecordEvent("vote", fmt.Errorf("%w: closed", election.ErrTimeWindow))
	m.RecordEvent("vote", nil)

	body := scrape(t, m)
	assert.Contains(t, body, `business_events_total{action="vote",outcome="ok"} 2`)
	assert.Contains(t, body, `business_events_total{action="vote",outcome="conflict"} 1`)
	assert.Contains(t, body, `business_events_total{action="vote",outcome="time_window"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	// Two instances must not panic with duplicate registration
	a, b := New(), New()
	a.RecordEvent("apply", nil)

	assert.Contains(t, scrape(t, a), `business_events_total{action="apply",outcome="ok"} 1`)
	assert.NotContains(t, scrape(t, b), `action="apply"`)
}
