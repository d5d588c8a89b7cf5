// Copyright (c) 2025 The election-backend authors.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/razeemarc/election-backend/auth"
	"github.com/razeemarc/election-backend/cliparse"
	"github.com/razeemarc/election-backend/db"
	"github.com/razeemarc/election-backend/models"
)

// TestPassword is the plaintext password of every fixture member
const TestPassword = "password123"

// T0 is a fixed reference instant for window tests
var T0 = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

// testHash is computed once; bcrypt is slow on purpose
var (
	testHashOnce sync.Once
	testHash     string
)

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: db.TypeSQLite,
		JWTSecret:    "test-jwt-secret",
		TokenTTL:     time.Hour,
		RejectPolicy: cliparse.RejectRetain,
	}
}

// Clock is a settable clock for deterministic window tests
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func passwordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		h, err := auth.HashPassword(TestPassword)
		if err != nil {
			t.Fatalf("Failed to hash test password: %v", err)
		}
		testHash = h
	})
	return testHash
}

// CreateTestMember inserts a member and returns it. The email is derived
// from a fresh ID so names may repeat.
func CreateTestMember(t *testing.T, conn *sql.DB, name, role string) models.Member {
	t.Helper()

	m := models.Member{
		ID:           uuid.NewString(),
		Name:         name,
		PasswordHash: passwordHash(t),
		Role:         role,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	m.Email = m.ID[:8] + "@example.com"

	_, err := conn.Exec(`
		INSERT INTO members (id, name, email, password_hash, role, blocked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.Name, m.Email, m.PasswordHash, m.Role, false, m.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	return m
}

// CreateTestElection inserts an election open over [start, end] and returns its ID
func CreateTestElection(t *testing.T, conn *sql.DB, creatorID, title string, start, end time.Time) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO elections (id, title, description, created_by, start_time, end_time, created_at)
		VALUES ($1, $2, 'A test election', $3, $4, $5, $6)
	`, id, title, creatorID, start.UTC().Truncate(time.Second), end.UTC().Truncate(time.Second),
		time.Now().UTC().Truncate(time.Second))
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return id
}

// CreateTestCandidate inserts a candidacy with the given status and
// application time and returns the candidate ID
func CreateTestCandidate(t *testing.T, conn *sql.DB, memberID, electionID string, status models.CandidateStatus, appliedAt time.Time) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidates (id, member_id, election_id, status, applied_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, memberID, electionID, string(status), appliedAt.UTC().Truncate(time.Second))
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return id
}

// CastTestVote inserts a vote directly, bypassing the window checks
func CastTestVote(t *testing.T, conn *sql.DB, memberID, electionID, candidateID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO votes (member_id, election_id, candidate_id, voted_at)
		VALUES ($1, $2, $3, $4)
	`, memberID, electionID, candidateID, time.Now().UTC().Truncate(time.Second))
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// AuthHeaders returns a bearer Authorization header for the member
func AuthHeaders(t *testing.T, cfg cliparse.Config, m models.Member) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(cfg.JWTSecret, m.ID, m.Email, m.Role, time.Now(), cfg.TokenTTL)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
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
