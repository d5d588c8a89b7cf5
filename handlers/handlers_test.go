// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/razeemarc/election-backend/cliparse"
	"github.com/razeemarc/election-backend/election"
	"github.com/razeemarc/election-backend/metrics"
	"github.com/razeemarc/election-backend/middleware"
	"github.com/razeemarc/election-backend/models"
	"github.com/razeemarc/election-backend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db      *sql.DB
	cfg     cliparse.Config
	clock   *testutil.Clock
	engine  *election.Engine
	metrics *metrics.Metrics
	admin   models.Member
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clock := testutil.NewClock(testutil.T0)
	env := &testEnv{
		db:      db,
		cfg:     testutil.GetTestConfig(),
		clock:   clock,
		metrics: metrics.New(),
		engine: election.New(db,
			election.WithClock(clock),
			election.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		),
	}
	env.admin = testutil.CreateTestMember(t, db, "Admin", models.RoleAdmin)
	return env
}

// serve runs handler behind the auth middleware for the given member, or
// without authentication when as is nil
func (env *testEnv) serve(t *testing.T, handler http.HandlerFunc, as *models.Member, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if as != nil {
		for k, v := range testutil.AuthHeaders(t, env.cfg, *as) {
			req.Header.Set(k, v)
		}
		handler = middleware.RequireAuth(env.cfg.JWTSecret, handler)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("election %w", election.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: bad", election.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: twice", election.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: closed", election.ErrTimeWindow), http.StatusForbidden},
		{fmt.Errorf("op: %w: boom", election.ErrStore), http.StatusInternalServerError},
		{fmt.Errorf("unclassified"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestEngineError_HidesStoreDetail(t *testing.T) {
	w := httptest.NewRecorder()
	engineError(w, "test", fmt.Errorf("insert: %w: pq: relation \"votes\" does not exist", election.ErrStore))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, "Database error", resp.Message)
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.engine, env.cfg)

	signup := models.SignupRequest{Name: "Alice", Email: "Alice@Example.com", Password: "secret1"}
	w := env.serve(t, h.Signup, nil, testutil.MakeRequest("POST", "/auth/signup", signup, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.AuthResponse
	testutil.AssertJSON(t, w, &created)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "alice@example.com", created.Member.Email)
	assert.Equal(t, models.RoleUser, created.Member.Role)

	// Same email again, any case
	w = env.serve(t, h.Signup, nil, testutil.MakeRequest("POST", "/auth/signup", signup, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	tests := []struct {
		name       string
		req        models.LoginRequest
		wantStatus int
	}{
		{"valid", models.LoginRequest{Email: "alice@example.com", Password: "secret1"}, http.StatusOK},
		{"email case", models.LoginRequest{Email: "ALICE@example.com", Password: "secret1"}, http.StatusOK},
		{"wrong password", models.LoginRequest{Email: "alice@example.com", Password: "nope"}, http.StatusUnauthorized},
		{"unknown email", models.LoginRequest{Email: "bob@example.com", Password: "secret1"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.serve(t, h.Login, nil, testutil.MakeRequest("POST", "/auth/login", tt.req, nil))
			testutil.AssertStatus(t, w, tt.wantStatus)

			if tt.wantStatus == http.StatusOK {
				var resp models.AuthResponse
				testutil.AssertJSON(t, w, &resp)
				assert.Equal(t, created.Member.ID, resp.Member.ID)
			}
		})
	}
}

func TestSignup_Validation(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.engine, env.cfg)

	tests := []struct {
		name string
		body interface{}
	}{
		{"short password", models.SignupRequest{Name: "A", Email: "a@example.com", Password: "123"}},
		{"missing name", models.SignupRequest{Email: "a@example.com", Password: "secret1"}},
		{"bad email", models.SignupRequest{Name: "A", Email: "nope", Password: "secret1"}},
		{"not json", "just a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.serve(t, h.Signup, nil, testutil.MakeRequest("POST", "/auth/signup", tt.body, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestMembers(t *testing.T) {
	env := newTestEnv(t)
	h := NewMemberHandler(env.engine)
	alice := testutil.CreateTestMember(t, env.db, "Alice", models.RoleUser)

	req := testutil.MakeRequest("PATCH", "/members/"+alice.ID+"/block", models.SetBlockedRequest{Blocked: true}, nil)
	req.SetPathValue("id", alice.ID)
	w := env.serve(t, h.SetBlocked, &env.admin, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var member models.Member
	testutil.AssertJSON(t, w, &member)
	assert.True(t, member.Blocked)

	w = env.serve(t, h.ListMembers, &env.admin, testutil.MakeRequest("GET", "/members", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var members []models.MemberWithCandidacies
	testutil.AssertJSON(t, w, &members)
	require.Len(t, members, 2)

	req = testutil.MakeRequest("PATCH", "/members/missing/block", models.SetBlockedRequest{Blocked: true}, nil)
	req.SetPathValue("id", "missing")
	w = env.serve(t, h.SetBlocked, &env.admin, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
