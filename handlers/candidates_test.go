// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/razeemarc/election-backend/models"
	"github.com/razeemarc/election-backend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decisionRequest(memberID, electionID, status string) *http.Request {
	req := testutil.MakeRequest("PATCH", "/candidates/"+memberID+"/"+electionID+"/decision", models.DecisionRequest{Status: status}, nil)
	req.SetPathValue("memberId", memberID)
	req.SetPathValue("electionId", electionID)
	return req
}

func TestApply(t *testing.T) {
	env := newTestEnv(t)
	h := NewCandidateHandler(env.engine, env.metrics)
	electionID := testutil.CreateTestElection(t, env.db, env.admin.ID, "Board", testutil.T0.Add(time.Hour), testutil.T0.Add(2*time.Hour))
	member := testutil.CreateTestMember(t, env.db, "Alice", models.RoleUser)
	blocked := testutil.CreateTestMember(t, env.db, "Mallory", models.RoleUser)
	_, err := env.engine.SetBlocked(t.Context(), blocked.ID, true)
	require.NoError(t, err)

	proposed := testutil.T0.Add(90 * time.Minute)

	tests := []struct {
		name       string
		as         models.Member
		req        models.ApplyRequest
		wantStatus int
	}{
		{"first application", member, models.ApplyRequest{ElectionID: electionID, ProposedElectionDate: &proposed}, http.StatusCreated},
		{"duplicate", member, models.ApplyRequest{ElectionID: electionID}, http.StatusConflict},
		{"blocked member", blocked, models.ApplyRequest{ElectionID: electionID}, http.StatusBadRequest},
		{"unknown election", member, models.ApplyRequest{ElectionID: "00000000-0000-0000-0000-000000000000"}, http.StatusNotFound},
		{"missing election", member, models.ApplyRequest{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := tt.as
			w := env.serve(t, h.Apply, &as, testutil.MakeRequest("POST", "/candidates/apply", tt.req, nil))
			testutil.AssertStatus(t, w, tt.wantStatus)

			if tt.wantStatus == http.StatusCreated {
				var c models.Candidate
				testutil.AssertJSON(t, w, &c)
				assert.Equal(t, models.StatusPending, c.Status)
				assert.Equal(t, member.ID, c.MemberID)
				require.NotNil(t, c.ProposedElectionDate)
				assert.True(t, c.ProposedElectionDate.Equal(proposed))
			}
		})
	}
}

func TestDecide(t *testing.T) {
	env := newTestEnv(t)
	h := NewCandidateHandler(env.engine, env.metrics)
	electionID := testutil.CreateTestElection(t, env.db, env.admin.ID, "Board", testutil.T0.Add(time.Hour), testutil.T0.Add(2*time.Hour))
	alice := testutil.CreateTestMember(t, env.db, "Alice", models.RoleUser)
	bob := testutil.CreateTestMember(t, env.db, "Bob", models.RoleUser)
	testutil.CreateTestCandidate(t, env.db, alice.ID, electionID, models.StatusPending, testutil.T0)
	testutil.CreateTestCandidate(t, env.db, bob.ID, electionID, models.StatusPending, testutil.T0)

	w := env.serve(t, h.ListPending, &env.admin, testutil.MakeRequest("GET", "/candidates/pending", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var pending []models.PendingCandidacy
	testutil.AssertJSON(t, w, &pending)
	assert.Len(t, pending, 2)

	tests := []struct {
		name       string
		memberID   string
		status     string
		wantStatus int
	}{
		{"approve", alice.ID, "APPROVED", http.StatusOK},
		{"already decided", alice.ID, "REJECTED", http.StatusConflict},
		{"lowercase reject", bob.ID, "rejected", http.StatusOK},
		{"bad status", bob.ID, "MAYBE", http.StatusBadRequest},
		{"no candidacy", env.admin.ID, "APPROVED", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.serve(t, h.Decide, &env.admin, decisionRequest(tt.memberID, electionID, tt.status))
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}

	w = env.serve(t, h.ListPending, &env.admin, testutil.MakeRequest("GET", "/candidates/pending", nil, nil))
	pending = nil
	testutil.AssertJSON(t, w, &pending)
	assert.Empty(t, pending)
}

func TestHistory_Reapply(t *testing.T) {
	env := newTestEnv(t)
	h := NewCandidateHandler(env.engine, env.metrics)
	electionID := testutil.CreateTestElection(t, env.db, env.admin.ID, "Board", testutil.T0.Add(time.Hour), testutil.T0.Add(2*time.Hour))
	alice := testutil.CreateTestMember(t, env.db, "Alice", models.RoleUser)
	apply := testutil.MakeRequest("POST", "/candidates/apply", models.ApplyRequest{ElectionID: electionID}, nil)

	w := env.serve(t, h.Apply, &alice, apply)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = env.serve(t, h.Decide, &env.admin, decisionRequest(alice.ID, electionID, "REJECTED"))
	testutil.AssertStatus(t, w, http.StatusOK)

	env.clock.Advance(time.Minute)
	w = env.serve(t, h.Apply, &alice, testutil.MakeRequest("POST", "/candidates/apply", models.ApplyRequest{ElectionID: electionID}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	req := testutil.MakeRequest("GET", "/candidates/x/y/history", nil, nil)
	req.SetPathValue("memberId", alice.ID)
	req.SetPathValue("electionId", electionID)
	w = env.serve(t, h.History, &env.admin, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var events []models.CandidacyEvent
	testutil.AssertJSON(t, w, &events)
	var actions []string
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{models.ActionApplied, models.ActionRejected, models.ActionReapplied}, actions)
}
