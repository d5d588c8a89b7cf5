// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/razeemarc/election-backend/middleware"
	"github.com/razeemarc/election-backend/models"
	"github.com/razeemarc/election-backend/testutil"
)

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// TestFullElectionWorkflow tests the complete end-to-end workflow:
// 1. Members sign up
// 2. Admin creates an upcoming election
// 3. A member applies and the admin approves
// 4. A ballot before opening is refused
// 5. The election opens and a member votes once
// 6. The election is frozen for edits
// 7. Results and history reflect the run
// 8. Ballots after closing are refused
func TestFullElectionWorkflow(t *testing.T) {
	env := newTestEnv(t)
	secret := env.cfg.JWTSecret

	authHandler := NewAuthHandler(env.engine, env.cfg)
	electionHandler := NewElectionHandler(env.engine)
	candidateHandler := NewCandidateHandler(env.engine, env.metrics)
	votingHandler := NewVotingHandler(env.engine, env.metrics)
	resultsHandler := NewResultsHandler(env.engine)
	adminHeaders := testutil.AuthHeaders(t, env.cfg, env.admin)

	// Step 1: Sign up a candidate and a voter
	signup := func(name, email string) models.AuthResponse {
		req := testutil.MakeRequest("POST", "/auth/signup",
			models.SignupRequest{Name: name, Email: email, Password: "secret1"}, nil)
		w := httptest.NewRecorder()
		authHandler.Signup(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Signup %s failed: %d - %s", name, w.Code, w.Body.String())
		}
		var resp models.AuthResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}
	alice := signup("Alice", "alice@example.com")
	bob := signup("Bob", "bob@example.com")
	t.Logf("Step 1 - Signed up %s and %s", alice.Member.ID, bob.Member.ID)

	// Step 2: Admin creates an election opening in an hour
	createReq := models.CreateElectionRequest{
		Title:       "Board Election",
		Description: "Annual board seat",
		StartTime:   testutil.T0.Add(time.Hour),
		EndTime:     testutil.T0.Add(3 * time.Hour),
	}
	w := httptest.NewRecorder()
	middleware.RequireAdmin(secret, electionHandler.CreateElection)(w,
		testutil.MakeRequest("POST", "/admin/elections", createReq, adminHeaders))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create election failed: %d - %s", w.Code, w.Body.String())
	}
	var detail models.ElectionDetail
	testutil.AssertJSON(t, w, &detail)
	electionID := detail.ID
	if detail.Creator.ID != env.admin.ID {
		t.Errorf("Step 2 - Expected creator %s, got %s", env.admin.ID, detail.Creator.ID)
	}
	t.Logf("Step 2 - Created election: %s", electionID)

	// Step 3: Alice applies, admin approves
	w = httptest.NewRecorder()
	middleware.RequireAuth(secret, candidateHandler.Apply)(w,
		testutil.MakeRequest("POST", "/candidates/apply", models.ApplyRequest{ElectionID: electionID}, bearer(alice.Token)))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 3 - Apply failed: %d - %s", w.Code, w.Body.String())
	}
	var candidate models.Candidate
	testutil.AssertJSON(t, w, &candidate)
	if candidate.Status != models.StatusPending {
		t.Errorf("Step 3 - Expected PENDING, got %s", candidate.Status)
	}

	w = httptest.NewRecorder()
	middleware.RequireAdmin(secret, candidateHandler.ListPending)(w,
		testutil.MakeRequest("GET", "/candidates/pending", nil, adminHeaders))
	var pending []models.PendingCandidacy
	testutil.AssertJSON(t, w, &pending)
	if len(pending) != 1 || pending[0].MemberID != alice.Member.ID {
		t.Fatalf("Step 3 - Expected Alice pending, got %+v", pending)
	}

	decideReq := testutil.MakeRequest("PATCH", "/candidates/x/y/decision", models.DecisionRequest{Status: "approved"}, adminHeaders)
	decideReq.SetPathValue("memberId", alice.Member.ID)
	decideReq.SetPathValue("electionId", electionID)
	w = httptest.NewRecorder()
	middleware.RequireAdmin(secret, candidateHandler.Decide)(w, decideReq)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Approve failed: %d - %s", w.Code, w.Body.String())
	}
	t.Logf("Step 3 - Approved candidate: %s", candidate.ID)

	vote := func(token string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/elections/"+electionID+"/votes",
			models.CastVoteRequest{CandidateID: candidate.ID}, bearer(token))
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		middleware.RequireAuth(secret, votingHandler.CastVote)(w, req)
		return w
	}

	// Step 4: Too early
	if w := vote(bob.Token); w.Code != http.StatusForbidden {
		t.Errorf("Step 4 - Expected 403 before opening, got %d - %s", w.Code, w.Body.String())
	}

	// Step 5: Open the election and vote
	env.clock.Advance(90 * time.Minute)

	w = httptest.NewRecorder()
	electionHandler.ListCurrent(w, testutil.MakeRequest("GET", "/elections/current", nil, nil))
	var current []models.ElectionDetail
	testutil.AssertJSON(t, w, &current)
	if len(current) != 1 || current[0].ID != electionID {
		t.Fatalf("Step 5 - Expected election to be current, got %+v", current)
	}

	w = vote(bob.Token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 5 - Vote failed: %d - %s", w.Code, w.Body.String())
	}
	var receipt models.VoteReceipt
	testutil.AssertJSON(t, w, &receipt)
	if receipt.CandidateName != "Alice" {
		t.Errorf("Step 5 - Expected receipt for Alice, got %q", receipt.CandidateName)
	}

	if w := vote(bob.Token); w.Code != http.StatusConflict {
		t.Errorf("Step 5 - Expected 409 on second vote, got %d", w.Code)
	}
	t.Log("Step 5 - Vote recorded once")

	// Step 6: Frozen
	title := "Renamed"
	updateReq := testutil.MakeRequest("PUT", "/admin/elections/"+electionID, models.UpdateElectionRequest{Title: &title}, adminHeaders)
	updateReq.SetPathValue("id", electionID)
	w = httptest.NewRecorder()
	middleware.RequireAdmin(secret, electionHandler.UpdateElection)(w, updateReq)
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Step 7: Results and history
	resultsReq := testutil.MakeRequest("GET", "/results/"+electionID, nil, nil)
	resultsReq.SetPathValue("id", electionID)
	w = httptest.NewRecorder()
	resultsHandler.GetElectionResults(w, resultsReq)
	testutil.AssertStatus(t, w, http.StatusOK)

	var result models.ElectionResult
	testutil.AssertJSON(t, w, &result)
	if result.TotalVotes != 1 || len(result.Candidates) != 1 {
		t.Fatalf("Step 7 - Unexpected results: %+v", result)
	}
	if result.Candidates[0].Rank != 1 || result.Candidates[0].VoteCount != 1 {
		t.Errorf("Step 7 - Expected Alice ranked 1 with 1 vote, got %+v", result.Candidates[0])
	}

	historyReq := testutil.MakeRequest("GET", "/candidates/x/y/history", nil, adminHeaders)
	historyReq.SetPathValue("memberId", alice.Member.ID)
	historyReq.SetPathValue("electionId", electionID)
	w = httptest.NewRecorder()
	middleware.RequireAdmin(secret, candidateHandler.History)(w, historyReq)
	var history []models.CandidacyEvent
	testutil.AssertJSON(t, w, &history)
	if len(history) != 2 || history[0].Action != models.ActionApplied || history[1].Action != models.ActionApproved {
		t.Errorf("Step 7 - Unexpected history: %+v", history)
	}

	// Step 8: Closed
	env.clock.Advance(2 * time.Hour)
	if w := vote(alice.Token); w.Code != http.StatusForbidden {
		t.Errorf("Step 8 - Expected 403 after closing, got %d - %s", w.Code, w.Body.String())
	}
	t.Log("Step 8 - Late ballot refused")
}
