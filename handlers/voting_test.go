package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/validtot/validtot/auth"
	"github.com/validtot/validtot/middleware"
	"github.com/validtot/validtot/models"
	"github.com/validtot/validtot/testutil"
)

func submitVote(handler *VotingHandler, totID, option, ip, token string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/tots/"+totID+"/vote", models.VoteRequest{Option: option}, map[string]string{
		"X-Real-IP": ip,
	})
	req.SetPathValue("id", totID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.SubmitVote(w, req)
	return w
}

func TestSubmitVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	publicTot := testutil.CreateTestTot(t, db, testutil.TotSpec{})
	privateTot := testutil.CreateTestTot(t, db, testutil.TotSpec{Private: true})
	expiredTot := testutil.CreateTestTot(t, db, testutil.TotSpec{Expired: true})
	threeOptionTot := testutil.CreateTestTot(t, db, testutil.TotSpec{OptionC: true})

	tests := []struct {
		name           string
		totID          string
		option         string
		ip             string
		expectedStatus int
	}{
		{"valid vote", publicTot, "A", "198.51.100.1", http.StatusOK},
		{"invalid option letter", publicTot, "D", "198.51.100.2", http.StatusBadRequest},
		{"empty option", publicTot, "", "198.51.100.2", http.StatusBadRequest},
		{"unknown tot", "nosuchtotid", "A", "198.51.100.2", http.StatusNotFound},
		{"private tot", privateTot, "A", "198.51.100.2", http.StatusForbidden},
		{"expired tot", expiredTot, "A", "198.51.100.2", http.StatusPreconditionFailed},
		{"option C without option C", publicTot, "C", "198.51.100.3", http.StatusBadRequest},
		{"option C when configured", threeOptionTot, "C", "198.51.100.3", http.StatusOK},
		{"duplicate vote", publicTot, "B", "198.51.100.1", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := submitVote(handler, tt.totID, tt.option, tt.ip, "")
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestSubmitVote_UpdatesCounters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)
	totID := testutil.CreateTestTot(t, db, testutil.TotSpec{})

	// First vote for A from ip1
	w := submitVote(handler, totID, "A", "203.0.113.1", "")
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.TotResults
	testutil.AssertJSON(t, w, &results)
	if results.Tot.TotalVotes != 1 || results.Tot.OptionAVotes != 1 {
		t.Errorf("Expected totalVotes=1 optionAVotes=1, got %d/%d",
			results.Tot.TotalVotes, results.Tot.OptionAVotes)
	}
	if results.PercentageA != 100 || results.PercentageB != 0 {
		t.Errorf("Expected 100/0, got %d/%d", results.PercentageA, results.PercentageB)
	}

	// Second vote from the same identity changes nothing
	w = submitVote(handler, totID, "B", "203.0.113.1", "")
	testutil.AssertStatus(t, w, http.StatusConflict)

	var total int
	if err := db.QueryRow(`SELECT total_votes FROM tots WHERE id = $1`, totID).Scan(&total); err != nil {
		t.Fatalf("Failed to query counters: %v", err)
	}
	if total != 1 {
		t.Errorf("Duplicate vote changed total_votes: got %d, want 1", total)
	}

	// A different identity voting B splits the percentages
	w = submitVote(handler, totID, "B", "203.0.113.2", "")
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &results)
	if results.Tot.TotalVotes != 2 || results.PercentageA != 50 || results.PercentageB != 50 {
		t.Errorf("Expected total=2 and 50/50, got total=%d %d/%d",
			results.Tot.TotalVotes, results.PercentageA, results.PercentageB)
	}
}

func TestSubmitVote_AuthenticatedIdentity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)
	totID := testutil.CreateTestTot(t, db, testutil.TotSpec{})

	userID := testutil.CreateTestUser(t, db, "voter@example.com")
	token := testutil.CreateTestSession(t, db, cfg, userID)

	// Authenticated voters dedup on user id, not IP
	authed := middleware.WithAuth(db, cfg.SessionSecret)(handler.SubmitVote)

	req := testutil.MakeRequest("POST", "/tots/"+totID+"/vote", models.VoteRequest{Option: "A"}, map[string]string{
		"X-Real-IP":     "203.0.113.9",
		"Authorization": "Bearer " + token,
	})
	req.SetPathValue("id", totID)
	w := httptest.NewRecorder()
	authed(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Same user from a different IP is still a duplicate
	req = testutil.MakeRequest("POST", "/tots/"+totID+"/vote", models.VoteRequest{Option: "B"}, map[string]string{
		"X-Real-IP":     "203.0.113.10",
		"Authorization": "Bearer " + token,
	})
	req.SetPathValue("id", totID)
	w = httptest.NewRecorder()
	authed(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var userVotes int
	if err := db.QueryRow(`SELECT COUNT(*) FROM votes WHERE tot_id = $1 AND user_id = $2`, totID, userID).Scan(&userVotes); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if userVotes != 1 {
		t.Errorf("Expected 1 vote for user, got %d", userVotes)
	}
}

func TestSubmitVote_CreatorMayVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	userID := testutil.CreateTestUser(t, db, "creator@example.com")
	token := testutil.CreateTestSession(t, db, cfg, userID)
	totID := testutil.CreateTestTot(t, db, testutil.TotSpec{Creator: userID})

	// Creators are allowed to vote on their own tot
	authed := middleware.WithAuth(db, cfg.SessionSecret)(handler.SubmitVote)
	req := testutil.MakeRequest("POST", "/tots/"+totID+"/vote", models.VoteRequest{Option: "A"}, map[string]string{
		"Authorization": "Bearer " + token,
	})
	req.SetPathValue("id", totID)
	w := httptest.NewRecorder()
	authed(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestVoteStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)
	totID := testutil.CreateTestTot(t, db, testutil.TotSpec{})

	check := func(ip string) models.VoteStatusResponse {
		req := testutil.MakeRequest("GET", "/tots/"+totID+"/vote-status", nil, map[string]string{
			"X-Real-IP": ip,
		})
		req.SetPathValue("id", totID)
		w := httptest.NewRecorder()
		handler.VoteStatus(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var status models.VoteStatusResponse
		testutil.AssertJSON(t, w, &status)
		return status
	}

	if status := check("198.51.100.7"); status.HasVoted {
		t.Error("Expected hasVoted=false before voting")
	}

	w := submitVote(handler, totID, "B", "198.51.100.7", "")
	testutil.AssertStatus(t, w, http.StatusOK)

	status := check("198.51.100.7")
	if !status.HasVoted || status.VotedOption != "B" {
		t.Errorf("Expected hasVoted=true votedOption=B, got %+v", status)
	}

	// A different IP has not voted
	if status := check("198.51.100.8"); status.HasVoted {
		t.Error("Expected hasVoted=false for a different IP")
	}
}

func TestReconcile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)
	totID := testutil.CreateTestTot(t, db, testutil.TotSpec{})

	testutil.CastTestVote(t, db, totID, "A", "ip1")
	testutil.CastTestVote(t, db, totID, "A", "ip2")
	testutil.CastTestVote(t, db, totID, "B", "ip3")

	// Corrupt the denormalized counters
	if _, err := db.Exec(`UPDATE tots SET total_votes = 99, option_a_votes = 0 WHERE id = $1`, totID); err != nil {
		t.Fatalf("Failed to corrupt counters: %v", err)
	}

	req := testutil.MakeRequest("POST", "/tots/"+totID+"/reconcile", nil, map[string]string{
		"X-Admin-Key": auth.GenerateAdminKey(totID, cfg.AdminKeySalt),
	})
	req.SetPathValue("id", totID)
	w := httptest.NewRecorder()
	handler.Reconcile(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var tot models.Tot
	testutil.AssertJSON(t, w, &tot)
	if tot.TotalVotes != 3 || tot.OptionAVotes != 2 || tot.OptionBVotes != 1 {
		t.Errorf("Expected counters 3/2/1 after reconcile, got %d/%d/%d",
			tot.TotalVotes, tot.OptionAVotes, tot.OptionBVotes)
	}
}

func TestReconcile_RequiresAdminKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)
	totID := testutil.CreateTestTot(t, db, testutil.TotSpec{})

	req := testutil.MakeRequest("POST", "/tots/"+totID+"/reconcile", nil, map[string]string{
		"X-Admin-Key": "not-the-key",
	})
	req.SetPathValue("id", totID)
	w := httptest.NewRecorder()
	handler.Reconcile(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
