// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/validtot/validtot/middleware"
	"github.com/validtot/validtot/models"
	"github.com/validtot/validtot/testutil"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		part  int
		total int
		want  int
	}{
		{"zero total", 0, 0, 0},
		{"zero part", 0, 10, 0},
		{"all votes", 7, 7, 100},
		{"exact half", 1, 2, 50},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"half-up at .5", 1, 8, 13}, // 12.5 -> 13
		{"five sixths", 5, 6, 83},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentage(tt.part, tt.total); got != tt.want {
				t.Errorf("percentage(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.want)
			}
		})
	}
}

func TestResultsFor_RoundingNeedNotSumTo100(t *testing.T) {
	// A=1, B=2: 33% + 67% = 100 happens to hold, but A=1, B=1, C=1
	// gives 33+33+33 = 99. Independent rounding is accepted behavior.
	results := resultsFor(models.Tot{TotalVotes: 3, OptionAVotes: 1, OptionBVotes: 1, OptionCVotes: 1})
	if results.PercentageA != 33 || results.PercentageB != 33 || results.PercentageC != 33 {
		t.Errorf("Expected 33/33/33, got %d/%d/%d",
			results.PercentageA, results.PercentageB, results.PercentageC)
	}

	results = resultsFor(models.Tot{TotalVotes: 3, OptionAVotes: 1, OptionBVotes: 2})
	if results.PercentageA != 33 || results.PercentageB != 67 {
		t.Errorf("Expected 33/67, got %d/%d", results.PercentageA, results.PercentageB)
	}
}

func TestGetResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)
	totID := testutil.CreateTestTot(t, db, testutil.TotSpec{})

	get := func(id string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/tots/"+id+"/results", nil, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.GetResults(w, req)
		return w
	}

	// No votes yet: every percentage is zero
	w := get(totID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.TotResults
	testutil.AssertJSON(t, w, &results)
	if results.PercentageA != 0 || results.PercentageB != 0 || results.PercentageC != 0 {
		t.Errorf("Expected 0/0/0 with no votes, got %d/%d/%d",
			results.PercentageA, results.PercentageB, results.PercentageC)
	}

	testutil.CastTestVote(t, db, totID, "A", "ip1")
	testutil.CastTestVote(t, db, totID, "B", "ip2")
	testutil.CastTestVote(t, db, totID, "B", "ip3")

	w = get(totID)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &results)
	if results.Tot.TotalVotes != 3 || results.PercentageA != 33 || results.PercentageB != 67 {
		t.Errorf("Expected total=3 33/67, got total=%d %d/%d",
			results.Tot.TotalVotes, results.PercentageA, results.PercentageB)
	}

	w = get("nosuchtotid")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetResults_PrivateTot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	userID := testutil.CreateTestUser(t, db, "owner@example.com")
	token := testutil.CreateTestSession(t, db, cfg, userID)
	totID := testutil.CreateTestTot(t, db, testutil.TotSpec{Private: true, Creator: userID})

	// Anonymous callers are refused
	req := testutil.MakeRequest("GET", "/tots/"+totID+"/results", nil, nil)
	req.SetPathValue("id", totID)
	w := httptest.NewRecorder()
	handler.GetResults(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// The creator can see their own private tot
	authed := middleware.WithAuth(db, cfg.SessionSecret)(handler.GetResults)
	req = testutil.MakeRequest("GET", "/tots/"+totID+"/results", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	req.SetPathValue("id", totID)
	w = httptest.NewRecorder()
	authed(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
}
