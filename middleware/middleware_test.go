// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/validtot/validtot/models"
)

func TestVoterIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{
			name:     "no headers",
			headers:  nil,
			expected: "unknown",
		},
		{
			name:     "x-real-ip",
			headers:  map[string]string{"X-Real-IP": "203.0.113.7"},
			expected: "203.0.113.7",
		},
		{
			name:     "x-real-ip trimmed",
			headers:  map[string]string{"X-Real-IP": "  203.0.113.7  "},
			expected: "203.0.113.7",
		},
		{
			name:     "forwarded-for single",
			headers:  map[string]string{"X-Forwarded-For": "198.51.100.4"},
			expected: "198.51.100.4",
		},
		{
			name:     "forwarded-for chain takes first",
			headers:  map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.1, 10.0.0.2"},
			expected: "198.51.100.4",
		},
		{
			name: "x-real-ip wins over forwarded-for",
			headers: map[string]string{
				"X-Real-IP":       "203.0.113.7",
				"X-Forwarded-For": "198.51.100.4",
			},
			expected: "203.0.113.7",
		},
		{
			name:     "blank headers degrade to unknown",
			headers:  map[string]string{"X-Real-IP": "   ", "X-Forwarded-For": " , "},
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/tots/x/vote", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := VoterIP(req); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusConflict, "You have already voted on this tot")

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", w.Code)
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body.Error != "Conflict" {
		t.Errorf("Expected error Conflict, got %q", body.Error)
	}
	if body.Message != "You have already voted on this tot" {
		t.Errorf("Unexpected message: %q", body.Message)
	}
}

func TestParseJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/tots", strings.NewReader(`{"title":"Cats or Dogs?"}`))
	var body struct {
		Title string `json:"title"`
	}
	if err := ParseJSONBody(req, &body); err != nil {
		t.Fatalf("ParseJSONBody failed: %v", err)
	}
	if body.Title != "Cats or Dogs?" {
		t.Errorf("Unexpected title: %q", body.Title)
	}

	req = httptest.NewRequest("POST", "/tots", strings.NewReader(`{not json`))
	if err := ParseJSONBody(req, &body); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	// Preflight never reaches the handler
	req := httptest.NewRequest("OPTIONS", "/tots", nil)
	req.Header.Set("Origin", "https://validtot.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://validtot.example" {
		t.Errorf("Expected origin echoed back, got %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PUT") {
		t.Error("Expected PUT in allowed methods")
	}

	// Normal requests pass through with the headers attached
	req = httptest.NewRequest("GET", "/tots/public", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected the wrapped handler to run, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected * without an Origin header, got %q", got)
	}
}
