package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ratingsdesk/quorum/pkg/handlers"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusOK, map[string]string{"status": "open"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "open" {
		t.Errorf("body = %v, want status=open", body)
	}
}

func TestRespondJSONNilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusNoContent, nil)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondError(rec, discardLogger(), http.StatusNotFound, errors.New("case not found"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "case not found" {
		t.Errorf("error = %q, want %q", body["error"], "case not found")
	}
}

func TestDecodeJSON(t *testing.T) {
	type createRequest struct {
		CaseID          string `json:"case_id"`
		CommitteeNumber int    `json:"committee_number"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"case_id":"CASE-1","committee_number":2}`, false},
		{"unknown field", `{"case_id":"CASE-1","extra":true}`, true},
		{"malformed", `{"case_id":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(tt.body))
			got, err := handlers.DecodeJSON[createRequest](req)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeJSON(%q) expected error, got %+v", tt.body, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSON(%q) error = %v", tt.body, err)
			}
			if got.CaseID != "CASE-1" || got.CommitteeNumber != 2 {
				t.Errorf("decoded = %+v, want CASE-1/2", got)
			}
		})
	}
}
