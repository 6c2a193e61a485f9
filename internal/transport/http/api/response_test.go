package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFailWritesEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	Fail(rr, http.StatusNotFound, "not_found", "leave not found", "req-1")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error == nil || body.Error.Code != "not_found" || body.RequestID != "req-1" {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestFailWithDetailsIncludesDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	FailWithDetails(rr, http.StatusForbidden, "forbidden", "denied", map[string]any{"reason": "not-owner"}, "req-2")

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error.Code != "forbidden" || body.Error.Details["reason"] != "not-owner" {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}
