package shared

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParsePageDefaultsAndClamps(t *testing.T) {
	page := ParsePage(httptest.NewRequest("GET", "/leaves", nil))
	if page.Number != 1 || page.Limit != 10 {
		t.Fatalf("unexpected defaults %+v", page)
	}

	page = ParsePage(httptest.NewRequest("GET", "/leaves?page=3&limit=500", nil))
	if page.Number != 3 || page.Limit != 100 {
		t.Fatalf("expected clamped limit, got %+v", page)
	}

	page = ParsePage(httptest.NewRequest("GET", "/leaves?page=abc&limit=-2", nil))
	if page.Number != 1 || page.Limit != 10 {
		t.Fatalf("expected fallback, got %+v", page)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:4321"
	if got := ClientIP(req); got != "10.0.0.5" {
		t.Fatalf("expected remote host, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Fatalf("expected forwarded ip, got %q", got)
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	var dst map[string]any
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"a":1}{"b":2}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Fatalf("expected trailing data to be rejected")
	}
	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"a":1}`))
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDecodeJSONIgnoresUnknownFields(t *testing.T) {
	var dst struct {
		Reason string `json:"reason"`
	}
	req := httptest.NewRequest("PUT", "/", strings.NewReader(`{"reason":"trip","employeeName":"Ada Lovelace"}`))
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if dst.Reason != "trip" {
		t.Fatalf("expected reason to decode, got %q", dst.Reason)
	}
}

func TestParsePageCapsHugeNumbers(t *testing.T) {
	page := ParsePage(httptest.NewRequest("GET", "/leaves?page=9223372036854775807&limit=100", nil))
	if page.Offset() < 0 {
		t.Fatalf("expected non-negative offset, got %d", page.Offset())
	}
}
