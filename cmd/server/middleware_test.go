package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func TestIsPublicPath(t *testing.T) {
	cases := []struct {
		path   string
		public bool
	}{
		{"/", true},
		{"/quote", true},
		{"/api/quote", true},
		{"/login", true},
		{"/static/styles.css", true},
		{"/quotes", false},
		{"/quotes/1", false},
		{"/quotes/1/text", false},
		{"/admin/tariffs", false},
		{"/logout", false},
	}

	for _, tc := range cases {
		if got := isPublicPath(tc.path); got != tc.public {
			t.Fatalf("isPublicPath(%q) = %v, want %v", tc.path, got, tc.public)
		}
	}
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := newIPRateLimiter(rate.Limit(0.001), 2)
	handler := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/quote", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("expected first two requests allowed, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request throttled, got %v", statuses)
	}
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := newIPRateLimiter(rate.Limit(0.001), 1)

	if !rl.allow("203.0.113.7") {
		t.Fatalf("expected first client to be allowed")
	}
	if rl.allow("203.0.113.7") {
		t.Fatalf("expected first client to be throttled after burst")
	}
	if !rl.allow("203.0.113.8") {
		t.Fatalf("expected second client to have its own budget")
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")

	if ip := clientIP(req); ip != "203.0.113.7" {
		t.Fatalf("expected forwarded client IP, got %q", ip)
	}

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.9")
	if ip := clientIP(req); ip != "203.0.113.9" {
		t.Fatalf("expected X-Real-IP, got %q", ip)
	}

	req.Header.Del("X-Real-IP")
	if ip := clientIP(req); ip != "10.0.0.1:5555" {
		t.Fatalf("expected remote addr, got %q", ip)
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	mw := requestLogger(zerolog.Nop())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/quotes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected handler status preserved, got %d", rec.Code)
	}
	if id := rec.Header().Get("X-Request-ID"); len(id) != 8 {
		t.Fatalf("expected 8-char request id, got %q", id)
	}
}
