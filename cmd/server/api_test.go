package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/raoulalobo/kmapin-logistics-sub006/internal/pricing"
	"github.com/raoulalobo/kmapin-logistics-sub006/internal/tariff"
)

func newAPITestServer() *server {
	log := zerolog.Nop()
	return &server{
		engine: pricing.NewEngine(tariff.Reference(), log),
		log:    log,
	}
}

func postAPIQuote(t *testing.T, s *server, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handleAPIQuote(rec, req)
	return rec
}

func TestHandleAPIQuote_Success(t *testing.T) {
	rec := postAPIQuote(t, newAPITestServer(), `{
		"weight_kg": 5,
		"length_cm": 50,
		"width_cm": 40,
		"height_cm": 30,
		"mode": "AIR",
		"origin": "FR",
		"destination": "CI"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result pricing.QuoteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.FinalPrice != 60.12 {
		t.Fatalf("expected final price 60.12, got %v", result.FinalPrice)
	}
	if !result.BilledOnVolume {
		t.Fatalf("expected billed on volume")
	}
	if result.Lane != "FR-CI" {
		t.Fatalf("unexpected lane: %q", result.Lane)
	}
}

func TestHandleAPIQuote_UnknownLaneUsesFallback(t *testing.T) {
	rec := postAPIQuote(t, newAPITestServer(), `{
		"weight_kg": 10,
		"length_cm": 20,
		"width_cm": 20,
		"height_cm": 20,
		"mode": "ROAD",
		"origin": "FR",
		"destination": "XX"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result pricing.QuoteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.TariffFallback {
		t.Fatalf("expected fallback tariff flag in response")
	}
}

func TestHandleAPIQuote_UnsupportedMode(t *testing.T) {
	rec := postAPIQuote(t, newAPITestServer(), `{
		"weight_kg": 5,
		"length_cm": 10,
		"width_cm": 10,
		"height_cm": 10,
		"mode": "TRUCK",
		"origin": "FR",
		"destination": "CI"
	}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var resp apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("expected an error message")
	}
}

func TestHandleAPIQuote_InvalidWeight(t *testing.T) {
	rec := postAPIQuote(t, newAPITestServer(), `{
		"weight_kg": 0,
		"length_cm": 10,
		"width_cm": 10,
		"height_cm": 10,
		"mode": "AIR",
		"origin": "FR",
		"destination": "CI"
	}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestHandleAPIQuote_MalformedBody(t *testing.T) {
	rec := postAPIQuote(t, newAPITestServer(), `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
