package main

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/raoulalobo/kmapin-logistics-sub006/internal/pricing"
	"github.com/raoulalobo/kmapin-logistics-sub006/internal/tariff"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE quotes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			contact_name TEXT,
			contact_email TEXT,
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			mode TEXT NOT NULL,
			priority TEXT NOT NULL,
			weight_kg NUMERIC NOT NULL,
			length_cm NUMERIC NOT NULL,
			width_cm NUMERIC NOT NULL,
			height_cm NUMERIC NOT NULL,
			final_price NUMERIC NOT NULL,
			currency TEXT NOT NULL,
			tariff_fallback BOOLEAN NOT NULL DEFAULT FALSE,
			result_json TEXT NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("failed creating quotes table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	return &server{
		db:     db,
		engine: pricing.NewEngine(tariff.Reference(), log),
		log:    log,
	}
}

func seedQuote(t *testing.T, s *server, reference, createdAt, contactName, resultJSON string) {
	t.Helper()

	_, err := s.db.Exec(`
		INSERT INTO quotes (
			reference, created_at, contact_name, contact_email,
			origin, destination, mode, priority,
			weight_kg, length_cm, width_cm, height_cm,
			final_price, currency, tariff_fallback, result_json
		) VALUES (?, ?, ?, 'contact@example.com', 'FR', 'CI', 'AIR', 'STANDARD', 5, 50, 40, 30, 60.12, 'EUR', FALSE, ?)
	`, reference, createdAt, contactName, resultJSON)
	if err != nil {
		t.Fatalf("failed to seed quote: %v", err)
	}
}

const snapshotJSON = `{"lane":"FR-CI","mode":"AIR","priority":"STANDARD","volume_m3":0.06,"volumetric_weight":10.02,"taxable_mass":10.02,"taxable_unit":"kg","billed_on_volume":true,"tariff_rate":6,"tariff_fallback":false,"base_cost":60.12,"priority_coefficient":1,"final_price":60.12,"currency":"EUR"}`

func TestInsertQuoteAndDetailRoundTrip(t *testing.T) {
	s := newTestServer(t)

	input := pricing.QuoteInput{
		ActualWeightKg:  5,
		Dimensions:      pricing.Dimensions{LengthCm: 50, WidthCm: 40, HeightCm: 30},
		Mode:            pricing.ModeAir,
		Priority:        pricing.PriorityStandard,
		OriginCode:      "FR",
		DestinationCode: "CI",
	}
	result, err := s.engine.Calculate(input)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}

	submission := quoteSubmission{ContactName: "Awa Diallo", ContactEmail: "awa@example.com", Input: input}
	if err := s.insertQuote("Q-ROUNDTRP", submission, result); err != nil {
		t.Fatalf("insertQuote returned error: %v", err)
	}

	detail, err := s.getQuoteDetail(1)
	if err != nil {
		t.Fatalf("getQuoteDetail returned error: %v", err)
	}
	if detail.Reference != "Q-ROUNDTRP" {
		t.Fatalf("unexpected reference: %q", detail.Reference)
	}
	if detail.Result != result {
		t.Fatalf("snapshot mismatch: %+v vs %+v", detail.Result, result)
	}
}

// The stored result is the contract: even if the recorded inputs would price
// differently today, the detail view must show the snapshot.
func TestGetQuoteDetailReadsSnapshotWithoutRecalculation(t *testing.T) {
	s := newTestServer(t)

	stale := strings.Replace(snapshotJSON, `"final_price":60.12`, `"final_price":999.99`, 1)
	seedQuote(t, s, "Q-STALE001", "2026-01-15 10:00:00", "Awa Diallo", stale)

	detail, err := s.getQuoteDetail(1)
	if err != nil {
		t.Fatalf("getQuoteDetail returned error: %v", err)
	}
	if detail.Result.FinalPrice != 999.99 {
		t.Fatalf("expected snapshot price 999.99, got %v", detail.Result.FinalPrice)
	}
}

func TestGetQuoteDetailNotFound(t *testing.T) {
	s := newTestServer(t)

	if _, err := s.getQuoteDetail(42); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListQuotesOrdersNewestFirst(t *testing.T) {
	s := newTestServer(t)
	seedQuote(t, s, "Q-AAAA0001", "2026-01-10 09:00:00", "Awa Diallo", snapshotJSON)
	seedQuote(t, s, "Q-BBBB0002", "2026-01-12 09:00:00", "Moussa Koné", snapshotJSON)
	seedQuote(t, s, "Q-CCCC0003", "2026-01-11 09:00:00", "Fatou Sarr", snapshotJSON)

	quotes, err := s.listQuotes("")
	if err != nil {
		t.Fatalf("listQuotes returned error: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}

	want := []string{"Q-BBBB0002", "Q-CCCC0003", "Q-AAAA0001"}
	for i, reference := range want {
		if quotes[i].Reference != reference {
			t.Fatalf("position %d: expected %s, got %s", i, reference, quotes[i].Reference)
		}
	}
	if quotes[0].Lane != "FR-CI" {
		t.Fatalf("unexpected lane: %q", quotes[0].Lane)
	}
}

func TestListQuotesFiltersByContactName(t *testing.T) {
	s := newTestServer(t)
	seedQuote(t, s, "Q-AAAA0001", "2026-01-10 09:00:00", "Awa Diallo", snapshotJSON)
	seedQuote(t, s, "Q-BBBB0002", "2026-01-12 09:00:00", "Moussa Koné", snapshotJSON)

	quotes, err := s.listQuotes("Diallo")
	if err != nil {
		t.Fatalf("listQuotes returned error: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Reference != "Q-AAAA0001" {
		t.Fatalf("unexpected filter result: %+v", quotes)
	}
}

func TestHandleQuoteTextReturnsPlainText(t *testing.T) {
	s := newTestServer(t)
	seedQuote(t, s, "Q-TEXT0001", "2026-01-15 10:00:00", "Awa Diallo", snapshotJSON)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "1")

	req := httptest.NewRequest("GET", "/quotes/1/text", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()

	s.handleQuoteText(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type: %q", ct)
	}

	body := rec.Body.String()
	for _, fragment := range []string{"Devis Q-TEXT0001", "Awa Diallo", "FR-CI", "Total : 60.12 EUR"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected body to contain %q, got:\n%s", fragment, body)
		}
	}
}

func TestHandleQuoteTextNotFound(t *testing.T) {
	s := newTestServer(t)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "42")

	req := httptest.NewRequest("GET", "/quotes/42/text", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()

	s.handleQuoteText(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestNewQuoteReferenceFormat(t *testing.T) {
	reference := newQuoteReference()
	if len(reference) != 10 || !strings.HasPrefix(reference, "Q-") {
		t.Fatalf("unexpected reference format: %q", reference)
	}
	if reference != strings.ToUpper(reference) {
		t.Fatalf("expected uppercase reference, got %q", reference)
	}
}
