package main

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/raoulalobo/kmapin-logistics-sub006/internal/pricing"
)

type apiQuoteRequest struct {
	WeightKg    float64 `json:"weight_kg"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
	Mode        string  `json:"mode"`
	Priority    string  `json:"priority,omitempty"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
}

type apiErrorResponse struct {
	Error string `json:"error"`
}

// handleAPIQuote is the programmatic counterpart of the quote form. It
// computes without persisting: integrations call it to preview a price.
func (s *server) handleAPIQuote(w http.ResponseWriter, r *http.Request) {
	var req apiQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiErrorResponse{Error: "corps JSON invalide"})
		return
	}

	mode, err := pricing.ParseTransportMode(req.Mode)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, apiErrorResponse{Error: pricingErrorMessage(err)})
		return
	}
	priority, err := pricing.ParsePriority(req.Priority)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, apiErrorResponse{Error: "la priorité est invalide"})
		return
	}

	result, err := s.engine.Calculate(pricing.QuoteInput{
		ActualWeightKg: req.WeightKg,
		Dimensions: pricing.Dimensions{
			LengthCm: req.LengthCm,
			WidthCm:  req.WidthCm,
			HeightCm: req.HeightCm,
		},
		Mode:            mode,
		Priority:        priority,
		OriginCode:      req.Origin,
		DestinationCode: req.Destination,
	})
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, apiErrorResponse{Error: pricingErrorMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
