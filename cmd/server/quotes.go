package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/raoulalobo/kmapin-logistics-sub006/internal/pricing"
)

type quoteFormEcho struct {
	ContactName  string
	ContactEmail string
	WeightKg     string
	LengthCm     string
	WidthCm      string
	HeightCm     string
	Mode         string
	Priority     string
	Origin       string
	Destination  string
}

type homeViewData struct {
	baseViewData
	Form       quoteFormEcho
	Modes      []pricing.TransportMode
	Priorities []pricing.Priority
	Result     *pricing.QuoteResult
	Summary    *pricing.DisplaySummary
	Reference  string
}

type quoteSubmission struct {
	ContactName  string
	ContactEmail string
	Input        pricing.QuoteInput
}

type quoteListItem struct {
	Reference   string
	CreatedAt   string
	ContactName string
	Lane        string
	Mode        string
	FinalPrice  float64
	Currency    string
}

type quotesViewData struct {
	baseViewData
	Query  string
	Quotes []quoteListItem
}

type quoteDetail struct {
	ID           int64
	Reference    string
	CreatedAt    string
	ContactName  string
	ContactEmail string
	WeightKg     float64
	LengthCm     float64
	WidthCm      float64
	HeightCm     float64
	Result       pricing.QuoteResult
}

type quoteDetailViewData struct {
	baseViewData
	Detail  quoteDetail
	Summary pricing.DisplaySummary
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "home.html", homeViewData{
		Modes:      pricing.Modes,
		Priorities: pricing.Priorities,
	})
}

func (s *server) handleQuoteSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	echo := quoteFormEchoFrom(r)
	view := homeViewData{
		Form:       echo,
		Modes:      pricing.Modes,
		Priorities: pricing.Priorities,
	}

	submission, err := parseQuoteForm(r)
	if err != nil {
		view.ErrorMessage = err.Error()
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "home.html", view)
		return
	}

	result, err := s.engine.Calculate(submission.Input)
	if err != nil {
		view.ErrorMessage = pricingErrorMessage(err)
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "home.html", view)
		return
	}

	reference := newQuoteReference()
	if err := s.insertQuote(reference, submission, result); err != nil {
		s.log.Error().Err(err).Msg("failed to save quote")
		http.Error(w, "failed to save quote", http.StatusInternalServerError)
		return
	}

	summary := pricing.FormatForDisplay(result)
	view.Result = &result
	view.Summary = &summary
	view.Reference = reference
	view.SuccessMessage = fmt.Sprintf("Votre demande de devis a été enregistrée (référence %s).", reference)
	s.renderTemplate(w, "home.html", view)
}

func quoteFormEchoFrom(r *http.Request) quoteFormEcho {
	return quoteFormEcho{
		ContactName:  strings.TrimSpace(r.FormValue("contact_name")),
		ContactEmail: strings.TrimSpace(r.FormValue("contact_email")),
		WeightKg:     r.FormValue("weight_kg"),
		LengthCm:     r.FormValue("length_cm"),
		WidthCm:      r.FormValue("width_cm"),
		HeightCm:     r.FormValue("height_cm"),
		Mode:         r.FormValue("mode"),
		Priority:     r.FormValue("priority"),
		Origin:       r.FormValue("origin"),
		Destination:  r.FormValue("destination"),
	}
}

func parseQuoteForm(r *http.Request) (quoteSubmission, error) {
	submission := quoteSubmission{
		ContactName:  strings.TrimSpace(r.FormValue("contact_name")),
		ContactEmail: strings.TrimSpace(r.FormValue("contact_email")),
	}

	var err error
	if submission.Input.ActualWeightKg, err = parsePositiveFloat(r.FormValue("weight_kg"), "le poids (kg)"); err != nil {
		return submission, err
	}
	if submission.Input.Dimensions.LengthCm, err = parsePositiveFloat(r.FormValue("length_cm"), "la longueur (cm)"); err != nil {
		return submission, err
	}
	if submission.Input.Dimensions.WidthCm, err = parsePositiveFloat(r.FormValue("width_cm"), "la largeur (cm)"); err != nil {
		return submission, err
	}
	if submission.Input.Dimensions.HeightCm, err = parsePositiveFloat(r.FormValue("height_cm"), "la hauteur (cm)"); err != nil {
		return submission, err
	}

	if submission.Input.Mode, err = pricing.ParseTransportMode(r.FormValue("mode")); err != nil {
		return submission, fmt.Errorf("le mode de transport est invalide")
	}
	if submission.Input.Priority, err = pricing.ParsePriority(r.FormValue("priority")); err != nil {
		return submission, fmt.Errorf("la priorité est invalide")
	}

	if submission.Input.OriginCode, err = parseCountryCode(r.FormValue("origin"), "le pays d'origine"); err != nil {
		return submission, err
	}
	if submission.Input.DestinationCode, err = parseCountryCode(r.FormValue("destination"), "le pays de destination"); err != nil {
		return submission, err
	}

	return submission, nil
}

func parsePositiveFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s doit être numérique", field)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s doit être supérieur à 0", field)
	}
	return value, nil
}

func parseCountryCode(raw, field string) (string, error) {
	code := pricing.NormalizeCountryCode(raw)
	if len(code) != 2 {
		return "", fmt.Errorf("%s doit être un code pays à 2 lettres", field)
	}
	return code, nil
}

// pricingErrorMessage maps engine validation failures to customer-facing
// messages. The form layer already validates, so these mostly cover the API
// path and defensive re-checks.
func pricingErrorMessage(err error) string {
	switch {
	case errors.Is(err, pricing.ErrInvalidWeight):
		return "Le poids doit être strictement positif."
	case errors.Is(err, pricing.ErrInvalidDimension):
		return "Les dimensions doivent être strictement positives."
	case errors.Is(err, pricing.ErrUnsupportedMode):
		return "Mode de transport non pris en charge."
	default:
		return "Calcul impossible : vérifiez les valeurs saisies."
	}
}

func newQuoteReference() string {
	return "Q-" + strings.ToUpper(uuid.New().String()[:8])
}

func (s *server) insertQuote(reference string, submission quoteSubmission, result pricing.QuoteResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal quote result: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO quotes (
			reference, contact_name, contact_email,
			origin, destination, mode, priority,
			weight_kg, length_cm, width_cm, height_cm,
			final_price, currency, tariff_fallback, result_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		reference, submission.ContactName, submission.ContactEmail,
		submission.Input.OriginCode, submission.Input.DestinationCode,
		string(submission.Input.Mode), string(result.Priority),
		submission.Input.ActualWeightKg,
		submission.Input.Dimensions.LengthCm,
		submission.Input.Dimensions.WidthCm,
		submission.Input.Dimensions.HeightCm,
		result.FinalPrice, result.Currency, result.TariffFallback, string(resultJSON),
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	return nil
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.listQuotes(query)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load quotes")
		http.Error(w, "failed to load quotes", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "quotes.html", quotesViewData{
		Query:  query,
		Quotes: quotes,
	})
}

func (s *server) listQuotes(query string) ([]quoteListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT
			reference,
			created_at,
			COALESCE(contact_name, ''),
			origin,
			destination,
			mode,
			final_price,
			currency
		FROM quotes
		WHERE (? = '' OR reference LIKE ? OR COALESCE(contact_name, '') LIKE ? OR COALESCE(contact_email, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]quoteListItem, 0)
	for rows.Next() {
		var item quoteListItem
		var origin, destination string
		if err := rows.Scan(&item.Reference, &item.CreatedAt, &item.ContactName, &origin, &destination, &item.Mode, &item.FinalPrice, &item.Currency); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.Lane = origin + "-" + destination
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid quote id", http.StatusBadRequest)
		return
	}

	detail, err := s.getQuoteDetail(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("failed to load quote detail")
		http.Error(w, "failed to load quote", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "quote_detail.html", quoteDetailViewData{
		Detail:  detail,
		Summary: pricing.FormatForDisplay(detail.Result),
	})
}

// getQuoteDetail reads the persisted snapshot. The stored result is never
// recalculated: tariffs may have changed since the quote was issued.
func (s *server) getQuoteDetail(id int64) (quoteDetail, error) {
	var detail quoteDetail
	var resultJSON string
	err := s.db.QueryRow(`
		SELECT
			id, reference, created_at,
			COALESCE(contact_name, ''), COALESCE(contact_email, ''),
			weight_kg, length_cm, width_cm, height_cm,
			result_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(
		&detail.ID, &detail.Reference, &detail.CreatedAt,
		&detail.ContactName, &detail.ContactEmail,
		&detail.WeightKg, &detail.LengthCm, &detail.WidthCm, &detail.HeightCm,
		&resultJSON,
	)
	if err != nil {
		return quoteDetail{}, err
	}

	if err := json.Unmarshal([]byte(resultJSON), &detail.Result); err != nil {
		return quoteDetail{}, fmt.Errorf("unmarshal quote result snapshot: %w", err)
	}

	return detail, nil
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid quote id", http.StatusBadRequest)
		return
	}

	detail, err := s.getQuoteDetail(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("failed to load quote text")
		http.Error(w, "failed to load quote", http.StatusInternalServerError)
		return
	}

	summary := pricing.FormatForDisplay(detail.Result)

	var b strings.Builder
	fmt.Fprintf(&b, "Devis %s\n", detail.Reference)
	fmt.Fprintf(&b, "Date : %s\n", detail.CreatedAt)
	if detail.ContactName != "" {
		fmt.Fprintf(&b, "Client : %s", detail.ContactName)
		if detail.ContactEmail != "" {
			fmt.Fprintf(&b, " (%s)", detail.ContactEmail)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Liaison : %s (%s, priorité %s)\n", detail.Result.Lane, detail.Result.Mode, detail.Result.Priority)
	fmt.Fprintf(&b, "Colis : %.2f kg, %.0f x %.0f x %.0f cm\n", detail.WeightKg, detail.LengthCm, detail.WidthCm, detail.HeightCm)
	b.WriteString("\nDétail :\n")
	for _, line := range summary.DetailLines {
		fmt.Fprintf(&b, "  - %s\n", line)
	}
	if len(summary.Advisories) > 0 {
		b.WriteString("\nRemarques :\n")
		for _, advisory := range summary.Advisories {
			fmt.Fprintf(&b, "  - %s\n", advisory)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", summary.TotalLabel)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}
