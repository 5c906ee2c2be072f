package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/raoulalobo/kmapin-logistics-sub006/internal/pricing"
)

type tariffRow struct {
	ID          int64
	Origin      string
	Destination string
	Mode        string
	Rate        float64
	Notes       string
	Active      bool
}

type tariffsViewData struct {
	baseViewData
	Tariffs []tariffRow
	Modes   []pricing.TransportMode
}

func (s *server) handleAdminTariffsForm(w http.ResponseWriter, r *http.Request) {
	tariffs, err := s.listTariffs()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load tariffs")
		http.Error(w, "failed to load tariffs", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "admin_tariffs.html", tariffsViewData{
		baseViewData: baseViewData{
			ErrorMessage:   r.URL.Query().Get("error"),
			SuccessMessage: r.URL.Query().Get("success"),
		},
		Tariffs: tariffs,
		Modes:   pricing.Modes,
	})
}

func (s *server) handleAdminTariffsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	row, err := parseTariffForm(r)
	if err != nil {
		http.Redirect(w, r, "/admin/tariffs?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	_, err = s.db.Exec(`
		INSERT INTO tariffs (origin, destination, mode, rate, notes, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, row.Origin, row.Destination, row.Mode, row.Rate, row.Notes, row.Active)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create tariff")
		http.Redirect(w, r, "/admin/tariffs?error="+url.QueryEscape("cette liaison existe déjà ou n'a pas pu être créée"), http.StatusSeeOther)
		return
	}

	s.tariffs.Invalidate()
	http.Redirect(w, r, "/admin/tariffs?success="+url.QueryEscape("Tarif créé correctement"), http.StatusSeeOther)
}

func (s *server) handleAdminTariffsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid tariff id", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	row, err := parseTariffForm(r)
	if err != nil {
		http.Redirect(w, r, "/admin/tariffs?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	result, err := s.db.Exec(`
		UPDATE tariffs
		SET
			origin = ?,
			destination = ?,
			mode = ?,
			rate = ?,
			notes = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, row.Origin, row.Destination, row.Mode, row.Rate, row.Notes, row.Active, id)
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("failed to update tariff")
		http.Error(w, "failed to update tariff", http.StatusInternalServerError)
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		http.Error(w, "failed to update tariff", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.NotFound(w, r)
		return
	}

	s.tariffs.Invalidate()
	http.Redirect(w, r, "/admin/tariffs?success="+url.QueryEscape("Tarif mis à jour correctement"), http.StatusSeeOther)
}

func parseTariffForm(r *http.Request) (tariffRow, error) {
	row := tariffRow{
		Notes:  strings.TrimSpace(r.FormValue("notes")),
		Active: r.FormValue("active") == "1",
	}

	var err error
	if row.Origin, err = parseCountryCode(r.FormValue("origin"), "le pays d'origine"); err != nil {
		return row, err
	}
	if row.Destination, err = parseCountryCode(r.FormValue("destination"), "le pays de destination"); err != nil {
		return row, err
	}

	mode, err := pricing.ParseTransportMode(r.FormValue("mode"))
	if err != nil {
		return row, fmt.Errorf("le mode de transport est invalide")
	}
	row.Mode = string(mode)

	if row.Rate, err = parsePositiveFloat(r.FormValue("rate"), "le tarif"); err != nil {
		return row, err
	}

	return row, nil
}

func (s *server) listTariffs() ([]tariffRow, error) {
	rows, err := s.db.Query(`
		SELECT id, origin, destination, mode, rate, COALESCE(notes, ''), active
		FROM tariffs
		ORDER BY origin, destination, mode
	`)
	if err != nil {
		return nil, fmt.Errorf("query tariffs: %w", err)
	}
	defer rows.Close()

	tariffs := make([]tariffRow, 0)
	for rows.Next() {
		var row tariffRow
		if err := rows.Scan(&row.ID, &row.Origin, &row.Destination, &row.Mode, &row.Rate, &row.Notes, &row.Active); err != nil {
			return nil, fmt.Errorf("scan tariff: %w", err)
		}
		tariffs = append(tariffs, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tariffs: %w", err)
	}

	return tariffs, nil
}
