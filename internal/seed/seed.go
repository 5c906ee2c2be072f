// Package seed inserts the baseline data a fresh deployment needs: the admin
// user and the reference tariff grid.
package seed

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/raoulalobo/kmapin-logistics-sub006/internal/tariff"
)

// Config contains the values required by the startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way: existing rows are left
// untouched, everything happens in one transaction.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := seedTariffs(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, hashPassword(password)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// hashPassword must stay in sync with the login check in cmd/server.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func seedTariffs(tx *sql.Tx, stats *Stats) error {
	for _, entry := range tariff.ReferenceEntries() {
		var exists bool
		err := tx.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM tariffs
				WHERE origin = ? AND destination = ? AND mode = ?
				LIMIT 1
			)
		`, entry.Origin, entry.Destination, string(entry.Mode)).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check tariff existence: %w", err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO tariffs (origin, destination, mode, rate, notes, active)
			VALUES (?, ?, ?, ?, '', TRUE)
		`, entry.Origin, entry.Destination, string(entry.Mode), entry.Rate); err != nil {
			return fmt.Errorf("insert tariff %s-%s/%s: %w", entry.Origin, entry.Destination, entry.Mode, err)
		}
		stats.Inserts++
	}

	return nil
}
