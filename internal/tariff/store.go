package tariff

import (
	"database/sql"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/raoulalobo/kmapin-logistics-sub006/internal/pricing"
)

const (
	snapshotKey = "tariff-table"
	snapshotTTL = time.Minute
)

// Store reads tariff rows from the database and serves immutable Table
// snapshots to calculations. The rows are loaded in a single query and the
// resulting snapshot is cached briefly, so concurrent quote requests do not
// hammer the database and each calculation sees one consistent grid.
type Store struct {
	db    *sql.DB
	cache *gocache.Cache
	log   zerolog.Logger
}

// NewStore builds a store over an open database handle.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:    db,
		cache: gocache.New(snapshotTTL, 2*snapshotTTL),
		log:   log,
	}
}

// Snapshot returns the current tariff table, reloading it from the database
// when the cached copy has expired.
func (s *Store) Snapshot() (Table, error) {
	if cached, ok := s.cache.Get(snapshotKey); ok {
		return cached.(Table), nil
	}

	table, err := s.load()
	if err != nil {
		return Table{}, err
	}

	s.cache.Set(snapshotKey, table, gocache.DefaultExpiration)
	return table, nil
}

// Invalidate drops the cached snapshot. Admin writes call it so the next
// calculation picks up the fresh rates immediately.
func (s *Store) Invalidate() {
	s.cache.Delete(snapshotKey)
}

// Lookup implements pricing.TariffSource over the current snapshot. If the
// database read fails the built-in reference grid answers instead: quoting
// must stay up even when the tariff table is unreadable.
func (s *Store) Lookup(origin, destination string, mode pricing.TransportMode) (float64, string, bool) {
	table, err := s.Snapshot()
	if err != nil {
		s.log.Error().Err(err).Msg("tariff snapshot unavailable, using reference grid")
		table = Reference()
	}
	return table.Lookup(origin, destination, mode)
}

func (s *Store) load() (Table, error) {
	rows, err := s.db.Query(`
		SELECT origin, destination, mode, rate
		FROM tariffs
		WHERE active
	`)
	if err != nil {
		return Table{}, fmt.Errorf("query tariffs: %w", err)
	}
	defer rows.Close()

	rates := make(map[Key]float64)
	for rows.Next() {
		var origin, destination, rawMode string
		var rate float64
		if err := rows.Scan(&origin, &destination, &rawMode, &rate); err != nil {
			return Table{}, fmt.Errorf("scan tariff: %w", err)
		}

		mode, err := pricing.ParseTransportMode(rawMode)
		if err != nil {
			s.log.Warn().Str("mode", rawMode).Str("origin", origin).Str("destination", destination).
				Msg("skipping tariff row with unknown mode")
			continue
		}

		rates[NewKey(origin, destination, mode)] = rate
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("iterate tariffs: %w", err)
	}

	return NewTable(rates), nil
}
