package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema. Mirrors the SQLite layout so both
// repository variants share the same scan code; created_at stays textual
// (RFC 3339) for that reason.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY,
			current_location TEXT NOT NULL,
			pickup_location TEXT NOT NULL,
			dropoff_location TEXT NOT NULL,
			current_cycle_used DOUBLE PRECISION NOT NULL,
			total_miles DOUBLE PRECISION NOT NULL,
			total_duration_hours DOUBLE PRECISION NOT NULL,
			total_days INTEGER NOT NULL,
			total_driving_hours DOUBLE PRECISION NOT NULL,
			total_duty_hours DOUBLE PRECISION NOT NULL,
			total_rest_hours DOUBLE PRECISION NOT NULL,
			cycle_hours_at_end DOUBLE PRECISION NOT NULL,
			legs_json TEXT NOT NULL,
			events_json TEXT NOT NULL,
			daily_logs_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS route_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			distance_miles DOUBLE PRECISION NOT NULL,
			duration_hours DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (origin, destination)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lon DOUBLE PRECISION NOT NULL,
			lat DOUBLE PRECISION NOT NULL
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_trips_created_at
		ON trips(created_at DESC);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
