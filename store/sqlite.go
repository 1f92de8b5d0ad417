// Package store provides HistoricalRecordStore implementations: a
// SQLite-backed table of past bookings, and an in-memory source for tests.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/clinicsim/clinicsim/sim"
)

// SQLite is a read-mostly store over the historical_bookings table.
// Use ":memory:" for an in-memory database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and auto-migrates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS historical_bookings (
		id            TEXT PRIMARY KEY,
		schedule_date TEXT NOT NULL, -- YYYY-MM-DD, date the booking was made
		appt_date     TEXT NOT NULL, -- YYYY-MM-DD
		appt_time     TEXT NOT NULL, -- 24-hour HH:MM
		outcome       TEXT NOT NULL DEFAULT 'completed'
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_schedule_date
		ON historical_bookings(schedule_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// IterateBookings streams every historical row to fn, satisfying the
// sim.RecordSource contract. Iteration order is stable (by schedule date,
// then id) so estimation passes are reproducible.
func (s *SQLite) IterateBookings(fn func(sim.BookingRow) error) error {
	rows, err := s.db.Query(`
		SELECT schedule_date, appt_date, appt_time, outcome
		FROM historical_bookings
		ORDER BY schedule_date ASC, id ASC
	`)
	if err != nil {
		return fmt.Errorf("query historical bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row sim.BookingRow
		if err := rows.Scan(&row.ScheduleDate, &row.ApptDate, &row.ApptTime, &row.Outcome); err != nil {
			return fmt.Errorf("scan historical booking: %w", err)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// InsertBooking adds one historical row; used by the seed command.
func (s *SQLite) InsertBooking(id string, row sim.BookingRow) error {
	outcome := row.Outcome
	if outcome == "" {
		outcome = sim.OutcomeCompleted
	}
	_, err := s.db.Exec(`
		INSERT INTO historical_bookings (id, schedule_date, appt_date, appt_time, outcome)
		VALUES (?, ?, ?, ?, ?)
	`, id, row.ScheduleDate, row.ApptDate, row.ApptTime, outcome)
	return err
}

// Count returns the number of historical rows.
func (s *SQLite) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM historical_bookings`).Scan(&n)
	return n, err
}
