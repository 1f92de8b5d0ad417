package store

import "github.com/clinicsim/clinicsim/sim"

// Memory is an in-memory record source for tests and programmatic use.
type Memory struct {
	Rows []sim.BookingRow
}

// IterateBookings streams the rows in insertion order.
func (m *Memory) IterateBookings(fn func(sim.BookingRow) error) error {
	for _, row := range m.Rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// Add appends rows to the source.
func (m *Memory) Add(rows ...sim.BookingRow) {
	m.Rows = append(m.Rows, rows...)
}
