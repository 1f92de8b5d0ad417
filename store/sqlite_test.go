package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicsim/clinicsim/sim"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSQLite_MigratesEmptyDatabase(t *testing.T) {
	s := openTestStore(t)
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLite_InsertAndIterate(t *testing.T) {
	// GIVEN three rows inserted out of schedule order
	s := openTestStore(t)
	rows := []sim.BookingRow{
		{ScheduleDate: "2024-01-08", ApptDate: "2024-01-10", ApptTime: "09:00", Outcome: sim.OutcomeCancelled},
		{ScheduleDate: "2024-01-01", ApptDate: "2024-01-03", ApptTime: "09:00"},
		{ScheduleDate: "2024-01-02", ApptDate: "2024-01-04", ApptTime: "14:00", Outcome: sim.OutcomeNoShow},
	}
	for i, row := range rows {
		require.NoError(t, s.InsertBooking(string(rune('a'+i)), row))
	}

	// WHEN the store is iterated
	var got []sim.BookingRow
	err := s.IterateBookings(func(r sim.BookingRow) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)

	// THEN rows come back in schedule-date order with outcomes filled in
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-01", got[0].ScheduleDate)
	assert.Equal(t, "2024-01-02", got[1].ScheduleDate)
	assert.Equal(t, "2024-01-08", got[2].ScheduleDate)
	// Empty outcome defaults to completed at insert time.
	assert.Equal(t, sim.OutcomeCompleted, got[0].Outcome)
	assert.Equal(t, sim.OutcomeNoShow, got[1].Outcome)
	assert.Equal(t, sim.OutcomeCancelled, got[2].Outcome)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLite_DuplicateIDRejected(t *testing.T) {
	s := openTestStore(t)
	row := sim.BookingRow{ScheduleDate: "2024-01-01", ApptDate: "2024-01-03", ApptTime: "09:00"}
	require.NoError(t, s.InsertBooking("dup", row))
	assert.Error(t, s.InsertBooking("dup", row))
}

func TestSQLite_FeedsEstimation(t *testing.T) {
	// The store satisfies sim.RecordSource end to end: persisted rows drive
	// all three estimation passes.
	s := openTestStore(t)
	seed := []sim.BookingRow{
		{ScheduleDate: "2024-01-01", ApptDate: "2024-01-03", ApptTime: "09:00", Outcome: sim.OutcomeCompleted},
		{ScheduleDate: "2024-01-01", ApptDate: "2024-01-03", ApptTime: "09:00", Outcome: sim.OutcomeCancelled},
		{ScheduleDate: "2024-01-02", ApptDate: "2024-01-05", ApptTime: "10:00", Outcome: sim.OutcomeCompleted},
	}
	for i, row := range seed {
		require.NoError(t, s.InsertBooking(string(rune('a'+i)), row))
	}

	dists, err := sim.Estimate(s, sim.DefaultSimConfig())
	require.NoError(t, err)

	assert.Equal(t, 2.0, dists.Arrivals.For(1)) // Monday
	assert.Equal(t, 2, dists.Prefs.Count(sim.PrefKey{LeadDays: 2, Slot: "9:00"}))
	assert.Equal(t, 0.5, dists.Lifecycle.Cancel.Rate(sim.PrefKey{LeadDays: 2, Slot: "9:00"}))
}

func TestOpenSQLite_OnDiskReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.InsertBooking("a", sim.BookingRow{
		ScheduleDate: "2024-01-01", ApptDate: "2024-01-03", ApptTime: "09:00",
	}))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	n, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemory_IterateBookings(t *testing.T) {
	var m Memory
	m.Add(sim.BookingRow{ScheduleDate: "2024-01-01", ApptDate: "2024-01-02", ApptTime: "09:00"})
	m.Add(sim.BookingRow{ScheduleDate: "2024-01-02", ApptDate: "2024-01-03", ApptTime: "10:00"})

	var seen int
	require.NoError(t, m.IterateBookings(func(sim.BookingRow) error {
		seen++
		return nil
	}))
	assert.Equal(t, 2, seen)
}
