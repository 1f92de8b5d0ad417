// Places arriving patients into the first free cell of their ranked
// preference list, falling through lower choices, or turns them away.

package sim

import (
	"github.com/sirupsen/logrus"
)

// BookingResolver seats patients on the schedule grid.
type BookingResolver struct {
	grid     *ScheduleGrid
	slots    *SlotMap
	counters *SimulationCounters
}

// NewBookingResolver wires the resolver to the grid it mutates.
func NewBookingResolver(grid *ScheduleGrid, slots *SlotMap, counters *SimulationCounters) *BookingResolver {
	return &BookingResolver{grid: grid, slots: slots, counters: counters}
}

// Resolve tries prefs in rank order and books the first one that maps to a
// currently-free cell inside the day window. It returns the created booking
// and the rank it landed at, or (nil, -1) when every preference was taken
// and the patient is turned away.
//
// Preferences whose lead time is at or beyond the window, or whose slot
// label the clinic does not offer, are treated as always-occupied, not as
// errors. ErrSlotOccupied from Place only ever drives fallback to the next
// rank; it never escapes.
func (r *BookingResolver) Resolve(patientID string, prefs []PrefKey) (*Booking, int) {
	for rank, pref := range prefs {
		slot, ok := r.slots.Index(pref.Slot)
		if !ok || pref.LeadDays >= r.grid.NumDays() {
			continue
		}
		b := &Booking{
			PatientID: patientID,
			LeadDays:  pref.LeadDays,
			Status:    StatusBooked,
		}
		if err := r.grid.Place(pref.LeadDays, slot, b); err != nil {
			continue // ErrSlotOccupied: fall through to the next preference
		}

		r.counters.Placed++
		switch rank {
		case 0:
			r.counters.FirstChoice++
		case 1:
			r.counters.SecondChoice++
		}
		logrus.Debugf("Placed %s at day %d slot %s (rank %d)", patientID, pref.LeadDays, pref.Slot, rank)
		return b, rank
	}

	r.counters.TurnedAway++
	logrus.Debugf("Turned away %s: no free preference", patientID)
	return nil, -1
}
