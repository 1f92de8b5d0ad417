// The mutable calendar: a fixed slot-by-day grid of cells, each empty or
// holding a Booking. The day axis is relative to "today" and shifts by one
// position at the start of each simulated day.

package sim

import "fmt"

// BookingStatus is the lifecycle state of a booking. All transitions out of
// StatusBooked are terminal; a booking never returns to StatusBooked.
type BookingStatus string

const (
	StatusBooked      BookingStatus = "booked"
	StatusCancelled   BookingStatus = "cancelled"
	StatusNoShow      BookingStatus = "no_show"
	StatusCompleted   BookingStatus = "completed"
	StatusRescheduled BookingStatus = "rescheduled"
)

// Terminal reports whether s is a terminal status.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusNoShow || s == StatusCompleted || s == StatusRescheduled
}

// Booking is one occupied calendar cell. Created StatusBooked by the
// resolver; status transitions are owned solely by the lifecycle engine.
type Booking struct {
	PatientID string        `json:"patient_id"`
	SlotIndex int           `json:"slot_index"`
	DayIndex  int           `json:"day_index"`
	LeadDays  int           `json:"lead_days_at_booking"`
	Status    BookingStatus `json:"status"`
}

// Key returns the (lead-days-at-booking, slot) key used by the lifecycle
// rate tables.
func (b *Booking) Key(slots *SlotMap) PrefKey {
	return PrefKey{LeadDays: b.LeadDays, Slot: slots.Label(b.SlotIndex)}
}

// ScheduleGrid is the NumSlots x NumDays calendar. Cells are mutated
// exclusively by the booking resolver (creation) and the lifecycle engine
// (transitions/removal); the driver owns the grid for the whole run.
type ScheduleGrid struct {
	numSlots int
	numDays  int
	cells    [][]*Booking // [slot][day]; nil cell = empty
}

// NewScheduleGrid creates an all-empty grid. Dimensions are validated here,
// before any simulated day runs.
func NewScheduleGrid(numSlots, numDays int) (*ScheduleGrid, error) {
	if numSlots <= 0 || numDays <= 0 {
		return nil, fmt.Errorf("schedule grid dimensions must be positive, got %dx%d", numSlots, numDays)
	}
	cells := make([][]*Booking, numSlots)
	for s := range cells {
		cells[s] = make([]*Booking, numDays)
	}
	return &ScheduleGrid{numSlots: numSlots, numDays: numDays, cells: cells}, nil
}

// NumSlots returns the number of slots per day.
func (g *ScheduleGrid) NumSlots() int { return g.numSlots }

// NumDays returns the size of the bookable day window.
func (g *ScheduleGrid) NumDays() int { return g.numDays }

// InWindow reports whether (day, slot) addresses a cell of the grid.
func (g *ScheduleGrid) InWindow(day, slot int) bool {
	return day >= 0 && day < g.numDays && slot >= 0 && slot < g.numSlots
}

// IsFree reports whether the cell is empty. Out-of-window cells are never
// free: a preference beyond the schedulable window is treated as
// always-occupied, not as an error.
func (g *ScheduleGrid) IsFree(day, slot int) bool {
	return g.InWindow(day, slot) && g.cells[slot][day] == nil
}

// At returns the booking in the cell, or nil when empty or out of window.
func (g *ScheduleGrid) At(day, slot int) *Booking {
	if !g.InWindow(day, slot) {
		return nil
	}
	return g.cells[slot][day]
}

// Place books the cell. Fails with ErrSlotOccupied, leaving the grid
// untouched, when the cell is not free.
func (g *ScheduleGrid) Place(day, slot int, b *Booking) error {
	if !g.IsFree(day, slot) {
		return ErrSlotOccupied
	}
	b.DayIndex = day
	b.SlotIndex = slot
	g.cells[slot][day] = b
	return nil
}

// Remove empties the cell, returning the booking that was there (nil when
// already empty).
func (g *ScheduleGrid) Remove(day, slot int) *Booking {
	if !g.InWindow(day, slot) {
		return nil
	}
	b := g.cells[slot][day]
	g.cells[slot][day] = nil
	return b
}

// AdvanceDay shifts every booking's day index down by one: the oldest day
// retires and a new empty day opens up NumDays out. Any booking falling off
// the front must already be terminal; a still-booked one means the lifecycle
// pass missed it, which aborts the run.
func (g *ScheduleGrid) AdvanceDay() {
	for s := 0; s < g.numSlots; s++ {
		if b := g.cells[s][0]; b != nil {
			invariant(b.Status.Terminal(),
				"booking %s still %s at day 0 during day advance", b.PatientID, b.Status)
		}
		copy(g.cells[s], g.cells[s][1:])
		g.cells[s][g.numDays-1] = nil
	}
	g.eachBooking(func(b *Booking, _, _ int) {
		b.DayIndex--
	})
}

// CountEmpty returns the number of empty cells across the whole grid.
func (g *ScheduleGrid) CountEmpty() int {
	empty := 0
	for s := 0; s < g.numSlots; s++ {
		for d := 0; d < g.numDays; d++ {
			if g.cells[s][d] == nil {
				empty++
			}
		}
	}
	return empty
}

// eachBooking visits every occupied cell in deterministic day-major order.
func (g *ScheduleGrid) eachBooking(fn func(b *Booking, day, slot int)) {
	for d := 0; d < g.numDays; d++ {
		for s := 0; s < g.numSlots; s++ {
			if b := g.cells[s][d]; b != nil {
				fn(b, d, s)
			}
		}
	}
}

// SlotMap maps between slot indexes and the clinic's "H:MM" labels.
type SlotMap struct {
	labels []string
	index  map[string]int
}

// NewSlotMap builds the mapping from an ordered label list.
func NewSlotMap(labels []string) *SlotMap {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	return &SlotMap{labels: labels, index: index}
}

// Index returns the slot index for a label; ok is false for times the clinic
// does not offer (such preferences are never placeable).
func (m *SlotMap) Index(label string) (int, bool) {
	i, ok := m.index[label]
	return i, ok
}

// Label returns the label for a slot index.
func (m *SlotMap) Label(i int) string {
	return m.labels[i]
}

// Len returns the number of slots.
func (m *SlotMap) Len() int {
	return len(m.labels)
}

// Labels returns the ordered label list.
func (m *SlotMap) Labels() []string {
	return m.labels
}
