// The per-booking state machine, applied once per simulated day:
// today's appointments resolve to no-show or completed, future bookings may
// cancel, and cancelled patients may accept a reschedule offer.

package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/clinicsim/clinicsim/sim/trace"
)

// LifecycleEngine owns all booking status transitions. It never creates
// bookings itself; reschedule placements go through the resolver.
type LifecycleEngine struct {
	grid     *ScheduleGrid
	slots    *SlotMap
	rates    LifecycleRates
	arrivals *ArrivalProcess
	resolver *BookingResolver
	counters *SimulationCounters
	rng      *rand.Rand
	tr       *trace.SimulationTrace
}

// NewLifecycleEngine wires the engine to the grid and its collaborators.
func NewLifecycleEngine(grid *ScheduleGrid, slots *SlotMap, rates LifecycleRates,
	arrivals *ArrivalProcess, resolver *BookingResolver, counters *SimulationCounters,
	rng *PartitionedRNG, tr *trace.SimulationTrace) *LifecycleEngine {
	return &LifecycleEngine{
		grid:     grid,
		slots:    slots,
		rates:    rates,
		arrivals: arrivals,
		resolver: resolver,
		counters: counters,
		rng:      rng.ForSubsystem(SubsystemLifecycle),
		tr:       tr,
	}
}

// RunDay applies one day's transitions in order: today's appointments first,
// then the cancellation pass over future days. New arrivals are handled by
// the driver afterwards.
func (e *LifecycleEngine) RunDay(day int) {
	e.ResolveToday(day)
	e.cancellationPass(day)
}

// ResolveToday settles every still-booked appointment at day index 0 to
// exactly one of no-show or completed, keyed by (lead-days-at-booking,
// slot). The driver calls it a second time after arrivals so that same-day
// bookings are settled too; no booking may still be active when the day
// retires.
func (e *LifecycleEngine) ResolveToday(day int) {
	for slot := 0; slot < e.grid.NumSlots(); slot++ {
		b := e.grid.At(0, slot)
		if b == nil || b.Status != StatusBooked {
			continue
		}
		key := b.Key(e.slots)
		if e.rng.Float64() < e.rates.NoShow.Rate(key) {
			e.transition(day, b, StatusNoShow)
			e.counters.NoShows++
		} else {
			e.transition(day, b, StatusCompleted)
			e.counters.Completed++
		}
	}
}

// cancellationPass samples cancellation for every booked future appointment,
// and for each cancellation a Bernoulli rebook-acceptance draw. An accepted
// offer runs the resolver once with a fresh preference sample; if it places,
// the original booking retires as rescheduled, otherwise (offer declined or
// nothing free) it ends cancelled and the cell stays empty.
func (e *LifecycleEngine) cancellationPass(day int) {
	for d := 1; d < e.grid.NumDays(); d++ {
		for slot := 0; slot < e.grid.NumSlots(); slot++ {
			b := e.grid.At(d, slot)
			if b == nil || b.Status != StatusBooked {
				continue
			}
			key := b.Key(e.slots)
			if e.rng.Float64() >= e.rates.Cancel.Rate(key) {
				continue
			}

			e.grid.Remove(d, slot)
			e.counters.Cancellations++
			logrus.Debugf("Cancelled %s (day %d, slot %s)", b.PatientID, d, key.Slot)

			if e.rng.Float64() < e.rates.RebookAccept {
				if e.rebook(day, b) {
					continue
				}
			}
			e.transition(day, b, StatusCancelled)
		}
	}
}

// rebook attempts to reseat a cancelled patient elsewhere in the window.
func (e *LifecycleEngine) rebook(day int, old *Booking) bool {
	prefs := e.arrivals.Preferences()
	nb, rank := e.resolver.Resolve(old.PatientID, prefs)
	if nb == nil {
		return false
	}
	e.transition(day, old, StatusRescheduled)
	e.counters.Rebookings++
	e.tr.RecordPlacement(trace.PlacementRecord{
		Day:       day,
		PatientID: nb.PatientID,
		Rank:      rank,
		LeadDays:  nb.LeadDays,
		Slot:      e.slots.Label(nb.SlotIndex),
		Rebooked:  true,
	})
	return true
}

func (e *LifecycleEngine) transition(day int, b *Booking, to BookingStatus) {
	invariant(b.Status == StatusBooked, "transition from terminal status %s for %s", b.Status, b.PatientID)
	b.Status = to
	e.tr.RecordTransition(trace.TransitionRecord{
		Day:       day,
		PatientID: b.PatientID,
		To:        string(to),
		LeadDays:  b.LeadDays,
		Slot:      e.slots.Label(b.SlotIndex),
	})
}
