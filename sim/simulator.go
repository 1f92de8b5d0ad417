// The simulation driver: holds the calendar, counters and RNG, and evolves
// the schedule one day at a time.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/clinicsim/clinicsim/sim/trace"
)

// Simulator orchestrates the simulated days. It owns the schedule grid and
// the counters exclusively for the duration of a run; the whole process is
// single-threaded and sequential, so no locking is involved.
type Simulator struct {
	Config   SimConfig
	Grid     *ScheduleGrid
	Counters *SimulationCounters
	Trace    *trace.SimulationTrace

	slots     *SlotMap
	arrivals  *ArrivalProcess
	resolver  *BookingResolver
	lifecycle *LifecycleEngine

	day         int // 0-based simulated day counter
	nextPatient int
}

// NewSimulator validates the configuration, builds the empty grid and wires
// the per-day components to one seedable RNG. All configuration errors
// surface here, before any simulated day runs.
func NewSimulator(cfg SimConfig, dists Distributions, tr *trace.SimulationTrace) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulation config: %w", err)
	}
	grid, err := NewScheduleGrid(cfg.NumSlots, cfg.NumDays)
	if err != nil {
		return nil, err
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	slots := NewSlotMap(cfg.slotLabels())
	counters := &SimulationCounters{}
	arrivals := NewArrivalProcess(dists.Arrivals, dists.Prefs, cfg.PreferenceBreadth, cfg.NumDays, slots, rng)
	resolver := NewBookingResolver(grid, slots, counters)
	lifecycle := NewLifecycleEngine(grid, slots, dists.Lifecycle, arrivals, resolver, counters, rng, tr)

	return &Simulator{
		Config:    cfg,
		Grid:      grid,
		Counters:  counters,
		Trace:     tr,
		slots:     slots,
		arrivals:  arrivals,
		resolver:  resolver,
		lifecycle: lifecycle,
	}, nil
}

// Run executes the configured number of simulated days from a fresh state.
// Restarting means rerunning from day 0; there is no partial-day
// checkpointing.
func (s *Simulator) Run() {
	s.Counters.Reset()
	for i := 0; i < s.Config.NumIters; i++ {
		s.StepDay()
	}
	logrus.Infof("[day %04d] Simulation ended", s.day)
}

// StepDay executes one simulated day, in order: the day shift (which
// exposes one new day at the far end of the window), the lifecycle pass
// over existing bookings, the arrival/booking pass, settlement of any
// same-day bookings, and the empty-slot tally over the whole grid.
func (s *Simulator) StepDay() {
	logrus.Infof("[day %04d] Executing day", s.day)

	s.Grid.AdvanceDay()
	s.lifecycle.RunDay(s.day)
	arrived := s.runArrivals()
	// Same-day bookings made during the arrival pass still need to resolve
	// to completed or no-show before this day can retire.
	s.lifecycle.ResolveToday(s.day)

	empty := s.Grid.CountEmpty()
	s.Counters.EmptySlots += empty
	s.Trace.RecordDay(trace.DayRecord{Day: s.day, Arrivals: arrived, EmptySlots: empty})

	s.day++
}

// runArrivals samples the day's patient count for the current weekday and
// seats each patient through the resolver. Returns the arrival count.
func (s *Simulator) runArrivals() int {
	weekday := (int(s.Config.StartWeekday) + s.day) % 7
	count := s.arrivals.CountFor(weekday)
	logrus.Debugf("[day %04d] %d arrivals (weekday %d)", s.day, count, weekday)

	for i := 0; i < count; i++ {
		s.nextPatient++
		patientID := fmt.Sprintf("patient-%06d", s.nextPatient)
		prefs := s.arrivals.Preferences()
		b, rank := s.resolver.Resolve(patientID, prefs)
		if b == nil {
			s.Trace.RecordTurnAway(trace.TurnAwayRecord{Day: s.day, PatientID: patientID})
			continue
		}
		s.Trace.RecordPlacement(trace.PlacementRecord{
			Day:       s.day,
			PatientID: patientID,
			Rank:      rank,
			LeadDays:  b.LeadDays,
			Slot:      s.slots.Label(b.SlotIndex),
		})
	}
	return count
}

// Day returns the number of fully simulated days so far.
func (s *Simulator) Day() int {
	return s.day
}
