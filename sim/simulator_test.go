package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicsim/clinicsim/sim/trace"
)

func scenarioConfig() SimConfig {
	return SimConfig{
		NumSlots:          2,
		NumDays:           3,
		NumIters:          1,
		FlexRate:          0,
		PreferenceBreadth: 3,
		Seed:              7,
		StartWeekday:      time.Monday,
	}
}

func scenarioDistributions(cfg SimConfig) Distributions {
	var arrivals ArrivalRates
	for wd := range arrivals {
		arrivals[wd] = 1.0
	}
	prefs := NewFrequencyTable()
	prefs.Add(PrefKey{LeadDays: 1, Slot: "9:00"}, 1)
	return Distributions{
		Arrivals: arrivals,
		Prefs:    prefs,
		Lifecycle: LifecycleRates{
			Cancel:       NewRateTable(0),
			NoShow:       NewRateTable(0),
			RebookAccept: cfg.FlexRate,
		},
	}
}

func TestSimulator_OneDayScenario(t *testing.T) {
	// GIVEN a 2x3 empty grid and preference mass entirely on (1, "9:00")
	cfg := scenarioConfig()
	s, err := NewSimulator(cfg, scenarioDistributions(cfg), nil)
	require.NoError(t, err)
	// Exactly one patient arrives, regardless of the Poisson draw.
	s.arrivals.countFn = func(*rand.Rand, float64) int { return 1 }

	// WHEN one day is simulated
	s.Run()

	// THEN exactly one booking exists at day 1, slot "9:00", still booked
	b := s.Grid.At(1, 1) // slot "9:00" is index 1 of the hourly labels
	require.NotNil(t, b)
	assert.Equal(t, StatusBooked, b.Status)
	assert.Equal(t, 1, b.LeadDays)
	assert.Equal(t, 1, s.Counters.FirstChoice)
	assert.Equal(t, 1, s.Counters.Placed)
	assert.Equal(t, 2*3-1, s.Counters.EmptySlots)

	// AND it is the only occupied cell
	occupied := 0
	for d := 0; d < 3; d++ {
		for sl := 0; sl < 2; sl++ {
			if s.Grid.At(d, sl) != nil {
				occupied++
			}
		}
	}
	assert.Equal(t, 1, occupied)
}

func TestSimulator_BookingRunsToCompletion(t *testing.T) {
	// With no cancellations or no-shows, a day-1 booking completes on the
	// following simulated day.
	cfg := scenarioConfig()
	cfg.NumIters = 2
	s, err := NewSimulator(cfg, scenarioDistributions(cfg), nil)
	require.NoError(t, err)
	arrived := false
	s.arrivals.countFn = func(*rand.Rand, float64) int {
		if arrived {
			return 0
		}
		arrived = true
		return 1
	}

	s.Run()

	assert.Equal(t, 1, s.Counters.Completed)
	assert.Equal(t, 0, s.Counters.NoShows)
	assert.Equal(t, 1, s.Counters.Placed)
}

func TestSimulator_SameDayBookingSettlesBeforeRetiring(t *testing.T) {
	// A lead-0 preference books today's slot; it must be settled the same
	// day or the next day shift would find an active booking at the edge.
	cfg := scenarioConfig()
	cfg.NumIters = 3
	dists := scenarioDistributions(cfg)
	dists.Prefs = NewFrequencyTable()
	dists.Prefs.Add(PrefKey{LeadDays: 0, Slot: "8:00"}, 1)

	s, err := NewSimulator(cfg, dists, nil)
	require.NoError(t, err)
	s.arrivals.countFn = func(*rand.Rand, float64) int { return 1 }

	assert.NotPanics(t, func() { s.Run() })
	assert.Equal(t, 3, s.Counters.Placed)
	assert.Equal(t, 3, s.Counters.Completed+s.Counters.NoShows)
}

func TestSimulator_Reproducible(t *testing.T) {
	// Two runs with the same seed and configuration produce identical
	// counters.
	run := func() SimulationCounters {
		cfg := DefaultSimConfig()
		cfg.NumIters = 30
		dists := scenarioDistributions(cfg)
		dists.Lifecycle.Cancel = NewRateTable(0.1)
		dists.Lifecycle.NoShow = NewRateTable(0.1)
		dists.Prefs = NewFrequencyTable()
		dists.Prefs.Add(PrefKey{LeadDays: 1, Slot: "9:00"}, 3)
		dists.Prefs.Add(PrefKey{LeadDays: 4, Slot: "11:00"}, 2)
		dists.Prefs.Add(PrefKey{LeadDays: 7, Slot: "15:00"}, 1)
		s, err := NewSimulator(cfg, dists, nil)
		require.NoError(t, err)
		s.Run()
		return *s.Counters
	}

	assert.Equal(t, run(), run())
}

func TestSimulator_EmptyHistory_UniformFallbackKeepsRunning(t *testing.T) {
	// GIVEN no observed preferences at all
	cfg := DefaultSimConfig()
	cfg.NumIters = 10
	dists := Distributions{
		Arrivals: ArrivalRates{2, 2, 2, 2, 2, 2, 2},
		Prefs:    NewFrequencyTable(),
		Lifecycle: LifecycleRates{
			Cancel:       NewRateTable(0.05),
			NoShow:       NewRateTable(0.05),
			RebookAccept: cfg.FlexRate,
		},
	}
	s, err := NewSimulator(cfg, dists, nil)
	require.NoError(t, err)

	// THEN the run stays alive on the uniform fallback
	assert.NotPanics(t, func() { s.Run() })
	assert.GreaterOrEqual(t, s.Counters.Placed, s.Counters.FirstChoice+s.Counters.SecondChoice)
	assert.Equal(t, 10, s.Day())
}

func TestSimulator_InvalidConfigFailsFast(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.FlexRate = 1.5
	_, err := NewSimulator(cfg, scenarioDistributions(cfg), nil)
	assert.Error(t, err)
}

func TestSimulator_TraceRecordsDays(t *testing.T) {
	cfg := scenarioConfig()
	cfg.NumIters = 2
	tr := trace.New(trace.LevelDecisions)
	s, err := NewSimulator(cfg, scenarioDistributions(cfg), tr)
	require.NoError(t, err)
	s.arrivals.countFn = func(*rand.Rand, float64) int { return 1 }

	s.Run()

	require.Len(t, tr.Days, 2)
	assert.Equal(t, 0, tr.Days[0].Day)
	assert.Equal(t, 1, tr.Days[0].Arrivals)
	assert.NotEmpty(t, tr.Placements)
}
