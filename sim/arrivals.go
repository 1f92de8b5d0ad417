// Generates the day's patient arrivals: a Poisson count from the weekday's
// estimated mean, and per patient a ranked (lead-days, slot) preference list
// drawn from the fitted preference distribution.

package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ArrivalProcess samples arrival counts and ranked preference lists.
type ArrivalProcess struct {
	rates   ArrivalRates
	prefs   *FrequencyTable
	breadth int // alternatives considered per patient
	numDays int
	slots   *SlotMap

	countRNG *rand.Rand
	prefRNG  *rand.Rand

	// countFn is the Poisson draw, a seam for deterministic tests.
	countFn func(rng *rand.Rand, mean float64) int

	warnedEmpty bool
}

// NewArrivalProcess wires the process to its distributions and RNG streams.
func NewArrivalProcess(rates ArrivalRates, prefs *FrequencyTable, breadth, numDays int, slots *SlotMap, rng *PartitionedRNG) *ArrivalProcess {
	return &ArrivalProcess{
		rates:    rates,
		prefs:    prefs,
		breadth:  breadth,
		numDays:  numDays,
		slots:    slots,
		countRNG: rng.ForSubsystem(SubsystemArrivals),
		prefRNG:  rng.ForSubsystem(SubsystemPreferences),
		countFn:  SamplePoisson,
	}
}

// CountFor draws the number of patients arriving on the given weekday.
// A weekday with mean 0 deterministically yields 0.
func (a *ArrivalProcess) CountFor(weekday int) int {
	return a.countFn(a.countRNG, a.rates.For(weekday))
}

// Preferences draws one patient's ranked choice list: breadth independent
// samples with replacement, in draw order (first draw = first choice).
//
// When the preference distribution has no observed keys the fallback policy
// is uniform sampling over all valid (lead-days in [0, NumDays), slot)
// pairs, so the simulation stays runnable on empty history.
func (a *ArrivalProcess) Preferences() []PrefKey {
	out := make([]PrefKey, a.breadth)
	for i := range out {
		key, err := a.prefs.Sample(a.prefRNG)
		if err != nil {
			key = a.uniformKey()
		}
		out[i] = key
	}
	return out
}

func (a *ArrivalProcess) uniformKey() PrefKey {
	if !a.warnedEmpty {
		logrus.Warn("Preference distribution is empty; sampling uniformly over the booking window")
		a.warnedEmpty = true
	}
	return PrefKey{
		LeadDays: a.prefRNG.Intn(a.numDays),
		Slot:     a.slots.Label(a.prefRNG.Intn(a.slots.Len())),
	}
}
