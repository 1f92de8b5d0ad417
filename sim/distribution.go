// Empirical distributions fitted from historical bookings: a frequency table
// over (lead-days, slot) keys sampled via inverse CDF, per-key daily rate
// tables, and a Poisson sampler for arrival counts.

package sim

import (
	"math"
	"math/rand"
	"sort"
)

// PrefKey identifies one cell of the preference space: how many days out a
// booking was made, and the time-of-day slot it targeted.
type PrefKey struct {
	LeadDays int
	Slot     string
}

// FrequencyTable is an observed-count table over PrefKeys, normalizable to a
// probability mass function. Zero-count keys are absent, never stored as 0.
// The inverse CDF is built lazily on first Sample and cached until the next
// Add.
type FrequencyTable struct {
	counts map[PrefKey]int
	total  int

	// cached sampling structures; nil when stale
	keys []PrefKey
	cdf  []float64
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[PrefKey]int)}
}

// Add records n observations of key. n must be >= 1.
func (t *FrequencyTable) Add(key PrefKey, n int) {
	invariant(n >= 1, "frequency table add: count %d for key %v", n, key)
	t.counts[key] += n
	t.total += n
	t.keys, t.cdf = nil, nil
}

// Count returns the observed count for key (0 if absent).
func (t *FrequencyTable) Count(key PrefKey) int {
	return t.counts[key]
}

// Len returns the number of distinct observed keys.
func (t *FrequencyTable) Len() int {
	return len(t.counts)
}

// Total returns the total number of observations.
func (t *FrequencyTable) Total() int {
	return t.total
}

// Keys returns the observed keys in deterministic order.
func (t *FrequencyTable) Keys() []PrefKey {
	t.buildCDF()
	out := make([]PrefKey, len(t.keys))
	copy(out, t.keys)
	return out
}

// Sample draws one key with probability proportional to its count, using
// inverse CDF over a deterministic key order so that equal seeds reproduce
// equal draws. Returns ErrEmptyDistribution when no keys were observed.
func (t *FrequencyTable) Sample(rng *rand.Rand) (PrefKey, error) {
	if len(t.counts) == 0 {
		return PrefKey{}, ErrEmptyDistribution
	}
	t.buildCDF()
	u := rng.Float64()
	idx := sort.SearchFloat64s(t.cdf, u)
	if idx >= len(t.keys) {
		idx = len(t.keys) - 1
	}
	return t.keys[idx], nil
}

func (t *FrequencyTable) buildCDF() {
	if t.keys != nil {
		return
	}
	keys := make([]PrefKey, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].LeadDays != keys[j].LeadDays {
			return keys[i].LeadDays < keys[j].LeadDays
		}
		return keys[i].Slot < keys[j].Slot
	})

	cdf := make([]float64, len(keys))
	cumulative := 0.0
	for i, k := range keys {
		cumulative += float64(t.counts[k]) / float64(t.total)
		cdf[i] = cumulative
	}
	if len(cdf) > 0 {
		cdf[len(cdf)-1] = 1.0
	}
	t.keys, t.cdf = keys, cdf
}

// RateTable maps PrefKeys to a daily event rate in [0,1], with a configured
// fallback for keys never observed historically. Sparse data must not make
// the simulation unrunnable.
type RateTable struct {
	rates   map[PrefKey]float64
	Default float64
}

// NewRateTable returns an empty table with the given fallback rate.
func NewRateTable(fallback float64) *RateTable {
	return &RateTable{rates: make(map[PrefKey]float64), Default: fallback}
}

// Set records the rate for key.
func (t *RateTable) Set(key PrefKey, rate float64) {
	invariant(rate >= 0 && rate <= 1, "rate table set: rate %g for key %v", rate, key)
	t.rates[key] = rate
}

// Rate returns the rate for key, or the fallback when the key was never
// observed.
func (t *RateTable) Rate(key PrefKey) float64 {
	if r, ok := t.rates[key]; ok {
		return r
	}
	return t.Default
}

// Len returns the number of explicitly observed keys.
func (t *RateTable) Len() int {
	return len(t.rates)
}

// ArrivalRates holds the mean daily booking-arrival count per weekday,
// indexed by time.Weekday (Sunday = 0). Weekdays with zero observed days
// carry exactly 0, never NaN.
type ArrivalRates [7]float64

// For returns the mean arrival rate for the given weekday.
func (a ArrivalRates) For(day int) float64 {
	return a[((day%7)+7)%7]
}

// SamplePoisson draws one Poisson-distributed count with the given mean.
// A mean of zero (or less) deterministically yields 0.
//
// Uses Knuth's product-of-uniforms method, adequate for clinic-scale daily
// means; built directly on *rand.Rand like the other samplers here.
func SamplePoisson(rng *rand.Rand, mean float64) int {
	if mean <= 0 {
		return 0
	}
	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
