// Fits the three empirical distributions from the historical booking table:
// daily arrival rates per weekday, (lead-days, slot) booking preferences,
// and per-key cancellation / no-show rates.

package sim

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// LifecycleRates bundles the per-key daily cancellation and no-show rate
// tables with the rebook-acceptance probability. RebookAccept is the
// configured flexibility rate, not estimated from data; per-key estimation
// of it is a future extension.
type LifecycleRates struct {
	Cancel       *RateTable
	NoShow       *RateTable
	RebookAccept float64
}

// Distributions is everything the simulator needs from the estimation phase.
type Distributions struct {
	Arrivals  ArrivalRates
	Prefs     *FrequencyTable
	Lifecycle LifecycleRates
}

// Estimate runs all three estimation passes against the record source.
// The passes share no mutable state; they are run sequentially here since
// estimation is not on the hot path.
func Estimate(src RecordSource, cfg SimConfig) (Distributions, error) {
	arrivals, err := EstimateArrivalRates(src)
	if err != nil {
		return Distributions{}, err
	}
	prefs, err := EstimatePreferences(src)
	if err != nil {
		return Distributions{}, err
	}
	lifecycle, err := EstimateLifecycleRates(src, cfg)
	if err != nil {
		return Distributions{}, err
	}
	return Distributions{Arrivals: arrivals, Prefs: prefs, Lifecycle: lifecycle}, nil
}

// EstimateArrivalRates computes, per weekday, the mean number of bookings
// made per observed weekday instance: total bookings scheduled on that
// weekday divided by the number of distinct dates observed for it.
// Weekdays with zero observed days yield exactly 0, never NaN: the division
// is guarded explicitly.
func EstimateArrivalRates(src RecordSource) (ArrivalRates, error) {
	perDate := make(map[string]int)
	err := iterateParsed(src, func(b HistoricalBooking) {
		perDate[b.ScheduleDate.Format(isoDate)]++
	})
	if err != nil {
		return ArrivalRates{}, err
	}

	var daysObserved, arrivals [7]int
	for date, count := range perDate {
		parsed, err := time.Parse(isoDate, date)
		if err != nil {
			continue // keys came from Format, cannot happen
		}
		wd := int(parsed.Weekday())
		daysObserved[wd]++
		arrivals[wd] += count
	}

	var rates ArrivalRates
	for wd := 0; wd < 7; wd++ {
		if daysObserved[wd] == 0 {
			rates[wd] = 0
			continue
		}
		rates[wd] = float64(arrivals[wd]) / float64(daysObserved[wd])
	}
	return rates, nil
}

// EstimatePreferences builds the (lead-days, slot) booking-count table used
// to sample patient preferences.
func EstimatePreferences(src RecordSource) (*FrequencyTable, error) {
	table := NewFrequencyTable()
	err := iterateParsed(src, func(b HistoricalBooking) {
		table.Add(b.Key(), 1)
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// EstimateLifecycleRates derives per-key daily cancellation and no-show
// rates from recorded booking outcomes: events over total observations per
// key. Keys with no observations fall back to the configured default rates.
func EstimateLifecycleRates(src RecordSource, cfg SimConfig) (LifecycleRates, error) {
	totals := make(map[PrefKey]int)
	cancelled := make(map[PrefKey]int)
	noShow := make(map[PrefKey]int)

	err := iterateParsed(src, func(b HistoricalBooking) {
		key := b.Key()
		totals[key]++
		switch b.Outcome {
		case OutcomeCancelled:
			cancelled[key]++
		case OutcomeNoShow:
			noShow[key]++
		}
	})
	if err != nil {
		return LifecycleRates{}, err
	}

	cancelRates := NewRateTable(cfg.DefaultCancelRate)
	noShowRates := NewRateTable(cfg.DefaultNoShowRate)
	for key, total := range totals {
		cancelRates.Set(key, float64(cancelled[key])/float64(total))
		noShowRates.Set(key, float64(noShow[key])/float64(total))
	}

	return LifecycleRates{
		Cancel:       cancelRates,
		NoShow:       noShowRates,
		RebookAccept: cfg.FlexRate,
	}, nil
}

// iterateParsed feeds every well-formed row to fn. Malformed rows are logged
// and skipped, never fatal to the whole pass; source errors abort.
func iterateParsed(src RecordSource, fn func(HistoricalBooking)) error {
	skipped := 0
	err := src.IterateBookings(func(row BookingRow) error {
		parsed, err := ParseBookingRow(row)
		if err != nil {
			var parseErr *DataParseError
			if errors.As(err, &parseErr) {
				logrus.Warnf("Skipping record: %v", parseErr)
				skipped++
				return nil
			}
			return err
		}
		fn(parsed)
		return nil
	})
	if skipped > 0 {
		logrus.Infof("Estimation skipped %d malformed records", skipped)
	}
	return err
}
