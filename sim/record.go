// Defines the historical booking row consumed from the record store, and the
// parsing/normalization applied before estimation.

package sim

import (
	"fmt"
	"time"
)

// Booking outcomes as recorded in the historical table. An empty outcome is
// read as completed (legacy rows predate outcome tracking).
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeNoShow    = "no_show"
)

// BookingRow is one raw row from the historical record store:
// the date the booking was made, and the date and time of the appointment
// itself. The core does not own the storage engine; it only consumes rows.
type BookingRow struct {
	ScheduleDate string // ISO date, YYYY-MM-DD
	ApptDate     string // ISO date, YYYY-MM-DD
	ApptTime     string // 24-hour HH:MM
	Outcome      string // completed, cancelled, no_show; empty = completed
}

// RecordSource is the abstract "iterate historical bookings" capability.
// Implementations own connection lifecycle and query language.
type RecordSource interface {
	IterateBookings(fn func(BookingRow) error) error
}

// HistoricalBooking is a parsed and validated row.
type HistoricalBooking struct {
	ScheduleDate time.Time
	ApptDate     time.Time
	LeadDays     int    // appointment date minus schedule date, always >= 0
	SlotLabel    string // normalized "H:MM" label
	Outcome      string
}

// Key returns the (lead-days, slot) distribution key for this booking.
func (b HistoricalBooking) Key() PrefKey {
	return PrefKey{LeadDays: b.LeadDays, Slot: b.SlotLabel}
}

const isoDate = "2006-01-02"

// ParseBookingRow validates a raw row. Malformed fields yield a
// *DataParseError so the caller can skip the record and continue.
func ParseBookingRow(row BookingRow) (HistoricalBooking, error) {
	scheduled, err := time.Parse(isoDate, row.ScheduleDate)
	if err != nil {
		return HistoricalBooking{}, &DataParseError{Field: "schedule_date", Value: row.ScheduleDate, Err: err}
	}
	appt, err := time.Parse(isoDate, row.ApptDate)
	if err != nil {
		return HistoricalBooking{}, &DataParseError{Field: "appt_date", Value: row.ApptDate, Err: err}
	}
	slot, err := NormalizeSlotLabel(row.ApptTime)
	if err != nil {
		return HistoricalBooking{}, &DataParseError{Field: "appt_time", Value: row.ApptTime, Err: err}
	}

	lead := int(appt.Sub(scheduled).Hours() / 24)
	if lead < 0 {
		// An appointment cannot be scheduled after it occurs.
		return HistoricalBooking{}, &DataParseError{
			Field: "appt_date",
			Value: row.ApptDate,
			Err:   fmt.Errorf("negative lead time (%d days before schedule date)", -lead),
		}
	}

	outcome := row.Outcome
	switch outcome {
	case "":
		outcome = OutcomeCompleted
	case OutcomeCompleted, OutcomeCancelled, OutcomeNoShow:
	default:
		return HistoricalBooking{}, &DataParseError{Field: "outcome", Value: row.Outcome, Err: fmt.Errorf("unknown outcome")}
	}

	return HistoricalBooking{
		ScheduleDate: scheduled,
		ApptDate:     appt,
		LeadDays:     lead,
		SlotLabel:    slot,
		Outcome:      outcome,
	}, nil
}

// NormalizeSlotLabel converts a 24-hour "HH:MM" time string into the
// clinic's "H:MM" slot notation (hour unpadded, minute zero-padded),
// e.g. "09:00" -> "9:00", "14:30" -> "14:30".
func NormalizeSlotLabel(hhmm string) (string, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute()), nil
}
