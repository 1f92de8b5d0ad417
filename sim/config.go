package sim

import (
	"fmt"
	"time"
)

// SimConfig groups the simulation parameters. All fields are validated once
// at construction time (Validate); no per-day checks are needed after that.
type SimConfig struct {
	NumSlots          int     // appointment slots per day (must be > 0)
	NumDays           int     // bookable days out from today (must be > 0)
	NumIters          int     // simulated days to run (must be > 0)
	FlexRate          float64 // probability a cancelled patient accepts a rebooking offer (in [0,1])
	PreferenceBreadth int     // number of ranked (lead-days, slot) alternatives per patient (must be > 0)
	Seed              int64   // master RNG seed

	// StartWeekday is the weekday of the first simulated day; each simulated
	// day advances it by one.
	StartWeekday time.Weekday

	// SlotLabels maps slot index to clinic time-of-day label ("H:MM").
	// Empty means hourly slots starting at 8:00.
	SlotLabels []string

	// DefaultCancelRate and DefaultNoShowRate are the fallback daily rates
	// applied when a (lead-days, slot) key was never observed historically.
	// The simulation must stay runnable regardless of data sparsity.
	DefaultCancelRate float64
	DefaultNoShowRate float64
}

// DefaultSimConfig returns the stock clinic configuration.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		NumSlots:          10,
		NumDays:           14,
		NumIters:          100,
		FlexRate:          0.2,
		PreferenceBreadth: 3,
		Seed:              42,
		StartWeekday:      time.Monday,
	}
}

// Validate fails fast on invalid parameters, before any simulated day runs.
func (c SimConfig) Validate() error {
	if c.NumSlots <= 0 {
		return fmt.Errorf("num slots must be > 0, got %d", c.NumSlots)
	}
	if c.NumDays <= 0 {
		return fmt.Errorf("num days must be > 0, got %d", c.NumDays)
	}
	if c.NumIters <= 0 {
		return fmt.Errorf("num iterations must be > 0, got %d", c.NumIters)
	}
	if c.FlexRate < 0 || c.FlexRate > 1 {
		return fmt.Errorf("flex rate must be in [0,1], got %g", c.FlexRate)
	}
	if c.PreferenceBreadth <= 0 {
		return fmt.Errorf("preference breadth must be > 0, got %d", c.PreferenceBreadth)
	}
	if c.DefaultCancelRate < 0 || c.DefaultCancelRate > 1 {
		return fmt.Errorf("default cancel rate must be in [0,1], got %g", c.DefaultCancelRate)
	}
	if c.DefaultNoShowRate < 0 || c.DefaultNoShowRate > 1 {
		return fmt.Errorf("default no-show rate must be in [0,1], got %g", c.DefaultNoShowRate)
	}
	if len(c.SlotLabels) > 0 && len(c.SlotLabels) != c.NumSlots {
		return fmt.Errorf("slot labels: got %d labels for %d slots", len(c.SlotLabels), c.NumSlots)
	}
	return nil
}

// slotLabels returns the configured labels, or hourly labels starting at
// 8:00 when none are configured.
func (c SimConfig) slotLabels() []string {
	if len(c.SlotLabels) > 0 {
		return c.SlotLabels
	}
	return HourlySlotLabels(c.NumSlots)
}

// HourlySlotLabels builds n hourly slot labels starting at 8:00, in the
// clinic's "H:MM" notation (hour unpadded, minute zero-padded).
func HourlySlotLabels(n int) []string {
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = fmt.Sprintf("%d:00", (8+i)%24)
	}
	return labels
}
