// Tracks run-wide outcome counters for final reporting.

package sim

import "fmt"

// SimulationCounters aggregates outcome counts across the whole run.
// Reset at driver start, incremented only by the booking resolver and the
// lifecycle engine, read after all iterations complete. The flat int layout
// is the output contract for the (out-of-scope) reporting layer.
type SimulationCounters struct {
	EmptySlots    int `json:"empty_slots"`    // grid-wide empty cells summed over day-end tallies
	FirstChoice   int `json:"first_choice"`   // bookings placed at rank 0
	SecondChoice  int `json:"second_choice"`  // bookings placed at rank 1
	Placed        int `json:"placed"`         // all successful placements, any rank
	TurnedAway    int `json:"turned_away"`    // patients with no free ranked preference
	Cancellations int `json:"cancellations"`  // bookings cancelled before their day
	NoShows       int `json:"no_shows"`       // booked patients absent on the day itself
	Rebookings    int `json:"rebookings"`     // cancellations replaced by a new booking
	Completed     int `json:"completed"`      // appointments attended
}

// Reset zeroes all counters.
func (c *SimulationCounters) Reset() {
	*c = SimulationCounters{}
}

// Print displays the aggregated counters at the end of the simulation.
func (c *SimulationCounters) Print(days int) {
	fmt.Println("=== Simulation Counters ===")
	fmt.Printf("Simulated days       : %d\n", days)
	fmt.Printf("Placed               : %d\n", c.Placed)
	fmt.Printf("  First choice       : %d\n", c.FirstChoice)
	fmt.Printf("  Second choice      : %d\n", c.SecondChoice)
	fmt.Printf("Turned away          : %d\n", c.TurnedAway)
	fmt.Printf("Cancellations        : %d\n", c.Cancellations)
	fmt.Printf("  Rebooked           : %d\n", c.Rebookings)
	fmt.Printf("No-shows             : %d\n", c.NoShows)
	fmt.Printf("Completed            : %d\n", c.Completed)
	if days > 0 {
		fmt.Printf("Avg empty slots/day  : %.2f\n", float64(c.EmptySlots)/float64(days))
	}
}
