// Package trace provides per-day decision-trace recording for offline
// analysis of a simulation run. It stores pure data types and has no
// dependency on the sim package.
package trace

// PlacementRecord captures one successful booking placement.
type PlacementRecord struct {
	Day       int    `json:"day"`
	PatientID string `json:"patient_id"`
	Rank      int    `json:"rank"`
	LeadDays  int    `json:"lead_days"`
	Slot      string `json:"slot"`
	Rebooked  bool   `json:"rebooked"` // placement came from a reschedule offer
}

// TurnAwayRecord captures a patient who found no free ranked preference.
type TurnAwayRecord struct {
	Day       int    `json:"day"`
	PatientID string `json:"patient_id"`
}

// TransitionRecord captures one booking status transition applied by the
// lifecycle engine.
type TransitionRecord struct {
	Day       int    `json:"day"`
	PatientID string `json:"patient_id"`
	To        string `json:"to"`
	LeadDays  int    `json:"lead_days"`
	Slot      string `json:"slot"`
}

// DayRecord captures the end-of-day grid state.
type DayRecord struct {
	Day        int `json:"day"`
	Arrivals   int `json:"arrivals"`
	EmptySlots int `json:"empty_slots"`
}
