package trace

// Level controls the verbosity of decision tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelDecisions captures every placement, turn-away and transition.
	LevelDecisions Level = "decisions"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelDecisions: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is recognized.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// SimulationTrace collects decision records during a run. A nil trace is
// valid and records nothing, so callers never need to branch.
type SimulationTrace struct {
	Level       Level              `json:"level"`
	Placements  []PlacementRecord  `json:"placements"`
	TurnAways   []TurnAwayRecord   `json:"turn_aways"`
	Transitions []TransitionRecord `json:"transitions"`
	Days        []DayRecord        `json:"days"`
}

// New creates a SimulationTrace ready for recording, or nil when the level
// disables tracing.
func New(level Level) *SimulationTrace {
	if level == LevelNone || level == "" {
		return nil
	}
	return &SimulationTrace{
		Level:       level,
		Placements:  make([]PlacementRecord, 0),
		TurnAways:   make([]TurnAwayRecord, 0),
		Transitions: make([]TransitionRecord, 0),
		Days:        make([]DayRecord, 0),
	}
}

// RecordPlacement appends a placement record.
func (st *SimulationTrace) RecordPlacement(r PlacementRecord) {
	if st == nil {
		return
	}
	st.Placements = append(st.Placements, r)
}

// RecordTurnAway appends a turn-away record.
func (st *SimulationTrace) RecordTurnAway(r TurnAwayRecord) {
	if st == nil {
		return
	}
	st.TurnAways = append(st.TurnAways, r)
}

// RecordTransition appends a status transition record.
func (st *SimulationTrace) RecordTransition(r TransitionRecord) {
	if st == nil {
		return
	}
	st.Transitions = append(st.Transitions, r)
}

// RecordDay appends an end-of-day record.
func (st *SimulationTrace) RecordDay(r DayRecord) {
	if st == nil {
		return
	}
	st.Days = append(st.Days, r)
}
