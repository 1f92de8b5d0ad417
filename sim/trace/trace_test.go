package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledLevelsReturnNil(t *testing.T) {
	assert.Nil(t, New(LevelNone))
	assert.Nil(t, New(""))
	require.NotNil(t, New(LevelDecisions))
}

func TestIsValidLevel(t *testing.T) {
	assert.True(t, IsValidLevel("none"))
	assert.True(t, IsValidLevel("decisions"))
	assert.True(t, IsValidLevel(""))
	assert.False(t, IsValidLevel("verbose"))
}

func TestNilTrace_RecordsAreNoOps(t *testing.T) {
	// A nil trace must absorb every record without panicking, so callers
	// never have to branch on whether tracing is enabled.
	var st *SimulationTrace
	assert.NotPanics(t, func() {
		st.RecordPlacement(PlacementRecord{Day: 1})
		st.RecordTurnAway(TurnAwayRecord{Day: 1})
		st.RecordTransition(TransitionRecord{Day: 1})
		st.RecordDay(DayRecord{Day: 1})
	})
}

func TestRecords_AppendInOrder(t *testing.T) {
	st := New(LevelDecisions)

	st.RecordPlacement(PlacementRecord{Day: 0, PatientID: "a", Rank: 0})
	st.RecordPlacement(PlacementRecord{Day: 1, PatientID: "b", Rank: 2})
	st.RecordTurnAway(TurnAwayRecord{Day: 1, PatientID: "c"})
	st.RecordTransition(TransitionRecord{Day: 2, PatientID: "a", To: "cancelled"})
	st.RecordDay(DayRecord{Day: 0, Arrivals: 2, EmptySlots: 5})

	require.Len(t, st.Placements, 2)
	assert.Equal(t, "a", st.Placements[0].PatientID)
	assert.Equal(t, "b", st.Placements[1].PatientID)
	require.Len(t, st.TurnAways, 1)
	require.Len(t, st.Transitions, 1)
	assert.Equal(t, "cancelled", st.Transitions[0].To)
	require.Len(t, st.Days, 1)
	assert.Equal(t, 5, st.Days[0].EmptySlots)
}
