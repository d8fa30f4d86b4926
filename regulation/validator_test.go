package regulation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/geometry"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// compliantInput builds a 12x18 plot with three well-placed rooms that
// pass every check under the national profile.
func compliantInput() Input {
	profile, _ := ProfileFor("national")
	rooms := []plan.Room{
		{ID: "r1", Name: "Master Bedroom", Type: plan.TypeRoom, X: 2, Y: 10, Width: 4, Height: 4,
			Features: []plan.WallFeature{{Kind: plan.FeatureWindow, Wall: plan.WallLeft, Position: 1, Width: 1.5}}},
		{ID: "r2", Name: "Kitchen", Type: plan.TypeRoom, X: 7, Y: 12, Width: 3, Height: 3,
			Features: []plan.WallFeature{{Kind: plan.FeatureWindow, Wall: plan.WallRight, Position: 0.5, Width: 1.2}}},
		{ID: "r3", Name: "Living Room", Type: plan.TypeRoom, X: 2, Y: 4, Width: 5, Height: 5,
			Features: []plan.WallFeature{{Kind: plan.FeatureWindow, Wall: plan.WallTop, Position: 1, Width: 2.5}}},
	}
	return Input{
		Rooms:      geometry.Enrich(rooms, 12, 18),
		PlotWidth:  12,
		PlotDepth:  18,
		Profile:    profile,
		Setbacks:   profile.DefaultSetbacks,
		FloorCount: 1,
	}
}

func TestValidateCompliantPlan(t *testing.T) {
	result := Validate(compliantInput())

	assert.Empty(t, result.Violations)
	assert.Equal(t, 1.0, result.Score)

	// One item per check, all passing.
	require.Len(t, result.Items, 6)
	for _, item := range result.Items {
		assert.Equal(t, plan.StatusPass, item.Status, item.Rule)
	}
	assert.Equal(t, "Floor Area Ratio", result.Items[1].Rule)
}

func TestValidateSetbackIntrusion(t *testing.T) {
	in := compliantInput()
	// Push the master bedroom into the left setback.
	in.Rooms[0].X = 0.5
	in.Rooms = geometry.Enrich([]plan.Room{in.Rooms[0].Room, in.Rooms[1].Room, in.Rooms[2].Room}, 12, 18)

	result := Validate(in)

	require.NotEmpty(t, result.Violations)
	v := result.Violations[0]
	assert.Equal(t, "Setback Compliance", v.Rule)
	assert.Equal(t, plan.SeverityCritical, v.Severity)
	assert.Equal(t, "Master Bedroom", v.Room)
	assert.InDelta(t, 0.80, result.Score, 1e-9)
}

func TestValidateFAROvershoot(t *testing.T) {
	in := compliantInput()
	// Nine floors push FAR past the national 2.0 cap.
	in.FloorCount = 9

	result := Validate(in)

	var farViolation *plan.Violation
	for i := range result.Violations {
		if result.Violations[i].Rule == "Floor Area Ratio" {
			farViolation = &result.Violations[i]
		}
	}
	require.NotNil(t, farViolation)
	assert.Equal(t, plan.SeverityCritical, farViolation.Severity)
}

func TestValidateUndersizedRoom(t *testing.T) {
	in := compliantInput()
	small := plan.Room{ID: "r4", Name: "Bedroom 2", Type: plan.TypeRoom, X: 8, Y: 4, Width: 2, Height: 2,
		Features: []plan.WallFeature{{Kind: plan.FeatureWindow, Wall: plan.WallTop, Position: 0.2, Width: 1}}}
	rooms := append(bare(in.Rooms), small)
	in.Rooms = geometry.Enrich(rooms, 12, 18)

	result := Validate(in)

	found := false
	for _, v := range result.Violations {
		if v.Rule == "Minimum Room Size" && v.Room == "Bedroom 2" {
			found = true
			assert.Equal(t, plan.SeverityMajor, v.Severity)
		}
	}
	assert.True(t, found, "expected a minimum-room-size violation for Bedroom 2")
}

func TestValidateNarrowCorridor(t *testing.T) {
	in := compliantInput()
	corridor := plan.Room{ID: "c1", Name: "Corridor", Type: plan.TypeCirculation, X: 6, Y: 4, Width: 0.6, Height: 5}
	in.Rooms = geometry.Enrich(append(bare(in.Rooms), corridor), 12, 18)

	result := Validate(in)

	found := false
	for _, v := range result.Violations {
		if v.Rule == "Corridor Width" {
			found = true
			assert.Equal(t, plan.SeverityMajor, v.Severity)
		}
	}
	assert.True(t, found)
}

func TestValidateVentilationWarns(t *testing.T) {
	in := compliantInput()
	// Strip the kitchen's windows: expect a WARN item, no violation.
	in.Rooms[1].Features = nil
	in.Rooms = geometry.Enrich(bare(in.Rooms), 12, 18)

	result := Validate(in)

	for _, v := range result.Violations {
		assert.NotEqual(t, "Ventilation", v.Rule)
	}
	warned := false
	for _, item := range result.Items {
		if item.Rule == "Ventilation" && item.Status == plan.StatusWarn {
			warned = true
		}
	}
	assert.True(t, warned)
}

// Determinism: repeated validation of the same input marshals to the
// same bytes, ordering included.
func TestValidateDeterministic(t *testing.T) {
	in := compliantInput()
	in.Rooms[0].X = 0.2 // force a violation into the output

	first, err := json.Marshal(Validate(in))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(Validate(in))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestProfileFallback(t *testing.T) {
	p, known := ProfileFor("atlantis-municipal-corp")
	assert.False(t, known)
	assert.Equal(t, NationalAuthority, p.Authority)
	assert.Equal(t, plan.SetbackRequirements{Front: 3, Left: 1.5, Right: 1.5, Rear: 2}, p.DefaultSetbacks)

	p, known = ProfileFor("BBMP")
	assert.True(t, known)
	assert.Equal(t, "bbmp", p.Authority)
}

func bare(rooms []plan.EnrichedRoom) []plan.Room {
	out := make([]plan.Room, len(rooms))
	for i := range rooms {
		out[i] = rooms[i].Room
	}
	return out
}
