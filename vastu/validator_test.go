package vastu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/geometry"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// centreKitchenPlan places the kitchen dead centre on a 15x15 plot,
// which must trip the brahmasthan rule.
func centreKitchenPlan() []plan.EnrichedRoom {
	rooms := []plan.Room{
		{ID: "k", Name: "Kitchen", Type: plan.TypeRoom, X: 6, Y: 6, Width: 3, Height: 3},
		{ID: "m", Name: "Master Bedroom", Type: plan.TypeRoom, X: 2, Y: 11, Width: 3, Height: 3},
	}
	return geometry.Enrich(rooms, 15, 15)
}

func TestValidateStrictnessZeroShortCircuits(t *testing.T) {
	result := Validate(centreKitchenPlan(), 15, 15, 0)

	assert.Equal(t, 1.0, result.Score)
	assert.Empty(t, result.Violations)
	require.Len(t, result.Items, 1)
	assert.Equal(t, plan.StatusPass, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Message, "disabled")
}

func TestValidateBrahmasthanFailure(t *testing.T) {
	result := Validate(centreKitchenPlan(), 15, 15, 0.5)

	var brahma *plan.Violation
	for i := range result.Violations {
		if result.Violations[i].Rule == "brahmasthan" {
			brahma = &result.Violations[i]
		}
	}
	require.NotNil(t, brahma, "expected a brahmasthan violation for the centred kitchen")
	assert.Equal(t, plan.SeverityCritical, brahma.Severity)
	assert.Equal(t, "Kitchen", brahma.Room)

	// The centred kitchen also fails kitchen-se-nw: penalty is at
	// least the brahmasthan weight times strictness.
	assert.LessOrEqual(t, result.Score, 1.0-0.15*0.5)
}

func TestValidateWellPlacedRooms(t *testing.T) {
	// SE kitchen, SW master bedroom, NE pooja on a 15x15 plot.
	rooms := geometry.Enrich([]plan.Room{
		{ID: "k", Name: "Kitchen", Type: plan.TypeRoom, X: 11, Y: 11, Width: 3, Height: 3},
		{ID: "m", Name: "Master Bedroom", Type: plan.TypeRoom, X: 1, Y: 11, Width: 3, Height: 3},
		{ID: "p", Name: "Pooja Room", Type: plan.TypeRoom, X: 12, Y: 1, Width: 2, Height: 2},
	}, 15, 15)

	result := Validate(rooms, 15, 15, 1.0)

	assert.Empty(t, result.Violations)
	assert.Equal(t, 1.0, result.Score)
	// One PASS item per applicable rule-room pair.
	for _, item := range result.Items {
		assert.Equal(t, plan.StatusPass, item.Status, item.Rule)
	}
}

// P9: for a fixed failing plan, the score decreases monotonically in
// the strictness coefficient.
func TestValidateStrictnessMonotonic(t *testing.T) {
	rooms := centreKitchenPlan()

	prev := 1.0
	for _, s := range []float64{0.1, 0.25, 0.5, 0.75, 1.0} {
		score := Validate(rooms, 15, 15, s).Score
		assert.Less(t, score, prev, "score must decrease as strictness rises (s=%v)", s)
		prev = score
	}
}

func TestValidateMinorFailureIsWarn(t *testing.T) {
	// Living room in SW: living-ne-n-e is a minor rule, so the item is
	// WARN while the violation is still recorded.
	rooms := geometry.Enrich([]plan.Room{
		{ID: "l", Name: "Living Room", Type: plan.TypeRoom, X: 1, Y: 11, Width: 3, Height: 3},
	}, 15, 15)

	result := Validate(rooms, 15, 15, 1.0)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, "living-ne-n-e", result.Violations[0].Rule)
	require.Len(t, result.Items, 1)
	assert.Equal(t, plan.StatusWarn, result.Items[0].Status)
}
