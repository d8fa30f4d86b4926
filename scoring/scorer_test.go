package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreWeights(t *testing.T) {
	score := Score(Inputs{Regulatory: 1, Cultural: 1, Spatial: 1, CriticConfidence: 1}, DefaultThreshold)
	assert.InDelta(t, 1.0, score.Final, 1e-12)
	assert.True(t, score.PassesThreshold)

	score = Score(Inputs{Regulatory: 0.5, Cultural: 0.5, Spatial: 0.5, CriticConfidence: 0.5}, DefaultThreshold)
	assert.InDelta(t, 0.5, score.Final, 1e-12)
	assert.False(t, score.PassesThreshold)

	// Dot product of weights with mixed inputs.
	score = Score(Inputs{Regulatory: 1, Cultural: 0, Spatial: 1, CriticConfidence: 0}, DefaultThreshold)
	assert.InDelta(t, 0.60, score.Final, 1e-12)
}

func TestScoreClampsInputs(t *testing.T) {
	// Critic occasionally returns scores slightly outside [0,1].
	score := Score(Inputs{Regulatory: 1.2, Cultural: -0.4, Spatial: 1, CriticConfidence: 1.05}, DefaultThreshold)

	assert.InDelta(t, 0.40+0+0.20+0.10, score.Final, 1e-12)
	for _, c := range score.Breakdown {
		assert.GreaterOrEqual(t, c.RawScore, 0.0)
		assert.LessOrEqual(t, c.RawScore, 1.0)
	}
}

func TestScoreThresholdEquality(t *testing.T) {
	// Exactly at the threshold counts as passing (strict >=).
	score := Score(Inputs{Regulatory: 1, Cultural: 1, Spatial: 0, CriticConfidence: 0}, 0.70)
	assert.InDelta(t, 0.70, score.Final, 1e-12)
	assert.True(t, score.PassesThreshold)
}

func TestScoreBreakdownShape(t *testing.T) {
	score := Score(Inputs{Regulatory: 0.9, Cultural: 0.8, Spatial: 0.7, CriticConfidence: 0.6}, DefaultThreshold)

	assert.Len(t, score.Breakdown, 4)
	assert.Equal(t, "regulatory", score.Breakdown[0].Category)
	assert.Equal(t, 0.40, score.Breakdown[0].Weight)
	assert.InDelta(t, 0.36, score.Breakdown[0].WeightedScore, 1e-12)
}
