// Package scoring collapses the four quality subscores into the single
// weighted convergence signal used by the orchestrator.
package scoring

import (
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// Normative weights of the four score components.
const (
	WeightRegulatory = 0.40
	WeightCultural   = 0.30
	WeightSpatial    = 0.20
	WeightCritic     = 0.10
)

// DefaultThreshold is the convergence threshold: iteration stops when
// the final score reaches it (strict >=).
const DefaultThreshold = 0.70

// Inputs are the four subscores. Values outside [0,1] are clamped
// before weighting.
type Inputs struct {
	Regulatory       float64
	Cultural         float64
	Spatial          float64
	CriticConfidence float64
}

// Score computes the weighted final score and its breakdown. A score
// exactly equal to the threshold counts as passing.
func Score(in Inputs, threshold float64) plan.PlanScore {
	breakdown := []plan.ScoreCategory{
		category("regulatory", WeightRegulatory, in.Regulatory),
		category("cultural", WeightCultural, in.Cultural),
		category("spatial", WeightSpatial, in.Spatial),
		category("criticConfidence", WeightCritic, in.CriticConfidence),
	}

	final := 0.0
	for _, c := range breakdown {
		final += c.WeightedScore
	}

	return plan.PlanScore{
		Final:           final,
		Breakdown:       breakdown,
		PassesThreshold: final >= threshold,
	}
}

func category(name string, weight, raw float64) plan.ScoreCategory {
	clamped := plan.Clamp01(raw)
	return plan.ScoreCategory{
		Category:      name,
		Weight:        weight,
		RawScore:      clamped,
		WeightedScore: weight * clamped,
	}
}
