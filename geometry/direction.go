// Package geometry provides the pure, deterministic spatial helpers of
// the pipeline: cardinal-sector assignment on the 3x3 plot grid,
// name-based room classification, and room enrichment. No LLM calls,
// no IO.
package geometry

import (
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// sectorGrid is the 3x3 cardinal grid indexed [row][col]. Row 0 is the
// northern band of the plot, column 0 the western band.
var sectorGrid = [3][3]plan.Sector{
	{plan.SectorNW, plan.SectorN, plan.SectorNE},
	{plan.SectorW, plan.SectorCenter, plan.SectorE},
	{plan.SectorSW, plan.SectorS, plan.SectorSE},
}

// Direction returns the cardinal sector of a centroid on a plot of the
// given dimensions. The plot is divided into thirds on each axis; a
// centroid exactly on a gridline resolves to the lower-index cell.
// Points outside the plot clamp to the nearest edge cell.
func Direction(centerX, centerY, plotWidth, plotDepth float64) plan.Sector {
	col := thirdIndex(centerX, plotWidth)
	row := thirdIndex(centerY, plotDepth)
	return sectorGrid[row][col]
}

// thirdIndex maps a coordinate to its third of the extent. Gridline
// ties go to the lower index.
func thirdIndex(v, extent float64) int {
	if extent <= 0 {
		return 0
	}
	switch {
	case v <= extent/3:
		return 0
	case v <= 2*extent/3:
		return 1
	default:
		return 2
	}
}
