package geometry

import (
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// Enrich derives centroid, area, sector, and classification for each
// room. It is pure and idempotent: enriching already-enriched rooms
// produces the same result because every derived field is a function
// of the underlying Room alone.
func Enrich(rooms []plan.Room, plotWidth, plotDepth float64) []plan.EnrichedRoom {
	enriched := make([]plan.EnrichedRoom, len(rooms))
	for i, r := range rooms {
		cx := r.X + r.Width/2
		cy := r.Y + r.Height/2
		enriched[i] = plan.EnrichedRoom{
			Room:           r,
			CenterX:        cx,
			CenterY:        cy,
			Area:           r.Width * r.Height,
			Sector:         Direction(cx, cy, plotWidth, plotDepth),
			Classification: Classify(r.Name),
		}
	}
	return enriched
}
