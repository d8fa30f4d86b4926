package agents

import (
	"fmt"
	"strings"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

const spatialSystemPrompt = `You are an expert residential architect. You design single-family
floor plans as axis-aligned rectangles on a plot grid. The coordinate
origin is the north-west corner of the plot; x grows eastward and y
grows southward, both in metres. Rooms must not overlap and must stay
inside the buildable envelope after setbacks. Respond with JSON only.`

const criticSystemPrompt = `You are a senior design reviewer for residential floor plans. You
assess layouts on spatial efficiency, circulation, natural lighting,
privacy gradient, and aesthetic balance, each scored from 0.0 to 1.0.
Be specific and actionable in your critiques. Respond with JSON only.`

const refinementSystemPrompt = `You are an expert residential architect revising a floor plan to fix
compliance violations while preserving what already works. Move,
resize, or swap rooms with minimal disruption. Keep all rooms inside
the buildable envelope and non-overlapping. Respond with JSON only.`

const costSystemPrompt = `You are a construction cost estimator for Indian residential
projects. Estimate material quantities and costs in INR from built-up
area and room composition. Respond with JSON only.`

const furnitureSystemPrompt = `You are an interior planner. Place furniture inside rooms using
absolute plot coordinates in metres, leaving at least 0.6 m of
clearance for circulation and never blocking a door swing. Respond
with JSON only.`

const adjacencySystemPrompt = `You extract room adjacency preferences from free-text housing
requirements. Only report relations the text states or strongly
implies. Respond with JSON only.`

const visionSystemPrompt = `You are an architectural draughtsman. Reconstruct the floor plan in
the image as axis-aligned room rectangles with metre coordinates,
origin at the top-left of the plan. Respond with JSON only.`

func adjacencyUserPrompt(requirements []string) string {
	return fmt.Sprintf(`Requirements:
%s

List every adjacency preference these requirements express, as pairs of
room names with a relation of "adjacent", "nearby", or "separated".
Return an empty list if none are expressed.`, bulleted(requirements))
}

func spatialUserPrompt(spec plan.NormalizedSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Design a floor plan for a %.1fm x %.1fm plot (%.1f sqm).\n\n",
		spec.PlotWidth, spec.PlotDepth, spec.PlotArea)

	fmt.Fprintf(&b, "Buildable envelope after setbacks: x from %.1f to %.1f, y from %.1f to %.1f.\n",
		spec.Setbacks.Left, spec.PlotWidth-spec.Setbacks.Right,
		spec.Setbacks.Front, spec.PlotDepth-spec.Setbacks.Rear)
	fmt.Fprintf(&b, "Authority: %s. Max ground coverage %.0f%%, max FAR %.1f.\n\n",
		spec.Profile.DisplayName, spec.Profile.MaxGroundCoverage*100, spec.Profile.MaxFAR)

	b.WriteString("Required rooms (name, minimum area in sqm):\n")
	for _, req := range spec.Requirements {
		fmt.Fprintf(&b, "- %s: at least %.1f sqm", req.Name, req.MinArea)
		if req.Count > 1 {
			fmt.Fprintf(&b, " (x%d)", req.Count)
		}
		b.WriteString("\n")
	}

	if len(spec.Adjacencies) > 0 {
		b.WriteString("\nAdjacency preferences:\n")
		for _, adj := range spec.Adjacencies {
			fmt.Fprintf(&b, "- %s %s %s\n", adj.RoomA, adj.Relation, adj.RoomB)
		}
	}

	if spec.StrictnessCoefficient > 0 {
		b.WriteString(`
Vastu guidance (the plan will be scored on these):
- keep the centre (Brahmasthan) open, no kitchen/toilet/stairs there
- master bedroom in the south-west
- kitchen in the south-east or north-west
- toilets away from the north-east
- entrance toward the north, east, or north-east
`)
	}

	if spec.FloorCount > 1 {
		fmt.Fprintf(&b, "\nThe house has %d floors; assign each room a floor number starting at 0 and include a staircase on every floor.\n", spec.FloorCount)
	}

	b.WriteString(`
Also include circulation (corridors) where rooms need access, and
explain your key decisions step by step in the designLog.`)

	return b.String()
}

func criticUserPrompt(graph *plan.FloorPlanGraph, regulatory, cultural plan.ValidationResult) string {
	var b strings.Builder

	b.WriteString("Review this floor plan.\n\nRooms:\n")
	writeRoomTable(&b, graph.Rooms)

	fmt.Fprintf(&b, "\nBuilt-up area %.1f sqm, plot coverage %.0f%%.\n",
		graph.BuiltUpArea, graph.PlotCoverageRatio*100)

	writeViolations(&b, "Regulatory violations", regulatory.Violations)
	writeViolations(&b, "Vastu violations", cultural.Violations)

	b.WriteString("\nScore each quality dimension from 0.0 to 1.0 and list concrete critiques and strengths.")
	return b.String()
}

func refinementUserPrompt(graph *plan.FloorPlanGraph, spec plan.NormalizedSpec, regulatory, cultural plan.ValidationResult, critique plan.Critique) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Revise this floor plan on a %.1fm x %.1fm plot.\n\nCurrent rooms:\n",
		spec.PlotWidth, spec.PlotDepth)
	writeRoomTable(&b, graph.Rooms)

	fmt.Fprintf(&b, "\nBuildable envelope: x from %.1f to %.1f, y from %.1f to %.1f.\n",
		spec.Setbacks.Left, spec.PlotWidth-spec.Setbacks.Right,
		spec.Setbacks.Front, spec.PlotDepth-spec.Setbacks.Rear)

	writeViolations(&b, "Regulatory violations to fix", regulatory.Violations)
	writeViolations(&b, "Vastu violations to fix", cultural.Violations)

	if len(critique.Critiques) > 0 {
		b.WriteString("\nReviewer critiques:\n")
		b.WriteString(bulleted(critique.Critiques))
		b.WriteString("\n")
	}

	b.WriteString(`
Return the complete revised room list (every room, not a diff) and a
changesApplied list describing each change you made in one sentence.`)
	return b.String()
}

func costUserPrompt(graph *plan.FloorPlanGraph, spec plan.NormalizedSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Estimate construction cost for a %d-floor house, built-up area %.1f sqm.\n\nRooms:\n",
		spec.FloorCount, graph.BuiltUpArea)
	writeRoomTable(&b, graph.Rooms)

	b.WriteString(`
Produce a bill of materials (cement, steel, bricks, sand, aggregate,
flooring, doors/windows, electrical, plumbing, paint) with quantities,
units, and estimated cost per line in INR, plus a total cost range.`)
	return b.String()
}

func furnitureUserPrompt(rooms []plan.EnrichedRoom) string {
	var b strings.Builder

	b.WriteString("Furnish these rooms. Use absolute plot coordinates.\n\nRooms:\n")
	writeRoomTable(&b, rooms)

	b.WriteString(`
For every habitable room, place the expected furniture (bed and
wardrobe in bedrooms, sofa and TV unit in the living room, dining
table in the dining room, counter and hob in the kitchen). Give each
item its room id, name, position, footprint, and rotation in degrees.`)
	return b.String()
}

func visionUserPrompt() string {
	return `Reconstruct the floor plan shown in the image: list every room with
its name, position, and size in metres, and note the overall plot
dimensions. If a dimension is not legible, estimate from proportions.`
}

func writeRoomTable(b *strings.Builder, rooms []plan.EnrichedRoom) {
	for _, r := range rooms {
		fmt.Fprintf(b, "- %s [%s] at (%.1f, %.1f) size %.1fx%.1f, floor %d\n",
			r.Name, r.Classification, r.X, r.Y, r.Width, r.Height, r.Floor)
	}
}

func writeViolations(b *strings.Builder, heading string, violations []plan.Violation) {
	if len(violations) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", heading)
	for _, v := range violations {
		fmt.Fprintf(b, "- [%s] %s", v.Severity, v.Message)
		if v.Recommendation != "" {
			fmt.Fprintf(b, " (%s)", v.Recommendation)
		}
		b.WriteString("\n")
	}
}

func bulleted(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return strings.TrimRight(b.String(), "\n")
}
