package plan

// RecomputeTotals recalculates all area sums of the graph from its
// rooms. LLM-returned totals are never trusted: every plan mutation
// must be followed by a recompute so the scorer and the regulatory
// validator agree on the same numbers.
func (g *FloorPlanGraph) RecomputeTotals(plotWidth, plotDepth float64) {
	g.TotalArea = plotWidth * plotDepth
	g.BuiltUpArea = 0
	g.CirculationArea = 0
	g.SetbackArea = 0
	g.OutdoorArea = 0

	for i := range g.Rooms {
		r := &g.Rooms[i]
		switch r.Type {
		case TypeRoom, TypeService:
			g.BuiltUpArea += r.Area
		case TypeCirculation:
			g.CirculationArea += r.Area
		case TypeSetback:
			g.SetbackArea += r.Area
		case TypeOutdoor:
			g.OutdoorArea += r.Area
		}
	}

	if g.TotalArea > 0 {
		g.PlotCoverageRatio = g.BuiltUpArea / g.TotalArea
	} else {
		g.PlotCoverageRatio = 0
	}
}

// BareRooms strips enrichment, returning the wire-format room list.
func (g *FloorPlanGraph) BareRooms() []Room {
	rooms := make([]Room, len(g.Rooms))
	for i := range g.Rooms {
		rooms[i] = g.Rooms[i].Room
	}
	return rooms
}

// floorLabel names a floor by index: Ground Floor, First Floor, ...
func floorLabel(n int) string {
	switch n {
	case 0:
		return "Ground Floor"
	case 1:
		return "First Floor"
	case 2:
		return "Second Floor"
	case 3:
		return "Third Floor"
	default:
		return "Upper Floor"
	}
}

// PartitionFloors splits rooms by floor index, preserving room order
// within each floor. Returns nil when everything is on one floor.
func PartitionFloors(rooms []Room) []FloorPartition {
	maxFloor := 0
	for i := range rooms {
		if rooms[i].Floor > maxFloor {
			maxFloor = rooms[i].Floor
		}
	}
	if maxFloor == 0 {
		return nil
	}

	parts := make([]FloorPartition, maxFloor+1)
	for n := range parts {
		parts[n] = FloorPartition{FloorNumber: n, FloorLabel: floorLabel(n)}
	}
	for i := range rooms {
		n := rooms[i].Floor
		parts[n].Rooms = append(parts[n].Rooms, rooms[i])
	}
	return parts
}

// Clamp01 clamps v to [0,1]. LLM-returned scores occasionally drift
// slightly outside the unit interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
