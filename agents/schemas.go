package agents

import "github.com/SAQLAINAP/Architectural-AI-Gemini/llm"

// roomSchema describes one room rectangle in agent responses.
func roomSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"id":     llm.String("stable room identifier, lowercase with hyphens"),
		"name":   llm.String("human room name, e.g. Master Bedroom"),
		"type":   llm.EnumOf("room", "circulation", "outdoor", "setback", "service"),
		"x":      llm.Number("left edge in metres from the west plot boundary"),
		"y":      llm.Number("top edge in metres from the north plot boundary"),
		"width":  llm.Number("east-west extent in metres"),
		"height": llm.Number("north-south extent in metres"),
		"floor":  llm.Integer("floor number, ground floor is 0"),
		"features": llm.Array(llm.Object(map[string]*llm.Schema{
			"kind":     llm.EnumOf("door", "window", "opening"),
			"wall":     llm.EnumOf("top", "bottom", "left", "right"),
			"position": llm.Number("offset along the wall in metres"),
			"width":    llm.Number("feature width in metres"),
		}, "kind", "wall", "position", "width")),
	}, "id", "name", "type", "x", "y", "width", "height")
}

func spatialResponseSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"rooms":     llm.Array(roomSchema()),
		"designLog": llm.Array(llm.String("one design decision per entry")),
	}, "rooms", "designLog")
}

func critiqueResponseSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"spatialEfficiency":  llm.Number("0.0 to 1.0"),
		"circulationQuality": llm.Number("0.0 to 1.0"),
		"naturalLighting":    llm.Number("0.0 to 1.0"),
		"privacyGradient":    llm.Number("0.0 to 1.0"),
		"aestheticBalance":   llm.Number("0.0 to 1.0"),
		"overallConfidence":  llm.Number("0.0 to 1.0"),
		"critiques":          llm.Array(llm.String("one actionable issue per entry")),
		"strengths":          llm.Array(llm.String("one strength per entry")),
	}, "spatialEfficiency", "circulationQuality", "naturalLighting",
		"privacyGradient", "aestheticBalance", "overallConfidence",
		"critiques", "strengths")
}

func refinementResponseSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"rooms":          llm.Array(roomSchema()),
		"changesApplied": llm.Array(llm.String("one sentence per change")),
	}, "rooms", "changesApplied")
}

func costResponseSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"bom": llm.Array(llm.Object(map[string]*llm.Schema{
			"material":      llm.String("material name"),
			"quantity":      llm.Number("quantity in the given unit"),
			"unit":          llm.String("unit, e.g. bags, tonnes, sqm"),
			"estimatedCost": llm.Number("line cost in INR"),
		}, "material", "quantity", "unit", "estimatedCost")),
		"totalCostRange": llm.Object(map[string]*llm.Schema{
			"min":      llm.Number("lower bound in INR"),
			"max":      llm.Number("upper bound in INR"),
			"currency": llm.String("ISO currency code"),
		}, "min", "max", "currency"),
	}, "bom", "totalCostRange")
}

func furnitureResponseSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"furniture": llm.Array(llm.Object(map[string]*llm.Schema{
			"roomId":   llm.String("id of the containing room"),
			"name":     llm.String("furniture item name"),
			"x":        llm.Number("left edge in absolute plot metres"),
			"y":        llm.Number("top edge in absolute plot metres"),
			"width":    llm.Number("east-west footprint in metres"),
			"depth":    llm.Number("north-south footprint in metres"),
			"rotation": llm.Number("rotation in degrees, clockwise"),
		}, "roomId", "name", "x", "y", "width", "depth")),
	}, "furniture")
}

func adjacencyResponseSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"adjacencies": llm.Array(llm.Object(map[string]*llm.Schema{
			"roomA":    llm.String("first room name"),
			"roomB":    llm.String("second room name"),
			"relation": llm.EnumOf("adjacent", "nearby", "separated"),
		}, "roomA", "roomB", "relation")),
	}, "adjacencies")
}

func visionResponseSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"plotWidth": llm.Number("plot width in metres"),
		"plotDepth": llm.Number("plot depth in metres"),
		"rooms":     llm.Array(roomSchema()),
		"notes":     llm.Array(llm.String("observations about the plan")),
	}, "plotWidth", "plotDepth", "rooms")
}
