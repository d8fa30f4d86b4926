package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/geometry"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// SpatialAgent generates the initial candidate layout from a
// NormalizedSpec. Returned rooms are re-enriched and area totals are
// recomputed server-side; model-reported totals are never trusted.
type SpatialAgent struct {
	deps
}

// NewSpatialAgent creates a spatial agent.
func NewSpatialAgent(completer llm.Completer, registry *model.Registry, logger *slog.Logger) *SpatialAgent {
	return &SpatialAgent{deps: newDeps(completer, registry, logger)}
}

type spatialResponse struct {
	Rooms     []plan.Room `json:"rooms"`
	DesignLog []string    `json:"designLog"`
}

// Execute generates the initial plan graph.
func (a *SpatialAgent) Execute(ctx context.Context, spec plan.NormalizedSpec) (*plan.FloorPlanGraph, Metadata, error) {
	req := a.request(model.RoleSpatial, spatialSystemPrompt, spatialUserPrompt(spec), spatialResponseSchema())

	out, meta, err := completeStructured[spatialResponse](ctx, a.deps, model.RoleSpatial, req)
	if err != nil {
		return nil, meta, fmt.Errorf("spatial generation: %w", err)
	}
	if len(out.Rooms) == 0 {
		return nil, meta, fmt.Errorf("spatial generation: model returned no rooms")
	}

	graph := &plan.FloorPlanGraph{
		Rooms:       geometry.Enrich(out.Rooms, spec.PlotWidth, spec.PlotDepth),
		DesignLog:   out.DesignLog,
		Adjacencies: spec.Adjacencies,
	}
	graph.RecomputeTotals(spec.PlotWidth, spec.PlotDepth)

	return graph, meta, nil
}
