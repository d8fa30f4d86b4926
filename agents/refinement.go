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

// refinementLogMarker separates passes in the accumulated design log.
const refinementLogMarker = "--- Refinement Pass ---"

// RefinementAgent revises a failing plan using the validator results
// and the critic's feedback. The returned graph carries the previous
// design log plus a marker and the applied changes; rooms are
// re-enriched and totals recomputed.
type RefinementAgent struct {
	deps
}

// NewRefinementAgent creates a refinement agent.
func NewRefinementAgent(completer llm.Completer, registry *model.Registry, logger *slog.Logger) *RefinementAgent {
	return &RefinementAgent{deps: newDeps(completer, registry, logger)}
}

type refinementResponse struct {
	Rooms          []plan.Room `json:"rooms"`
	ChangesApplied []string    `json:"changesApplied"`
}

// Execute produces the next candidate plan.
func (a *RefinementAgent) Execute(ctx context.Context, graph *plan.FloorPlanGraph, spec plan.NormalizedSpec, regulatory, cultural plan.ValidationResult, critique plan.Critique) (*plan.FloorPlanGraph, Metadata, error) {
	req := a.request(model.RoleRefinement, refinementSystemPrompt,
		refinementUserPrompt(graph, spec, regulatory, cultural, critique), refinementResponseSchema())

	out, meta, err := completeStructured[refinementResponse](ctx, a.deps, model.RoleRefinement, req)
	if err != nil {
		return nil, meta, fmt.Errorf("refinement: %w", err)
	}
	if len(out.Rooms) == 0 {
		return nil, meta, fmt.Errorf("refinement: model returned no rooms")
	}

	log := make([]string, 0, len(graph.DesignLog)+1+len(out.ChangesApplied))
	log = append(log, graph.DesignLog...)
	log = append(log, refinementLogMarker)
	log = append(log, out.ChangesApplied...)

	refined := &plan.FloorPlanGraph{
		Rooms:       geometry.Enrich(out.Rooms, spec.PlotWidth, spec.PlotDepth),
		DesignLog:   log,
		Adjacencies: graph.Adjacencies,
	}
	refined.RecomputeTotals(spec.PlotWidth, spec.PlotDepth)

	return refined, meta, nil
}
