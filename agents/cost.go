package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// CostAgent estimates a bill of materials and a total cost range for
// the final plan. Its failure never fails a run; the orchestrator
// substitutes an empty BOM.
type CostAgent struct {
	deps
}

// NewCostAgent creates a cost agent.
func NewCostAgent(completer llm.Completer, registry *model.Registry, logger *slog.Logger) *CostAgent {
	return &CostAgent{deps: newDeps(completer, registry, logger)}
}

type costResponse struct {
	BOM            []plan.BOMItem `json:"bom"`
	TotalCostRange plan.CostRange `json:"totalCostRange"`
}

// Execute estimates construction cost.
func (a *CostAgent) Execute(ctx context.Context, graph *plan.FloorPlanGraph, spec plan.NormalizedSpec) ([]plan.BOMItem, plan.CostRange, Metadata, error) {
	req := a.request(model.RoleCost, costSystemPrompt, costUserPrompt(graph, spec), costResponseSchema())

	out, meta, err := completeStructured[costResponse](ctx, a.deps, model.RoleCost, req)
	if err != nil {
		return nil, plan.CostRange{}, meta, fmt.Errorf("cost estimation: %w", err)
	}
	return out.BOM, out.TotalCostRange, meta, nil
}
