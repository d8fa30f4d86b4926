package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// FurnitureAgent places furniture in the final rooms. It is strictly
// best-effort: the orchestrator logs and tolerates any failure, and
// the plan simply ships without furniture.
type FurnitureAgent struct {
	deps
}

// NewFurnitureAgent creates a furniture agent.
func NewFurnitureAgent(completer llm.Completer, registry *model.Registry, logger *slog.Logger) *FurnitureAgent {
	return &FurnitureAgent{deps: newDeps(completer, registry, logger)}
}

type furnitureResponse struct {
	Furniture []plan.FurnitureItem `json:"furniture"`
}

// Execute places furniture in the given rooms.
func (a *FurnitureAgent) Execute(ctx context.Context, rooms []plan.EnrichedRoom) ([]plan.FurnitureItem, Metadata, error) {
	req := a.request(model.RoleFurniture, furnitureSystemPrompt, furnitureUserPrompt(rooms), furnitureResponseSchema())

	out, meta, err := completeStructured[furnitureResponse](ctx, a.deps, model.RoleFurniture, req)
	if err != nil {
		return nil, meta, fmt.Errorf("furniture placement: %w", err)
	}
	return out.Furniture, meta, nil
}
