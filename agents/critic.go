package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// CriticAgent assesses a candidate plan against both validator
// results. It never mutates the plan; its only output is a Critique
// with all scores clamped to [0,1].
type CriticAgent struct {
	deps
}

// NewCriticAgent creates a critic agent.
func NewCriticAgent(completer llm.Completer, registry *model.Registry, logger *slog.Logger) *CriticAgent {
	return &CriticAgent{deps: newDeps(completer, registry, logger)}
}

// Execute reviews the plan.
func (a *CriticAgent) Execute(ctx context.Context, graph *plan.FloorPlanGraph, regulatory, cultural plan.ValidationResult) (plan.Critique, Metadata, error) {
	req := a.request(model.RoleCritic, criticSystemPrompt, criticUserPrompt(graph, regulatory, cultural), critiqueResponseSchema())

	critique, meta, err := completeStructured[plan.Critique](ctx, a.deps, model.RoleCritic, req)
	if err != nil {
		return plan.Critique{}, meta, fmt.Errorf("critique: %w", err)
	}

	critique.SpatialEfficiency = clamp01(critique.SpatialEfficiency)
	critique.CirculationQuality = clamp01(critique.CirculationQuality)
	critique.NaturalLighting = clamp01(critique.NaturalLighting)
	critique.PrivacyGradient = clamp01(critique.PrivacyGradient)
	critique.AestheticBalance = clamp01(critique.AestheticBalance)
	critique.OverallConfidence = clamp01(critique.OverallConfidence)

	return critique, meta, nil
}
