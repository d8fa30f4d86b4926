package agents

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/regulation"
)

// defaultBathrooms applies when the config does not request a count.
const defaultBathrooms = 2

// InputAgent normalizes a ProjectConfig into a NormalizedSpec. The
// room requirement list is built deterministically from config rules;
// the only LLM involvement is a best-effort parse of free-text
// adjacency hints, whose failure leaves the adjacency list empty.
type InputAgent struct {
	deps
}

// NewInputAgent creates an input agent.
func NewInputAgent(completer llm.Completer, registry *model.Registry, logger *slog.Logger) *InputAgent {
	return &InputAgent{deps: newDeps(completer, registry, logger)}
}

// Execute normalizes the config.
func (a *InputAgent) Execute(ctx context.Context, cfg plan.ProjectConfig) (plan.NormalizedSpec, Metadata, error) {
	profile, known := regulation.ProfileFor(cfg.Authority)
	if !known && cfg.Authority != "" {
		a.logger.Warn("Unknown authority, using national profile", "authority", cfg.Authority)
	}

	spec := plan.NormalizedSpec{
		Config:                cfg,
		PlotWidth:             cfg.PlotWidth,
		PlotDepth:             cfg.PlotDepth,
		PlotArea:              cfg.PlotWidth * cfg.PlotDepth,
		Requirements:          buildRequirements(cfg, profile),
		Profile:               profile,
		Setbacks:              profile.DefaultSetbacks,
		StrictnessCoefficient: cfg.Strictness.Coefficient(),
		FloorCount:            cfg.FloorCount(),
		BathroomCount:         bathroomCount(cfg),
	}

	adjacencies, meta := a.parseAdjacencies(ctx, cfg.Requirements)
	spec.Adjacencies = adjacencies

	return spec, meta, nil
}

// parseAdjacencies extracts adjacency preferences from the free-text
// requirements. Failure is tolerated: the run continues without hints.
func (a *InputAgent) parseAdjacencies(ctx context.Context, requirements []string) ([]plan.AdjacencyPreference, Metadata) {
	type response struct {
		Adjacencies []plan.AdjacencyPreference `json:"adjacencies"`
	}

	req := a.request(model.RoleInput, adjacencySystemPrompt, adjacencyUserPrompt(requirements), adjacencyResponseSchema())
	out, meta, err := completeStructured[response](ctx, a.deps, model.RoleInput, req)
	if err != nil {
		a.logger.Warn("Adjacency parse failed, continuing without hints", "error", err)
		return nil, meta
	}
	return out.Adjacencies, meta
}

// buildRequirements derives the required room list from config rules:
// always a master bedroom, kitchen, living room, and entrance; one
// extra bedroom per "bedroom" requirement beyond the first; bathrooms
// as configured; optional rooms when requested; a staircase when the
// house has more than one floor; parking sized by its tag.
func buildRequirements(cfg plan.ProjectConfig, profile plan.MunicipalProfile) []plan.RoomRequirement {
	reqs := []plan.RoomRequirement{
		requirement(plan.ClassMasterBedroom, "Master Bedroom", 1, profile),
		requirement(plan.ClassKitchen, "Kitchen", 1, profile),
		requirement(plan.ClassLivingRoom, "Living Room", 1, profile),
		requirement(plan.ClassEntrance, "Entrance", 1, profile),
	}

	if n := extraBedrooms(cfg.Requirements); n > 0 {
		reqs = append(reqs, requirement(plan.ClassBedroom, "Bedroom", n, profile))
	}

	reqs = append(reqs, requirement(plan.ClassBathroom, "Bathroom", bathroomCount(cfg), profile))

	optional := []struct {
		keyword string
		class   plan.Classification
		name    string
	}{
		{"dining", plan.ClassDiningRoom, "Dining Room"},
		{"pooja", plan.ClassPoojaRoom, "Pooja Room"},
		{"puja", plan.ClassPoojaRoom, "Pooja Room"},
		{"study", plan.ClassStudy, "Study"},
		{"office", plan.ClassStudy, "Study"},
		{"balcony", plan.ClassBalcony, "Balcony"},
		{"store", plan.ClassStorage, "Store Room"},
	}
	seen := make(map[plan.Classification]bool)
	for _, opt := range optional {
		if seen[opt.class] || !mentions(cfg.Requirements, opt.keyword) {
			continue
		}
		seen[opt.class] = true
		reqs = append(reqs, requirement(opt.class, opt.name, 1, profile))
	}

	if cfg.FloorCount() > 1 {
		reqs = append(reqs, requirement(plan.ClassStaircase, "Staircase", 1, profile))
	}

	if cfg.Parking != "" {
		parking := requirement(plan.ClassParking, "Parking", 1, profile)
		if cfg.Parking == "two_wheeler" {
			parking.MinArea = 4.5
			parking.Name = "Two-Wheeler Parking"
		} else {
			parking.MinArea = 12.5
			parking.Name = "Car Parking"
		}
		reqs = append(reqs, parking)
	}

	return reqs
}

func requirement(class plan.Classification, name string, count int, profile plan.MunicipalProfile) plan.RoomRequirement {
	return plan.RoomRequirement{
		Classification: class,
		Name:           name,
		MinArea:        profile.MinRoomSizes[class],
		Count:          count,
	}
}

// extraBedrooms counts requirement strings mentioning a bedroom beyond
// the first; the first is covered by the always-present master bedroom.
func extraBedrooms(requirements []string) int {
	count := 0
	for _, req := range requirements {
		if strings.Contains(strings.ToLower(req), "bedroom") {
			count++
		}
	}
	if count <= 1 {
		return 0
	}
	return count - 1
}

func mentions(requirements []string, keyword string) bool {
	for _, req := range requirements {
		if strings.Contains(strings.ToLower(req), keyword) {
			return true
		}
	}
	return false
}

func bathroomCount(cfg plan.ProjectConfig) int {
	if cfg.Bathrooms > 0 {
		return cfg.Bathrooms
	}
	return defaultBathrooms
}
