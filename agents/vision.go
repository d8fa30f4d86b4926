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

// VisionAgent reconstructs a plan graph from a floor-plan image. It
// rides the spatial route since reconstruction needs the heavy model.
type VisionAgent struct {
	deps
}

// NewVisionAgent creates a vision agent.
func NewVisionAgent(completer llm.Completer, registry *model.Registry, logger *slog.Logger) *VisionAgent {
	return &VisionAgent{deps: newDeps(completer, registry, logger)}
}

// ImageAnalysis is the reconstructed plan plus the inferred plot.
type ImageAnalysis struct {
	PlotWidth float64              `json:"plotWidth"`
	PlotDepth float64              `json:"plotDepth"`
	Graph     *plan.FloorPlanGraph `json:"graph"`
	Notes     []string             `json:"notes,omitempty"`
}

type visionResponse struct {
	PlotWidth float64     `json:"plotWidth"`
	PlotDepth float64     `json:"plotDepth"`
	Rooms     []plan.Room `json:"rooms"`
	Notes     []string    `json:"notes"`
}

// Execute reconstructs the plan from image bytes.
func (a *VisionAgent) Execute(ctx context.Context, mimeType string, image []byte) (*ImageAnalysis, Metadata, error) {
	req := a.request(model.RoleSpatial, visionSystemPrompt, visionUserPrompt(), visionResponseSchema())
	req.ImageParts = []llm.ImagePart{{MIMEType: mimeType, Data: image}}

	out, meta, err := completeStructured[visionResponse](ctx, a.deps, model.RoleSpatial, req)
	if err != nil {
		return nil, meta, fmt.Errorf("image analysis: %w", err)
	}
	if len(out.Rooms) == 0 || out.PlotWidth <= 0 || out.PlotDepth <= 0 {
		return nil, meta, fmt.Errorf("image analysis: no usable plan in image")
	}

	graph := &plan.FloorPlanGraph{
		Rooms: geometry.Enrich(out.Rooms, out.PlotWidth, out.PlotDepth),
	}
	graph.RecomputeTotals(out.PlotWidth, out.PlotDepth)

	return &ImageAnalysis{
		PlotWidth: out.PlotWidth,
		PlotDepth: out.PlotDepth,
		Graph:     graph,
		Notes:     out.Notes,
	}, meta, nil
}
