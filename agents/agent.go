// Package agents implements the six generation roles: input
// normalization, spatial layout, critique, refinement, cost
// estimation, and furniture placement. Each agent is a thin executor
// around one structured LLM call: typed input in, typed output plus
// call metadata out. All deterministic post-processing (enrichment,
// total recomputation, log accumulation) happens here, never inside
// the prompt.
package agents

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
)

// Metadata describes one agent execution for logs, events, and
// metrics.
type Metadata struct {
	// AgentName is the stable agent identifier (the role string).
	AgentName string `json:"agentName"`

	// ModelUsed is the registry key of the model that actually served
	// the call. Differs from the routed model when a fallback answered.
	ModelUsed string `json:"modelUsed,omitempty"`

	// DurationMs is the wall-clock execution time.
	DurationMs int64 `json:"durationMs"`

	// TokenCount is the total tokens consumed, when reported.
	TokenCount int `json:"tokenCount,omitempty"`
}

// deps are the collaborators every agent shares.
type deps struct {
	llm      llm.Completer
	registry *model.Registry
	logger   *slog.Logger
}

func newDeps(completer llm.Completer, registry *model.Registry, logger *slog.Logger) deps {
	if logger == nil {
		logger = slog.Default()
	}
	return deps{llm: completer, registry: registry, logger: logger}
}

// request builds an LLM request for a role using its routed model,
// temperature, and token cap.
func (d deps) request(role model.Role, system, user string, schema *llm.Schema) llm.Request {
	route := d.registry.Route(role)
	temp := route.Temperature
	return llm.Request{
		Role:  role,
		Model: route.Model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:     &temp,
		MaxOutputTokens: route.MaxOutputTokens,
		ResponseSchema:  schema,
	}
}

// completeStructured runs one structured call and packages metadata.
func completeStructured[T any](ctx context.Context, d deps, role model.Role, req llm.Request) (T, Metadata, error) {
	start := time.Now()
	out, resp, err := llm.CompleteStructured[T](ctx, d.llm, req)

	meta := Metadata{
		AgentName:  string(role),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if resp != nil {
		meta.ModelUsed = resp.ModelKey
		meta.TokenCount = resp.TokenCount
	}

	if err != nil {
		d.logger.Warn("Agent call failed",
			"agent", role,
			"duration_ms", meta.DurationMs,
			"error", err)
		return out, meta, err
	}

	d.logger.Debug("Agent call completed",
		"agent", role,
		"model", meta.ModelUsed,
		"duration_ms", meta.DurationMs,
		"tokens", meta.TokenCount)
	return out, meta, nil
}

// clamp01 bounds a score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
