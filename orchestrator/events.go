// Package orchestrator runs the generation pipeline for one job:
// normalize, generate, then validate/critique/score/refine until the
// plan converges or the iteration budget runs out, followed by cost
// and furniture post-passes and final assembly.
package orchestrator

import "github.com/SAQLAINAP/Architectural-AI-Gemini/plan"

// EventType is the closed set of progress event type strings on the
// wire. Parsers must tolerate unknown types; the alternative_* types
// are reserved for the alternatives feature and never emitted here.
type EventType string

const (
	EventConnected       EventType = "connected"
	EventAgentStart      EventType = "agent_start"
	EventAgentComplete   EventType = "agent_complete"
	EventIterationStart  EventType = "iteration_start"
	EventViolationUpdate EventType = "violation_update"
	EventScoreUpdate     EventType = "score_update"
	EventMoERouting      EventType = "moe_routing"
	EventCompleted       EventType = "completed"
	EventError           EventType = "error"

	EventAlternativeStart     EventType = "alternative_start"
	EventAlternativeProgress  EventType = "alternative_progress"
	EventAlternativeComplete  EventType = "alternative_complete"
	EventAlternativeError     EventType = "alternative_error"
	EventAlternativesComplete EventType = "alternatives_completed"
)

// Event is one progress event. Wire shape is {type, data}.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// IsTerminal reports whether the event ends the stream.
func (e Event) IsTerminal() bool {
	return e.Type == EventCompleted || e.Type == EventError
}

// Emitter receives progress events in emission order. Implementations
// must not block the orchestrator on slow consumers.
type Emitter interface {
	Emit(event Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Event)

// Emit calls the function.
func (f EmitterFunc) Emit(event Event) { f(event) }

// AgentStartData announces an agent is about to run.
type AgentStartData struct {
	Agent     string `json:"agent"`
	Iteration int    `json:"iteration,omitempty"`
}

// AgentCompleteData reports a finished agent call, including which
// model actually served it.
type AgentCompleteData struct {
	Agent      string `json:"agent"`
	Model      string `json:"model,omitempty"`
	DurationMs int64  `json:"durationMs"`
	TokenCount int    `json:"tokenCount,omitempty"`
}

// IterationStartData opens one refinement iteration.
type IterationStartData struct {
	Iteration     int `json:"iteration"`
	MaxIterations int `json:"maxIterations"`
}

// RegulatoryUpdateData carries the regulatory validator outcome.
type RegulatoryUpdateData struct {
	RegulatoryViolations []plan.Violation `json:"regulatoryViolations"`
	RegulatoryScore      float64          `json:"regulatoryScore"`
}

// VastuUpdateData carries the cultural validator outcome.
type VastuUpdateData struct {
	VastuViolations []plan.Violation `json:"vastuViolations"`
	VastuScore      float64          `json:"vastuScore"`
}

// ScoreUpdateData reports the weighted score of one iteration.
type ScoreUpdateData struct {
	Iteration       int                  `json:"iteration"`
	FinalScore      float64              `json:"finalScore"`
	Breakdown       []plan.ScoreCategory `json:"breakdown"`
	PassesThreshold bool                 `json:"passesThreshold"`
}

// MoERoutingData reports that a fallback model served a call routed to
// a different primary.
type MoERoutingData struct {
	Agent          string `json:"agent"`
	RequestedModel string `json:"requestedModel"`
	ServedBy       string `json:"servedBy"`
}

// CompletedData is the terminal success payload.
type CompletedData struct {
	FinalPlan      *plan.GeneratedPlan `json:"finalPlan"`
	FinalScore     float64             `json:"finalScore"`
	Converged      bool                `json:"converged"`
	IterationCount int                 `json:"iterationCount"`
}

// ErrorData is the terminal failure payload.
type ErrorData struct {
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}
