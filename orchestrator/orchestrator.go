package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/agents"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/regulation"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/scoring"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/vastu"
)

// MaxIterations is the default refinement iteration budget.
const MaxIterations = 3

// ErrCancelled marks cooperative cancellation of a run.
var ErrCancelled = errors.New("run cancelled")

// IterationRecord captures everything one iteration produced.
type IterationRecord struct {
	Iteration  int                   `json:"iteration"`
	Regulatory plan.ValidationResult `json:"regulatory"`
	Cultural   plan.ValidationResult `json:"cultural"`
	Critique   plan.Critique         `json:"critique"`
	Score      plan.PlanScore        `json:"score"`
}

// Result is the outcome of a successful run.
type Result struct {
	Plan       *plan.GeneratedPlan `json:"plan"`
	Score      plan.PlanScore      `json:"score"`
	Converged  bool                `json:"converged"`
	Iterations []IterationRecord   `json:"iterations"`
}

// Orchestrator drives the full pipeline. One Run is logically
// sequential; the struct itself is safe to share across concurrent
// runs because all per-run state lives on the stack.
type Orchestrator struct {
	input      *agents.InputAgent
	spatial    *agents.SpatialAgent
	critic     *agents.CriticAgent
	refinement *agents.RefinementAgent
	cost       *agents.CostAgent
	furniture  *agents.FurnitureAgent

	registry      *model.Registry
	logger        *slog.Logger
	maxIterations int
	threshold     float64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxIterations overrides the iteration budget.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.maxIterations = n
		}
	}
}

// WithThreshold overrides the convergence threshold.
func WithThreshold(t float64) Option {
	return func(o *Orchestrator) {
		o.threshold = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an orchestrator wired to one LLM completer and router.
func New(completer llm.Completer, registry *model.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:      registry,
		logger:        slog.Default(),
		maxIterations: MaxIterations,
		threshold:     scoring.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(o)
	}

	o.input = agents.NewInputAgent(completer, registry, o.logger)
	o.spatial = agents.NewSpatialAgent(completer, registry, o.logger)
	o.critic = agents.NewCriticAgent(completer, registry, o.logger)
	o.refinement = agents.NewRefinementAgent(completer, registry, o.logger)
	o.cost = agents.NewCostAgent(completer, registry, o.logger)
	o.furniture = agents.NewFurnitureAgent(completer, registry, o.logger)

	return o
}

// Run executes the pipeline for one configuration, emitting progress
// events in order. It emits the terminal event itself (completed or
// error) and additionally returns the result or error to the caller
// for the job record.
func (o *Orchestrator) Run(ctx context.Context, cfg plan.ProjectConfig, emit Emitter) (*Result, error) {
	result, err := o.run(ctx, cfg, emit)
	if err != nil {
		data := ErrorData{Message: err.Error()}
		if errors.Is(err, ErrCancelled) {
			data.Reason = "cancelled"
		}
		emit.Emit(Event{Type: EventError, Data: data})
		return nil, err
	}

	emit.Emit(Event{Type: EventCompleted, Data: CompletedData{
		FinalPlan:      result.Plan,
		FinalScore:     result.Score.Final,
		Converged:      result.Converged,
		IterationCount: len(result.Iterations),
	}})
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, cfg plan.ProjectConfig, emit Emitter) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Input agent: deterministic normalization, best-effort adjacency.
	emit.Emit(Event{Type: EventAgentStart, Data: AgentStartData{Agent: string(model.RoleInput)}})
	spec, meta, err := o.input.Execute(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("input agent: %w", err)
	}
	o.emitAgentComplete(emit, model.RoleInput, meta)

	if err := o.checkCancelled(ctx); err != nil {
		return nil, err
	}

	// Spatial agent: initial candidate. Fatal on failure.
	emit.Emit(Event{Type: EventAgentStart, Data: AgentStartData{Agent: string(model.RoleSpatial)}})
	graph, meta, err := o.spatial.Execute(ctx, spec)
	if err != nil {
		return nil, err
	}
	o.emitAgentComplete(emit, model.RoleSpatial, meta)

	var (
		records   []IterationRecord
		converged bool
	)

	for i := 1; i <= o.maxIterations; i++ {
		if err := o.checkCancelled(ctx); err != nil {
			return nil, err
		}

		emit.Emit(Event{Type: EventIterationStart, Data: IterationStartData{
			Iteration:     i,
			MaxIterations: o.maxIterations,
		}})

		regResult := regulation.Validate(regulation.Input{
			Rooms:      graph.Rooms,
			PlotWidth:  spec.PlotWidth,
			PlotDepth:  spec.PlotDepth,
			Profile:    spec.Profile,
			Setbacks:   spec.Setbacks,
			FloorCount: spec.FloorCount,
		})
		emit.Emit(Event{Type: EventViolationUpdate, Data: RegulatoryUpdateData{
			RegulatoryViolations: regResult.Violations,
			RegulatoryScore:      regResult.Score,
		}})

		vastuResult := vastu.Validate(graph.Rooms, spec.PlotWidth, spec.PlotDepth, spec.StrictnessCoefficient)
		emit.Emit(Event{Type: EventViolationUpdate, Data: VastuUpdateData{
			VastuViolations: vastuResult.Violations,
			VastuScore:      vastuResult.Score,
		}})

		if err := o.checkCancelled(ctx); err != nil {
			return nil, err
		}

		emit.Emit(Event{Type: EventAgentStart, Data: AgentStartData{Agent: string(model.RoleCritic), Iteration: i}})
		critique, meta, err := o.critic.Execute(ctx, graph, regResult, vastuResult)
		if err != nil {
			return nil, err
		}
		o.emitAgentComplete(emit, model.RoleCritic, meta)

		score := scoring.Score(scoring.Inputs{
			Regulatory:       regResult.Score,
			Cultural:         vastuResult.Score,
			Spatial:          spatialQuality(critique),
			CriticConfidence: critique.OverallConfidence,
		}, o.threshold)

		emit.Emit(Event{Type: EventScoreUpdate, Data: ScoreUpdateData{
			Iteration:       i,
			FinalScore:      score.Final,
			Breakdown:       score.Breakdown,
			PassesThreshold: score.PassesThreshold,
		}})

		records = append(records, IterationRecord{
			Iteration:  i,
			Regulatory: regResult,
			Cultural:   vastuResult,
			Critique:   critique,
			Score:      score,
		})

		if score.PassesThreshold {
			converged = true
			break
		}

		if i < o.maxIterations {
			if err := o.checkCancelled(ctx); err != nil {
				return nil, err
			}

			emit.Emit(Event{Type: EventAgentStart, Data: AgentStartData{Agent: string(model.RoleRefinement), Iteration: i}})
			refined, meta, err := o.refinement.Execute(ctx, graph, spec, regResult, vastuResult, critique)
			if err != nil {
				return nil, err
			}
			o.emitAgentComplete(emit, model.RoleRefinement, meta)
			graph = refined
		}
	}

	if err := o.checkCancelled(ctx); err != nil {
		return nil, err
	}

	last := records[len(records)-1]
	generated := o.assemble(ctx, emit, graph, spec, last)

	return &Result{
		Plan:       generated,
		Score:      last.Score,
		Converged:  converged,
		Iterations: records,
	}, nil
}

// assemble runs the cost and furniture post-passes and builds the
// external plan. Neither post-pass can fail the run.
func (o *Orchestrator) assemble(ctx context.Context, emit Emitter, graph *plan.FloorPlanGraph, spec plan.NormalizedSpec, last IterationRecord) *plan.GeneratedPlan {
	compliance := plan.Compliance{
		Regulatory: last.Regulatory.Items,
		Cultural:   last.Cultural.Items,
	}

	emit.Emit(Event{Type: EventAgentStart, Data: AgentStartData{Agent: string(model.RoleCost)}})
	bom, costRange, meta, err := o.cost.Execute(ctx, graph, spec)
	if err != nil {
		o.logger.Warn("Cost estimation failed, shipping empty BOM", "error", err)
		bom = []plan.BOMItem{}
		costRange = plan.CostRange{Currency: "INR"}
		compliance.Regulatory = append(compliance.Regulatory, plan.ComplianceItem{
			Rule:    "cost-estimation",
			Status:  plan.StatusUnknown,
			Message: "Cost estimation unavailable for this run",
		})
	}
	o.emitAgentComplete(emit, model.RoleCost, meta)

	var furniture []plan.FurnitureItem
	emit.Emit(Event{Type: EventAgentStart, Data: AgentStartData{Agent: string(model.RoleFurniture)}})
	furniture, meta, err = o.furniture.Execute(ctx, graph.Rooms)
	if err != nil {
		o.logger.Warn("Furniture placement failed, shipping without furniture", "error", err)
		furniture = nil
	}
	o.emitAgentComplete(emit, model.RoleFurniture, meta)

	rooms := graph.BareRooms()

	return &plan.GeneratedPlan{
		DesignLog:         graph.DesignLog,
		Rooms:             rooms,
		TotalArea:         graph.TotalArea,
		BuiltUpArea:       graph.BuiltUpArea,
		PlotCoverageRatio: graph.PlotCoverageRatio,
		Compliance:        compliance,
		BOM:               bom,
		TotalCostRange:    costRange,
		Furniture:         furniture,
		Floors:            plan.PartitionFloors(rooms),
	}
}

// emitAgentComplete reports a finished agent and, when a fallback
// served the call, the routing decision.
func (o *Orchestrator) emitAgentComplete(emit Emitter, role model.Role, meta agents.Metadata) {
	emit.Emit(Event{Type: EventAgentComplete, Data: AgentCompleteData{
		Agent:      string(role),
		Model:      meta.ModelUsed,
		DurationMs: meta.DurationMs,
		TokenCount: meta.TokenCount,
	}})

	routed := o.registry.Route(role).Model
	if meta.ModelUsed != "" && routed != "" && meta.ModelUsed != routed {
		emit.Emit(Event{Type: EventMoERouting, Data: MoERoutingData{
			Agent:          string(role),
			RequestedModel: routed,
			ServedBy:       meta.ModelUsed,
		}})
	}
}

func (o *Orchestrator) checkCancelled(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %s", ErrCancelled, ctx.Err())
	}
	return nil
}

// spatialQuality folds the critique's layout metrics into the spatial
// subscore: the mean of the five quality dimensions.
func spatialQuality(c plan.Critique) float64 {
	sum := c.SpatialEfficiency + c.CirculationQuality + c.NaturalLighting +
		c.PrivacyGradient + c.AestheticBalance
	return sum / 5
}
