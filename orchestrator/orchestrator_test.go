package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// compliantPlan fits a 12x18 national plot: inside the setback
// envelope, all rooms above minimum size, FAR and coverage low.
const compliantPlan = `{
	"rooms": [
		{"id": "master", "name": "Master Bedroom", "type": "room", "x": 2, "y": 4, "width": 4, "height": 3},
		{"id": "kitchen", "name": "Kitchen", "type": "room", "x": 6.5, "y": 4, "width": 3, "height": 2},
		{"id": "living", "name": "Living Room", "type": "room", "x": 2, "y": 8, "width": 4, "height": 3}
	],
	"designLog": ["Initial layout"]
}`

// undersizedPlan has a 4 sqm kitchen, below the 5.0 sqm minimum.
const undersizedPlan = `{
	"rooms": [
		{"id": "master", "name": "Master Bedroom", "type": "room", "x": 2, "y": 4, "width": 4, "height": 3},
		{"id": "kitchen", "name": "Kitchen", "type": "room", "x": 6.5, "y": 4, "width": 2, "height": 2},
		{"id": "living", "name": "Living Room", "type": "room", "x": 2, "y": 8, "width": 4, "height": 3}
	],
	"designLog": ["Initial layout"]
}`

const refinedPlan = `{
	"rooms": [
		{"id": "master", "name": "Master Bedroom", "type": "room", "x": 2, "y": 4, "width": 4, "height": 3},
		{"id": "kitchen", "name": "Kitchen", "type": "room", "x": 6.5, "y": 4, "width": 3, "height": 2},
		{"id": "living", "name": "Living Room", "type": "room", "x": 2, "y": 8, "width": 4, "height": 3}
	],
	"changesApplied": ["Enlarged the kitchen to meet the minimum area"]
}`

const costPayload = `{
	"bom": [{"material": "Cement", "quantity": 300, "unit": "bags", "estimatedCost": 120000}],
	"totalCostRange": {"min": 1500000, "max": 2000000, "currency": "INR"}
}`

const furniturePayload = `{
	"furniture": [{"roomId": "master", "name": "Queen Bed", "x": 2.5, "y": 4.5, "width": 1.5, "depth": 2.0}]
}`

func critiquePayload(level float64) string {
	return fmt.Sprintf(`{
		"spatialEfficiency": %[1]v, "circulationQuality": %[1]v,
		"naturalLighting": %[1]v, "privacyGradient": %[1]v,
		"aestheticBalance": %[1]v, "overallConfidence": %[1]v,
		"critiques": [], "strengths": []
	}`, level)
}

// scriptedMock routes responses by agent role, with per-role call
// sequencing for the critic.
type scriptedMock struct {
	mu          sync.Mutex
	spatial     string
	critiques   []string
	criticCalls int
	spatialErr  error
	costErr     error
	modelKey    string
}

func (m *scriptedMock) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.modelKey
	if key == "" {
		key = req.Model
	}
	resp := func(content string) (*llm.Response, error) {
		return &llm.Response{Content: content, ModelKey: key, Model: key, TokenCount: 100}, nil
	}

	switch req.Role {
	case model.RoleInput:
		return resp(`{"adjacencies": []}`)
	case model.RoleSpatial:
		if m.spatialErr != nil {
			return nil, m.spatialErr
		}
		return resp(m.spatial)
	case model.RoleCritic:
		idx := m.criticCalls
		m.criticCalls++
		if idx >= len(m.critiques) {
			idx = len(m.critiques) - 1
		}
		return resp(m.critiques[idx])
	case model.RoleRefinement:
		return resp(refinedPlan)
	case model.RoleCost:
		if m.costErr != nil {
			return nil, m.costErr
		}
		return resp(costPayload)
	case model.RoleFurniture:
		return resp(furniturePayload)
	}
	return resp("{}")
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) Emit(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *eventRecorder) count(t EventType) int {
	n := 0
	for _, typ := range r.types() {
		if typ == t {
			n++
		}
	}
	return n
}

func testConfig() plan.ProjectConfig {
	return plan.ProjectConfig{
		PlotWidth:    12,
		PlotDepth:    18,
		Requirements: []string{"master bedroom", "kitchen", "living room"},
	}
}

func TestRunConvergesFirstIteration(t *testing.T) {
	mock := &scriptedMock{spatial: compliantPlan, critiques: []string{critiquePayload(0.9)}}
	rec := &eventRecorder{}
	orch := New(mock, model.NewDefaultRegistry())

	result, err := orch.Run(context.Background(), testConfig(), rec)
	require.NoError(t, err)

	assert.True(t, result.Converged)
	require.Len(t, result.Iterations, 1)
	assert.True(t, result.Score.PassesThreshold)

	// Compliant plan, strictness None: 0.40 + 0.30 + 0.20*0.9 + 0.10*0.9.
	assert.InDelta(t, 0.97, result.Score.Final, 1e-9)

	require.NotNil(t, result.Plan)
	assert.Len(t, result.Plan.Rooms, 3)
	assert.Len(t, result.Plan.BOM, 1)
	assert.Equal(t, "INR", result.Plan.TotalCostRange.Currency)
	assert.Len(t, result.Plan.Furniture, 1)
	assert.Nil(t, result.Plan.Floors, "single-floor plan has no partition")
	assert.InDelta(t, 30.0, result.Plan.BuiltUpArea, 1e-9)

	types := rec.types()
	assert.Equal(t, EventAgentStart, types[0])
	assert.Equal(t, EventCompleted, types[len(types)-1])
	assert.Equal(t, 1, rec.count(EventIterationStart))
	assert.Equal(t, 2, rec.count(EventViolationUpdate))
	assert.Equal(t, 1, rec.count(EventScoreUpdate))
	assert.Equal(t, 0, rec.count(EventError))
}

func TestRunRefinementPath(t *testing.T) {
	mock := &scriptedMock{
		spatial:   undersizedPlan,
		critiques: []string{critiquePayload(0.0), critiquePayload(0.9)},
	}
	rec := &eventRecorder{}
	orch := New(mock, model.NewDefaultRegistry())

	result, err := orch.Run(context.Background(), testConfig(), rec)
	require.NoError(t, err)

	assert.True(t, result.Converged)
	require.Len(t, result.Iterations, 2)

	// Iteration 1: undersized kitchen costs a major penalty and the
	// critic scores zero, landing below the threshold.
	first := result.Iterations[0]
	assert.InDelta(t, 0.9, first.Regulatory.Score, 1e-9)
	assert.False(t, first.Score.PassesThreshold)

	// Iteration 2 runs on the refined plan.
	second := result.Iterations[1]
	assert.InDelta(t, 1.0, second.Regulatory.Score, 1e-9)
	assert.True(t, second.Score.PassesThreshold)

	assert.Contains(t, result.Plan.DesignLog, "--- Refinement Pass ---")
	assert.Contains(t, result.Plan.DesignLog, "Enlarged the kitchen to meet the minimum area")
	assert.Equal(t, 2, rec.count(EventIterationStart))
}

func TestRunSpatialFailureIsFatal(t *testing.T) {
	mock := &scriptedMock{spatialErr: errors.New("all endpoints failed")}
	rec := &eventRecorder{}
	orch := New(mock, model.NewDefaultRegistry())

	_, err := orch.Run(context.Background(), testConfig(), rec)
	require.Error(t, err)

	types := rec.types()
	assert.Equal(t, EventError, types[len(types)-1])
	assert.Equal(t, 0, rec.count(EventCompleted))
}

func TestRunCancellation(t *testing.T) {
	mock := &scriptedMock{spatial: compliantPlan, critiques: []string{critiquePayload(0.9)}}
	rec := &eventRecorder{}
	orch := New(mock, model.NewDefaultRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.Run(ctx, testConfig(), rec)
	require.ErrorIs(t, err, ErrCancelled)

	last := rec.events[len(rec.events)-1]
	require.Equal(t, EventError, last.Type)
	data, ok := last.Data.(ErrorData)
	require.True(t, ok)
	assert.Equal(t, "cancelled", data.Reason)
}

func TestRunSingleIterationNeverRefines(t *testing.T) {
	mock := &scriptedMock{
		spatial:   undersizedPlan,
		critiques: []string{critiquePayload(0.0)},
	}
	rec := &eventRecorder{}
	orch := New(mock, model.NewDefaultRegistry(), WithMaxIterations(1))

	result, err := orch.Run(context.Background(), testConfig(), rec)
	require.NoError(t, err)

	assert.False(t, result.Converged)
	require.Len(t, result.Iterations, 1)
	assert.NotContains(t, result.Plan.DesignLog, "--- Refinement Pass ---")
	assert.Equal(t, 1, rec.count(EventCompleted), "non-convergence still completes with the best plan")
}

func TestRunCostFailureIsSoft(t *testing.T) {
	mock := &scriptedMock{
		spatial:   compliantPlan,
		critiques: []string{critiquePayload(0.9)},
		costErr:   errors.New("all endpoints failed"),
	}
	rec := &eventRecorder{}
	orch := New(mock, model.NewDefaultRegistry())

	result, err := orch.Run(context.Background(), testConfig(), rec)
	require.NoError(t, err, "cost failure must not fail the run")

	assert.Empty(t, result.Plan.BOM)
	assert.Equal(t, plan.CostRange{Currency: "INR"}, result.Plan.TotalCostRange)

	found := false
	for _, item := range result.Plan.Compliance.Regulatory {
		if item.Rule == "cost-estimation" && item.Status == plan.StatusUnknown {
			found = true
		}
	}
	assert.True(t, found, "soft-error compliance item expected")
}

func TestRunEmitsMoERoutingOnFallback(t *testing.T) {
	// Every call is served by gemini-flash-lite; the heavy roles route
	// to gemini-pro, so routing events must surface the substitution.
	mock := &scriptedMock{
		spatial:   compliantPlan,
		critiques: []string{critiquePayload(0.9)},
		modelKey:  "gemini-flash-lite",
	}
	rec := &eventRecorder{}
	orch := New(mock, model.NewDefaultRegistry())

	_, err := orch.Run(context.Background(), testConfig(), rec)
	require.NoError(t, err)

	require.Greater(t, rec.count(EventMoERouting), 0)
	for _, e := range rec.events {
		if e.Type == EventMoERouting {
			data, ok := e.Data.(MoERoutingData)
			require.True(t, ok)
			assert.Equal(t, "gemini-flash-lite", data.ServedBy)
			assert.NotEqual(t, data.RequestedModel, data.ServedBy)
		}
	}
}

func TestRunInvalidConfig(t *testing.T) {
	mock := &scriptedMock{}
	rec := &eventRecorder{}
	orch := New(mock, model.NewDefaultRegistry())

	cfg := testConfig()
	cfg.PlotWidth = -5
	_, err := orch.Run(context.Background(), cfg, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunMultiFloorPartition(t *testing.T) {
	twoFloorPlan := `{
		"rooms": [
			{"id": "living", "name": "Living Room", "type": "room", "x": 2, "y": 4, "width": 4, "height": 3, "floor": 0},
			{"id": "stairs", "name": "Staircase", "type": "circulation", "x": 6.5, "y": 4, "width": 1.5, "height": 3, "floor": 0},
			{"id": "master", "name": "Master Bedroom", "type": "room", "x": 2, "y": 4, "width": 4, "height": 3, "floor": 1}
		],
		"designLog": ["Two floor layout"]
	}`
	mock := &scriptedMock{spatial: twoFloorPlan, critiques: []string{critiquePayload(0.9)}}
	rec := &eventRecorder{}
	orch := New(mock, model.NewDefaultRegistry())

	cfg := testConfig()
	cfg.Floors = 2
	result, err := orch.Run(context.Background(), cfg, rec)
	require.NoError(t, err)

	require.Len(t, result.Plan.Floors, 2)
	assert.Equal(t, "Ground Floor", result.Plan.Floors[0].FloorLabel)
	assert.Len(t, result.Plan.Floors[0].Rooms, 2)
	assert.Len(t, result.Plan.Floors[1].Rooms, 1)
}
