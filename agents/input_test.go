package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm/testutil"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

func baseConfig() plan.ProjectConfig {
	return plan.ProjectConfig{
		PlotWidth:    12,
		PlotDepth:    18,
		Requirements: []string{"master bedroom", "kitchen", "living room"},
		Strictness:   plan.StrictnessModerately,
	}
}

func TestInputAgentCoreRooms(t *testing.T) {
	mock := &testutil.MockLLMClient{Responses: []*llm.Response{
		{Content: `{"adjacencies": []}`, ModelKey: "gemini-flash"},
	}}
	agent := NewInputAgent(mock, model.NewDefaultRegistry(), nil)

	spec, _, err := agent.Execute(context.Background(), baseConfig())
	require.NoError(t, err)

	classes := requirementClasses(spec.Requirements)
	// Always present regardless of the requirement strings.
	assert.Contains(t, classes, plan.ClassMasterBedroom)
	assert.Contains(t, classes, plan.ClassKitchen)
	assert.Contains(t, classes, plan.ClassLivingRoom)
	assert.Contains(t, classes, plan.ClassEntrance)
	assert.Contains(t, classes, plan.ClassBathroom)

	assert.Equal(t, 216.0, spec.PlotArea)
	assert.Equal(t, 0.5, spec.StrictnessCoefficient)
	assert.Equal(t, 1, spec.FloorCount)
	assert.Equal(t, defaultBathrooms, spec.BathroomCount)
}

func TestInputAgentExtraBedrooms(t *testing.T) {
	tests := []struct {
		name         string
		requirements []string
		wantExtra    int
	}{
		{"single bedroom mention", []string{"master bedroom", "kitchen"}, 0},
		{"three bedroom mentions", []string{"master bedroom", "kids bedroom", "guest bedroom"}, 2},
		{"no bedroom mention", []string{"kitchen", "living"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockLLMClient{}
			agent := NewInputAgent(mock, model.NewDefaultRegistry(), nil)

			cfg := baseConfig()
			cfg.Requirements = tt.requirements
			spec, _, err := agent.Execute(context.Background(), cfg)
			require.NoError(t, err)

			extra := 0
			for _, req := range spec.Requirements {
				if req.Classification == plan.ClassBedroom {
					extra = req.Count
				}
			}
			assert.Equal(t, tt.wantExtra, extra)
		})
	}
}

func TestInputAgentOptionalRooms(t *testing.T) {
	mock := &testutil.MockLLMClient{}
	agent := NewInputAgent(mock, model.NewDefaultRegistry(), nil)

	cfg := baseConfig()
	cfg.Requirements = append(cfg.Requirements, "pooja room", "dining area", "study corner")
	cfg.Floors = 2
	cfg.Parking = "car"
	cfg.Bathrooms = 3

	spec, _, err := agent.Execute(context.Background(), cfg)
	require.NoError(t, err)

	classes := requirementClasses(spec.Requirements)
	assert.Contains(t, classes, plan.ClassPoojaRoom)
	assert.Contains(t, classes, plan.ClassDiningRoom)
	assert.Contains(t, classes, plan.ClassStudy)
	assert.Contains(t, classes, plan.ClassStaircase)
	assert.Contains(t, classes, plan.ClassParking)
	assert.Equal(t, 3, spec.BathroomCount)

	for _, req := range spec.Requirements {
		if req.Classification == plan.ClassParking {
			assert.Equal(t, 12.5, req.MinArea, "car parking needs a car-sized slot")
		}
	}
}

func TestInputAgentNoStaircaseSingleFloor(t *testing.T) {
	mock := &testutil.MockLLMClient{}
	agent := NewInputAgent(mock, model.NewDefaultRegistry(), nil)

	spec, _, err := agent.Execute(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.NotContains(t, requirementClasses(spec.Requirements), plan.ClassStaircase)
}

func TestInputAgentAdjacencyParse(t *testing.T) {
	mock := &testutil.MockLLMClient{Responses: []*llm.Response{
		{Content: `{"adjacencies": [{"roomA": "Kitchen", "roomB": "Dining Room", "relation": "adjacent"}]}`, ModelKey: "gemini-flash"},
	}}
	agent := NewInputAgent(mock, model.NewDefaultRegistry(), nil)

	cfg := baseConfig()
	cfg.Requirements = append(cfg.Requirements, "kitchen next to dining")
	spec, _, err := agent.Execute(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, spec.Adjacencies, 1)
	assert.Equal(t, plan.RelationAdjacent, spec.Adjacencies[0].Relation)
}

func TestInputAgentAdjacencyFailureTolerated(t *testing.T) {
	mock := &testutil.MockLLMClient{Err: errors.New("all endpoints failed")}
	agent := NewInputAgent(mock, model.NewDefaultRegistry(), nil)

	spec, _, err := agent.Execute(context.Background(), baseConfig())
	require.NoError(t, err, "adjacency parse failure must not fail normalization")
	assert.Empty(t, spec.Adjacencies)
	assert.NotEmpty(t, spec.Requirements)
}

func TestInputAgentUnknownAuthorityFallsBack(t *testing.T) {
	mock := &testutil.MockLLMClient{}
	agent := NewInputAgent(mock, model.NewDefaultRegistry(), nil)

	cfg := baseConfig()
	cfg.Authority = "atlantis-development-board"
	spec, _, err := agent.Execute(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "national", spec.Profile.Authority)
	assert.Equal(t, 3.0, spec.Setbacks.Front)
}

func requirementClasses(reqs []plan.RoomRequirement) []plan.Classification {
	classes := make([]plan.Classification, len(reqs))
	for i, r := range reqs {
		classes[i] = r.Classification
	}
	return classes
}
