package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

func TestDirection(t *testing.T) {
	// 12 x 18 plot: thirds at x=4,8 and y=6,12.
	tests := []struct {
		name string
		x, y float64
		want plan.Sector
	}{
		{"north-west corner", 1, 1, plan.SectorNW},
		{"north band", 6, 2, plan.SectorN},
		{"north-east", 10, 3, plan.SectorNE},
		{"west band", 2, 9, plan.SectorW},
		{"center", 6, 9, plan.SectorCenter},
		{"east band", 11, 9, plan.SectorE},
		{"south-west", 1, 17, plan.SectorSW},
		{"south band", 6, 16, plan.SectorS},
		{"south-east", 10, 17, plan.SectorSE},
		{"gridline x resolves lower", 4, 9, plan.SectorW},
		{"gridline y resolves lower", 6, 6, plan.SectorN},
		{"both gridlines resolve lower", 4, 6, plan.SectorNW},
		{"second gridline x resolves lower", 8, 9, plan.SectorCenter},
		{"origin", 0, 0, plan.SectorNW},
		{"far corner", 12, 18, plan.SectorSE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Direction(tt.x, tt.y, 12, 18)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectionDeterminism(t *testing.T) {
	// Same centroid, same plot, same sector across repeated calls.
	for i := 0; i < 100; i++ {
		assert.Equal(t, plan.SectorCenter, Direction(7.5, 7.5, 15, 15))
	}
}

func TestDirectionDegeneratePlot(t *testing.T) {
	// Zero extent clamps to the lower-index cell instead of panicking.
	assert.Equal(t, plan.SectorNW, Direction(0, 0, 0, 0))
}
