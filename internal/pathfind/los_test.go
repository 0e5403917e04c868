package pathfind

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/udisondev/lanenav/internal/testutil"
)

func TestHasLineOfSightCells(t *testing.T) {
	pillar := testutil.Grid(t, testutil.Layouts.Pillar...)
	diag := testutil.Grid(t, testutil.Layouts.DiagWalls...)

	tests := []struct {
		name string
		grid Grid
		a, b mgl64.Vec2
		want bool
	}{
		{"clear row", pillar, mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{4.5, 0.5}, true},
		{"through pillar", pillar, mgl64.Vec2{0.5, 1.5}, mgl64.Vec2{4.5, 1.5}, false},
		{"clips pillar", pillar, mgl64.Vec2{0.5, 1.5}, mgl64.Vec2{4.5, 0.5}, false},
		{"under pillar", pillar, mgl64.Vec2{0.5, 0.9}, mgl64.Vec2{4.5, 0.9}, true},
		{"ends on wall", pillar, mgl64.Vec2{0.5, 1.5}, mgl64.Vec2{2.5, 1.5}, false},
		{"starts on wall", pillar, mgl64.Vec2{2.5, 1.5}, mgl64.Vec2{2.5, 2.5}, false},
		{"corner squeeze", diag, mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{2.5, 2.5}, false},
		{"open diagonal", diag, mgl64.Vec2{1.5, 1.5}, mgl64.Vec2{2.5, 2.5}, true},
		{"leaves grid", pillar, mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{6.5, 0.5}, false},
		{"degenerate", pillar, mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{0.5, 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasLineOfSightCells(tt.grid, tt.a, tt.b))
		})
	}
}

func TestHasLineOfSightSymmetric(t *testing.T) {
	g := testutil.Grid(t, testutil.Layouts.Symmetric...)

	points := []mgl64.Vec2{
		{0.5, 0.5}, {6.5, 0.5}, {0.5, 4.5}, {6.5, 4.5},
		{2, 1}, {5, 1}, {1, 2}, {3.5, 0.5}, {0.5, 2.5}, {6.5, 2.5},
	}
	for _, a := range points {
		for _, b := range points {
			assert.Equal(t, HasLineOfSightCells(g, a, b), HasLineOfSightCells(g, b, a),
				"asymmetric result for %v <-> %v", a, b)
		}
	}
}

func TestHasLineOfSightWorld(t *testing.T) {
	g := testutil.ScaledGrid(t, 2, mgl64.Vec3{10, 0, -4}, testutil.Layouts.Pillar...)

	assert.True(t, HasLineOfSight(g, mgl64.Vec2{11, -3}, mgl64.Vec2{19, -3}))
	assert.False(t, HasLineOfSight(g, mgl64.Vec2{11, -1}, mgl64.Vec2{19, -1}))
	assert.False(t, HasLineOfSight(g, mgl64.Vec2{11, -3}, mgl64.Vec2{21, -3}), "x = 21 is past the grid")
}
