package testutil

import (
	"strconv"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/lanenav/internal/navgrid"
)

// Layouts are reusable ASCII maps (row 0 is z = 0, cells are 1.0 units,
// min position at the origin).
var Layouts = struct {
	Row5      []string
	Row10     []string
	Pillar    []string
	DiagWalls []string
	SplitRows []string
	Open10    []string
	Corridor  []string
	Symmetric []string
}{
	Row5:  []string{"....."},
	Row10: []string{".........."},
	Pillar: []string{
		".....",
		"..#..",
		".....",
	},
	DiagWalls: []string{
		".#.",
		"#..",
		"...",
	},
	SplitRows: []string{
		"...",
		"###",
		"...",
	},
	Open10: []string{
		"..........",
		"..........",
		"..........",
		"..........",
		"..........",
		"..........",
		"..........",
		"..........",
		"..........",
		"..........",
	},
	Corridor: []string{
		"..........",
		"########..",
		"..........",
		"..########",
		"..........",
	},
	Symmetric: []string{
		".......",
		"...#...",
		"..###..",
		"...#...",
		".......",
	},
}

// Grid builds a grid from ASCII rows with 1.0 cells at the origin.
func Grid(t testing.TB, rows ...string) *navgrid.Grid {
	t.Helper()

	g, err := navgrid.ParseLayout(rows, 1, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	return g
}

// ScaledGrid builds a grid from ASCII rows with the given cell size and
// min position.
func ScaledGrid(t testing.TB, cellSize float64, origin mgl64.Vec3, rows ...string) *navgrid.Grid {
	t.Helper()

	g, err := navgrid.ParseLayout(rows, cellSize, origin)
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	return g
}

func formatIndex(i int) string {
	return strconv.Itoa(i)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}
