package testutil

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/lanenav/internal/navgrid"
)

// AssertPointNear checks that got lies within eps of want on both axes.
func AssertPointNear(t testing.TB, want, got mgl64.Vec2, eps float64) {
	t.Helper()

	if math.Abs(want.X()-got.X()) > eps || math.Abs(want.Y()-got.Y()) > eps {
		t.Fatalf("point mismatch: expected (%g, %g), got (%g, %g) (eps %g)",
			want.X(), want.Y(), got.X(), got.Y(), eps)
	}
}

// AssertEndpointsPinned checks the first and last waypoints against the
// requested start and end within 1e-4 cell sizes.
func AssertEndpointsPinned(t testing.TB, g *navgrid.Grid, waypoints []mgl64.Vec2, start, end mgl64.Vec2) {
	t.Helper()

	if len(waypoints) < 2 {
		t.Fatalf("expected at least 2 waypoints, got %d", len(waypoints))
	}
	eps := 1e-4 * g.CellSize()
	AssertPointNear(t, start, waypoints[0], eps)
	AssertPointNear(t, end, waypoints[len(waypoints)-1], eps)
}

// AssertSegmentsVisible checks every consecutive waypoint pair with the
// given line-of-sight predicate.
func AssertSegmentsVisible(t testing.TB, waypoints []mgl64.Vec2, visible func(a, b mgl64.Vec2) bool) {
	t.Helper()

	for i := 1; i < len(waypoints); i++ {
		a, b := waypoints[i-1], waypoints[i]
		if !visible(a, b) {
			t.Fatalf("segment %d blocked: (%g, %g) -> (%g, %g)\n%s",
				i-1, a.X(), a.Y(), b.X(), b.Y(), DumpWaypoints(waypoints))
		}
	}
}

// AssertNoCollinear checks that no three consecutive waypoints are exactly
// collinear.
func AssertNoCollinear(t testing.TB, waypoints []mgl64.Vec2) {
	t.Helper()

	for i := 2; i < len(waypoints); i++ {
		a, b, c := waypoints[i-2], waypoints[i-1], waypoints[i]
		ab, ac := b.Sub(a), c.Sub(a)
		if ab.X()*ac.Y()-ab.Y()*ac.X() == 0 {
			t.Fatalf("waypoints %d..%d are collinear\n%s", i-2, i, DumpWaypoints(waypoints))
		}
	}
}

// AssertCellPathConnected checks that consecutive cells are 8-neighbours,
// no cell repeats, and every diagonal step has walkable bridges.
func AssertCellPathConnected(t testing.TB, g *navgrid.Grid, path []navgrid.Coord) {
	t.Helper()

	seen := make(map[navgrid.Coord]struct{}, len(path))
	for i, c := range path {
		if !g.IsWalkable(c.X, c.Z) {
			t.Fatalf("path cell %d (%d, %d) is not walkable", i, c.X, c.Z)
		}
		if _, dup := seen[c]; dup {
			t.Fatalf("path cell %d (%d, %d) repeats", i, c.X, c.Z)
		}
		seen[c] = struct{}{}
		if i == 0 {
			continue
		}
		p := path[i-1]
		dx, dz := c.X-p.X, c.Z-p.Z
		if dx < -1 || dx > 1 || dz < -1 || dz > 1 || (dx == 0 && dz == 0) {
			t.Fatalf("path cells %d and %d are not neighbours", i-1, i)
		}
		if dx != 0 && dz != 0 && (!g.IsWalkable(p.X, c.Z) || !g.IsWalkable(c.X, p.Z)) {
			t.Fatalf("diagonal step %d -> %d cuts a corner", i-1, i)
		}
	}
}

// PolylineLength sums the segment lengths of waypoints.
func PolylineLength(waypoints []mgl64.Vec2) float64 {
	var total float64
	for i := 1; i < len(waypoints); i++ {
		total += waypoints[i].Sub(waypoints[i-1]).Len()
	}
	return total
}

// DumpWaypoints formats waypoints one per line for failure messages.
func DumpWaypoints(waypoints []mgl64.Vec2) string {
	var sb strings.Builder
	for i, p := range waypoints {
		sb.WriteString("  ")
		sb.WriteString(formatIndex(i))
		sb.WriteString(": (")
		sb.WriteString(formatFloat(p.X()))
		sb.WriteString(", ")
		sb.WriteString(formatFloat(p.Y()))
		sb.WriteString(")\n")
	}
	return sb.String()
}
