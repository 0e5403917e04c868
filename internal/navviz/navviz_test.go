package navviz

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lanenav/internal/movement"
	"github.com/udisondev/lanenav/internal/nav"
	"github.com/udisondev/lanenav/internal/navgrid"
	"github.com/udisondev/lanenav/internal/testutil"
)

func pillarSnapshot(t *testing.T) (*navgrid.Grid, nav.Snapshot) {
	t.Helper()

	g := testutil.Grid(t, testutil.Layouts.Pillar...)
	p := nav.NewPlanner(g, movement.NewExecutor(nil), nav.DefaultOptions())
	plan := p.PlanPath(mgl64.Vec2{0.5, 1.5}, mgl64.Vec2{4.5, 1.5})
	require.True(t, plan.Reachable)

	return g, nav.Snapshot{
		Agent:     7,
		Visited:   plan.Visited,
		Path:      plan.Path,
		Waypoints: plan.Waypoints,
		Reachable: plan.Reachable,
	}
}

func TestCellBound(t *testing.T) {
	g := testutil.ScaledGrid(t, 2, mgl64.Vec3{10, 0, -4}, "...", "...")

	b := CellBound(g, navgrid.Coord{X: 1, Z: 1})
	assert.Equal(t, orb.Point{12, -2}, b.Min)
	assert.Equal(t, orb.Point{14, 0}, b.Max)
}

func TestFeatureCollection(t *testing.T) {
	g, snap := pillarSnapshot(t)

	fc := FeatureCollection(g, snap)
	require.Len(t, fc.Features, len(snap.Visited)+len(snap.Path)+1)

	kinds := map[string]int{}
	for _, f := range fc.Features {
		kinds[f.Properties.MustString("kind")]++
		assert.Equal(t, movement.AgentID(7), f.Properties["agent"])
	}
	assert.Equal(t, len(snap.Visited), kinds["visited"])
	assert.Equal(t, len(snap.Path), kinds["path"])
	assert.Equal(t, 1, kinds["waypoints"])

	line := fc.Features[len(fc.Features)-1]
	ls, ok := line.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, ls, len(snap.Waypoints))
	assert.InDelta(t, testutil.PolylineLength(snap.Waypoints), line.Properties.MustFloat64("length"), 1e-9)

	first := fc.Features[0]
	poly, ok := first.Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.Equal(t, CellBound(g, snap.Visited[0]), poly.Bound())
}

func TestFeatureCollectionUnreachable(t *testing.T) {
	g := testutil.Grid(t, testutil.Layouts.SplitRows...)
	snap := nav.Snapshot{Agent: 1, Visited: []navgrid.Coord{{X: 0, Z: 0}, {X: 1, Z: 0}}}

	fc := FeatureCollection(g, snap)
	assert.Len(t, fc.Features, 2, "no waypoint line")
}

func TestWrite(t *testing.T) {
	g, snap := pillarSnapshot(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g, snap))

	var doc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	assert.Len(t, doc.Features, len(snap.Visited)+len(snap.Path)+1)
}

func TestIndexInView(t *testing.T) {
	g := testutil.Grid(t, testutil.Layouts.Open10...)
	snaps := []nav.Snapshot{
		{
			Agent:   2,
			Visited: []navgrid.Coord{{X: 0, Z: 0}, {X: 5, Z: 5}, {X: 9, Z: 9}},
			Path:    []navgrid.Coord{{X: 5, Z: 5}},
		},
		{
			Agent:   1,
			Visited: []navgrid.Coord{{X: 6, Z: 5}, {X: 5, Z: 6}},
		},
	}

	ix := NewIndex(g, snaps...)
	assert.Equal(t, 6, ix.Len())

	got := ix.InView(mgl64.Vec2{5.2, 5.2}, mgl64.Vec2{6.5, 6.5})
	assert.Equal(t, []Cell{
		{Agent: 1, Kind: KindVisited, Coord: navgrid.Coord{X: 6, Z: 5}},
		{Agent: 1, Kind: KindVisited, Coord: navgrid.Coord{X: 5, Z: 6}},
		{Agent: 2, Kind: KindPath, Coord: navgrid.Coord{X: 5, Z: 5}},
		{Agent: 2, Kind: KindVisited, Coord: navgrid.Coord{X: 5, Z: 5}},
	}, got)

	assert.Empty(t, ix.InView(mgl64.Vec2{2.2, 2.2}, mgl64.Vec2{3.8, 3.8}))
	assert.Nil(t, ix.InView(mgl64.Vec2{4, 4}, mgl64.Vec2{3, 3}), "inverted viewport")
}

func TestCull(t *testing.T) {
	g, snap := pillarSnapshot(t)
	view := Viewport{Min: mgl64.Vec2{2.2, 0.2}, Max: mgl64.Vec2{4.8, 2.8}}
	require.True(t, view.Valid())

	got := Cull(g, view, snap)
	require.Len(t, got, 1)
	assert.Equal(t, snap.Waypoints, got[0].Waypoints, "waypoints are not culled")
	assert.NotEmpty(t, got[0].Visited)
	assert.Less(t, len(got[0].Visited), len(snap.Visited))
	for _, c := range append(got[0].Visited, got[0].Path...) {
		assert.GreaterOrEqual(t, c.X, 2, "cell %v left of the view", c)
	}
	assert.Contains(t, got[0].Path, navgrid.Coord{X: 4, Z: 1})
	assert.NotContains(t, got[0].Path, navgrid.Coord{X: 0, Z: 1})

	fc := FeatureCollection(g, got...)
	assert.Len(t, fc.Features, len(got[0].Visited)+len(got[0].Path)+1)

	assert.False(t, Viewport{Min: mgl64.Vec2{1, 1}, Max: mgl64.Vec2{1, 3}}.Valid())
}
