package navviz

import (
	"cmp"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/lanenav/internal/movement"
	"github.com/udisondev/lanenav/internal/nav"
	"github.com/udisondev/lanenav/internal/navgrid"
)

// Cell is a debug cell of one agent's snapshot.
type Cell struct {
	Agent movement.AgentID
	Kind  Kind
	Coord navgrid.Coord
}

type cellEntry struct {
	cell Cell
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *cellEntry) Bounds() rtreego.Rect {
	return e.rect
}

// Index is an R-tree over the visited and path cells of debug snapshots,
// used to cull what a viewport has to draw.
type Index struct {
	tree *rtreego.Rtree
}

// NewIndex indexes every visited and path cell of snaps.
func NewIndex(g *navgrid.Grid, snaps ...nav.Snapshot) *Index {
	tree := rtreego.NewTree(2, 25, 50)

	insert := func(agent movement.AgentID, c navgrid.Coord, kind Kind) {
		b := CellBound(g, c)
		rect, err := rtreego.NewRect(
			rtreego.Point{b.Min.X(), b.Min.Y()},
			[]float64{b.Max.X() - b.Min.X(), b.Max.Y() - b.Min.Y()},
		)
		if err != nil {
			return
		}
		tree.Insert(&cellEntry{cell: Cell{Agent: agent, Kind: kind, Coord: c}, rect: rect})
	}

	for _, s := range snaps {
		for _, c := range s.Visited {
			insert(s.Agent, c, KindVisited)
		}
		for _, c := range s.Path {
			insert(s.Agent, c, KindPath)
		}
	}
	return &Index{tree: tree}
}

// Len returns the number of indexed cells.
func (ix *Index) Len() int {
	return ix.tree.Size()
}

// InView returns the cells intersecting the world rectangle [lo, hi],
// ordered by agent, kind, then row-major coordinate. An empty or inverted
// rectangle yields nil.
func (ix *Index) InView(lo, hi mgl64.Vec2) []Cell {
	rect, err := rtreego.NewRect(
		rtreego.Point{lo.X(), lo.Y()},
		[]float64{hi.X() - lo.X(), hi.Y() - lo.Y()},
	)
	if err != nil {
		return nil
	}

	results := ix.tree.SearchIntersect(rect)
	cells := make([]Cell, 0, len(results))
	for _, item := range results {
		cells = append(cells, item.(*cellEntry).cell)
	}
	slices.SortFunc(cells, func(a, b Cell) int {
		if c := cmp.Compare(a.Agent, b.Agent); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		if a.Coord.Less(b.Coord) {
			return -1
		}
		if b.Coord.Less(a.Coord) {
			return 1
		}
		return 0
	})
	return cells
}

// Viewport is a world X/Z rectangle.
type Viewport struct {
	Min, Max mgl64.Vec2
}

// Valid reports whether the viewport has a positive area.
func (v Viewport) Valid() bool {
	return v.Max.X() > v.Min.X() && v.Max.Y() > v.Min.Y()
}

type cellKey struct {
	agent movement.AgentID
	kind  Kind
	coord navgrid.Coord
}

// Cull returns copies of snaps keeping only the visited and path cells
// inside view. Waypoints are kept whole so the line stays continuous.
func Cull(g *navgrid.Grid, view Viewport, snaps ...nav.Snapshot) []nav.Snapshot {
	keep := make(map[cellKey]struct{})
	for _, c := range NewIndex(g, snaps...).InView(view.Min, view.Max) {
		keep[cellKey{c.Agent, c.Kind, c.Coord}] = struct{}{}
	}

	filter := func(agent movement.AgentID, kind Kind, cells []navgrid.Coord) []navgrid.Coord {
		var out []navgrid.Coord
		for _, c := range cells {
			if _, ok := keep[cellKey{agent, kind, c}]; ok {
				out = append(out, c)
			}
		}
		return out
	}

	out := make([]nav.Snapshot, len(snaps))
	for i, s := range snaps {
		s.Visited = filter(s.Agent, KindVisited, s.Visited)
		s.Path = filter(s.Agent, KindPath, s.Path)
		out[i] = s
	}
	return out
}
