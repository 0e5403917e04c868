package pathfind

import (
	"container/heap"
	"math"

	"github.com/udisondev/lanenav/internal/navgrid"
)

// Grid is the view of a navigation grid the planner needs.
// *navgrid.Grid satisfies it.
type Grid interface {
	IsWalkable(x, z int) bool
	EntryCost(x, z int) float64
	CellSize() float64
}

// Options tune a single A* search.
type Options struct {
	// MaxExpansions caps the number of expanded cells; 0 means unbounded.
	MaxExpansions int
}

// Result of a grid search. Path runs from source to target inclusive and
// is empty when no route exists. Visited lists every expanded cell in
// expansion order; it is diagnostic only.
type Result struct {
	Path      []navgrid.Coord
	Visited   []navgrid.Coord
	Truncated bool // MaxExpansions was reached
}

// Found reports whether a path was produced.
func (r Result) Found() bool {
	return len(r.Path) > 0
}

// neighbour offsets: cardinals first so diagonal bridges are known.
var (
	cardinals = [4]navgrid.Coord{{X: 0, Z: -1}, {X: 1, Z: 0}, {X: 0, Z: 1}, {X: -1, Z: 0}}
	diagonals = [4]struct {
		d          navgrid.Coord
		adj1, adj2 int // bridging cardinal indices
	}{
		{navgrid.Coord{X: 1, Z: -1}, 0, 1},
		{navgrid.Coord{X: 1, Z: 1}, 1, 2},
		{navgrid.Coord{X: -1, Z: 1}, 2, 3},
		{navgrid.Coord{X: -1, Z: -1}, 3, 0},
	}
)

// FindPath computes a minimum-cost 8-connected path from s to t.
//
// Straight steps cost one cell size, diagonal steps sqrt(2) cell sizes,
// plus the entry cost of the destination cell. A diagonal step is only
// taken when both orthogonal bridging cells are walkable. An unreachable
// target, or an unwalkable s or t, yields an empty path and no error.
func FindPath(g Grid, s, t navgrid.Coord, opts Options) Result {
	if !g.IsWalkable(s.X, s.Z) || !g.IsWalkable(t.X, t.Z) {
		return Result{}
	}
	if s == t {
		return Result{Path: []navgrid.Coord{s}, Visited: []navgrid.Coord{s}}
	}

	cellSize := g.CellSize()
	straight := cellSize
	diagonal := math.Sqrt2 * cellSize

	nodes := make(map[navgrid.Coord]*searchNode, 256)
	open := &nodeHeap{}
	var seq uint64

	push := func(n *searchNode) {
		seq++
		heap.Push(open, heapEntry{node: n, f: n.g + n.h, h: n.h, seq: seq, g: n.g})
	}

	start := &searchNode{cell: s, h: navgrid.Octile(s, t) * cellSize}
	nodes[s] = start
	push(start)

	var res Result
	for open.Len() > 0 {
		e := heap.Pop(open).(heapEntry)
		cur := e.node
		if cur.closed || e.g > cur.g {
			continue // stale entry
		}
		cur.closed = true
		res.Visited = append(res.Visited, cur.cell)

		if cur.cell == t {
			res.Path = reconstruct(cur)
			return res
		}
		if opts.MaxExpansions > 0 && len(res.Visited) >= opts.MaxExpansions {
			res.Truncated = true
			return res
		}

		var open4 [4]bool
		for i, d := range cardinals {
			n := cur.cell.Add(d.X, d.Z)
			if !g.IsWalkable(n.X, n.Z) {
				continue
			}
			open4[i] = true
			relax(g, nodes, cur, n, straight, t, cellSize, push)
		}
		for _, d := range diagonals {
			if !open4[d.adj1] || !open4[d.adj2] {
				continue
			}
			n := cur.cell.Add(d.d.X, d.d.Z)
			if !g.IsWalkable(n.X, n.Z) {
				continue
			}
			relax(g, nodes, cur, n, diagonal, t, cellSize, push)
		}
	}

	return res
}

func relax(
	g Grid,
	nodes map[navgrid.Coord]*searchNode,
	cur *searchNode,
	cell navgrid.Coord,
	step float64,
	t navgrid.Coord,
	cellSize float64,
	push func(*searchNode),
) {
	cost := cur.g + step + g.EntryCost(cell.X, cell.Z)
	n, ok := nodes[cell]
	if !ok {
		n = &searchNode{cell: cell, h: navgrid.Octile(cell, t) * cellSize, g: math.Inf(1)}
		nodes[cell] = n
	}
	if n.closed || cost >= n.g {
		return
	}
	n.g = cost
	n.parent = cur
	push(n)
}

func reconstruct(n *searchNode) []navgrid.Coord {
	var path []navgrid.Coord
	for ; n != nil; n = n.parent {
		path = append(path, n.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost returns the step cost of a cell path in world units, ignoring
// entry costs.
func PathCost(path []navgrid.Coord, cellSize float64) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		if navgrid.IsDiagonal(path[i-1], path[i]) {
			total += math.Sqrt2 * cellSize
		} else {
			total += cellSize
		}
	}
	return total
}

// searchNode is the per-cell A* record. g is the best known cost.
type searchNode struct {
	cell   navgrid.Coord
	parent *searchNode
	g, h   float64
	closed bool
}

// heapEntry snapshots a node's priority at push time; entries whose g no
// longer matches the node are skipped on pop (lazy deletion).
type heapEntry struct {
	node *searchNode
	f, h float64
	g    float64
	seq  uint64
}

// nodeHeap orders by f, then lower h (goal bias), then insertion order.
type nodeHeap []heapEntry

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].h != h[j].h {
		return h[i].h < h[j].h
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(heapEntry)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = heapEntry{}
	*h = old[:n-1]
	return e
}
