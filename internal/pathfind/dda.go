package pathfind

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/lanenav/internal/navgrid"
)

const (
	// CornerEpsilon is the tie tolerance, in cells, between the distances
	// to the next vertical and horizontal grid lines. Within it the
	// traversal steps diagonally through the corner.
	CornerEpsilon = 1e-6

	// endpointNudge moves the start/end probes inside the segment so that
	// points lying on a grid line resolve to the cell actually entered.
	endpointNudge = 1e-7
)

// CellTraversal walks the cells touched by a cell-space segment using an
// Amanatides-Woo DDA. Next returns the start cell first.
type CellTraversal struct {
	cur, end     navgrid.Coord
	stepX, stepZ int
	tMaxX, tMaxZ float64
	tDeltaX      float64
	tDeltaZ      float64
	length       float64
	remaining    int
	started      bool
	diagonal     bool
}

// NewCellTraversal prepares a traversal from a to b (cell-space points).
func NewCellTraversal(a, b mgl64.Vec2) *CellTraversal {
	dir := b.Sub(a)
	length := dir.Len()

	it := &CellTraversal{length: length}
	if length == 0 {
		c := cellOf(a)
		it.cur, it.end = c, c
		return it
	}
	unit := dir.Mul(1 / length)
	nudge := math.Min(endpointNudge, length/4)
	it.cur = cellOf(a.Add(unit.Mul(nudge)))
	it.end = cellOf(b.Sub(unit.Mul(nudge)))
	it.remaining = absInt(it.end.X-it.cur.X) + absInt(it.end.Z-it.cur.Z)

	// Parametric distances are measured from a, in units of the segment.
	it.stepX, it.tMaxX, it.tDeltaX = axisSetup(a.X(), dir.X(), it.cur.X)
	it.stepZ, it.tMaxZ, it.tDeltaZ = axisSetup(a.Y(), dir.Y(), it.cur.Z)
	return it
}

func axisSetup(origin, delta float64, cell int) (step int, tMax, tDelta float64) {
	switch {
	case delta > 0:
		return 1, (float64(cell+1) - origin) / delta, 1 / delta
	case delta < 0:
		return -1, (float64(cell) - origin) / delta, -1 / delta
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

// Next advances to the next touched cell. It returns false once the end
// cell has been reported.
func (it *CellTraversal) Next() bool {
	if !it.started {
		it.started = true
		return true
	}
	if it.cur == it.end || it.remaining <= 0 {
		return false
	}

	it.diagonal = false
	gap := (it.tMaxX - it.tMaxZ) * it.length
	switch {
	case math.Abs(gap) < CornerEpsilon && it.stepX != 0 && it.stepZ != 0:
		it.cur.X += it.stepX
		it.cur.Z += it.stepZ
		it.tMaxX += it.tDeltaX
		it.tMaxZ += it.tDeltaZ
		it.remaining -= 2
		it.diagonal = true
	case it.tMaxX < it.tMaxZ:
		it.cur.X += it.stepX
		it.tMaxX += it.tDeltaX
		it.remaining--
	default:
		it.cur.Z += it.stepZ
		it.tMaxZ += it.tDeltaZ
		it.remaining--
	}
	return true
}

// Cell returns the current cell.
func (it *CellTraversal) Cell() navgrid.Coord { return it.cur }

// End returns the cell the traversal terminates in.
func (it *CellTraversal) End() navgrid.Coord { return it.end }

// Diagonal reports whether the last step crossed a corner; the two
// bridging cells are then (cur.X-stepX, cur.Z) and (cur.X, cur.Z-stepZ).
func (it *CellTraversal) Diagonal() bool { return it.diagonal }

// Bridges returns the two orthogonal cells around the last diagonal step.
func (it *CellTraversal) Bridges() (navgrid.Coord, navgrid.Coord) {
	return navgrid.Coord{X: it.cur.X - it.stepX, Z: it.cur.Z},
		navgrid.Coord{X: it.cur.X, Z: it.cur.Z - it.stepZ}
}

func cellOf(p mgl64.Vec2) navgrid.Coord {
	return navgrid.Coord{X: int(math.Floor(p.X())), Z: int(math.Floor(p.Y()))}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
