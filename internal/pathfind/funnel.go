package pathfind

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/lanenav/internal/navgrid"
)

const (
	// PortalMargin shrinks orthogonal portals at both ends, in cells, so
	// funnel apexes never sit exactly on a wall corner.
	PortalMargin = 1e-3

	pointEpsilon = 1e-9
)

// Portal is the oriented edge (or corner) shared by two consecutive path
// cells. Left and Right are relative to the direction of travel.
type Portal struct {
	Left, Right mgl64.Vec2
}

// Smooth string-pulls a cell-space polyline: points[0] and points[len-1]
// are the exact start and end, interior points are the centres of the
// grid path cells. The result is the shortest polyline through the
// portals between consecutive cells, start first and end last.
func Smooth(points []mgl64.Vec2) []mgl64.Vec2 {
	if len(points) < 2 {
		return append([]mgl64.Vec2(nil), points...)
	}
	return StringPull(BuildPortals(points))
}

// BuildPortals converts a cell-space polyline into its portal sequence,
// bracketed by zero-width portals at the start and end points.
func BuildPortals(points []mgl64.Vec2) []Portal {
	if len(points) == 0 {
		return nil
	}
	start, end := points[0], points[len(points)-1]

	portals := make([]Portal, 0, len(points)+1)
	portals = append(portals, Portal{Left: start, Right: start})
	for i := 1; i < len(points); i++ {
		a, b := cellOf(points[i-1]), cellOf(points[i])
		if a == b {
			continue
		}
		portals = append(portals, transitionPortal(a, b))
	}
	return append(portals, Portal{Left: end, Right: end})
}

// transitionPortal returns the shared edge between orthogonal neighbours
// or the shared corner between diagonal neighbours.
func transitionPortal(a, b navgrid.Coord) Portal {
	dx := float64(sign(b.X - a.X))
	dz := float64(sign(b.Z - a.Z))
	mid := navgrid.CellCentreCellSpace(a.X, a.Z).Add(mgl64.Vec2{dx / 2, dz / 2})
	if dx != 0 && dz != 0 {
		return Portal{Left: mid, Right: mid}
	}
	// Counter-clockwise normal of the travel direction points left.
	n := mgl64.Vec2{-dz, dx}.Mul(0.5 - PortalMargin)
	return Portal{Left: mid.Add(n), Right: mid.Sub(n)}
}

// StringPull runs the funnel algorithm over portals. portals[0] must be the
// start point and the last portal the end point.
//
// When one tentacle crosses the other, the crossed tentacle's vertex
// becomes the new apex and the scan restarts from the portal that set it.
func StringPull(portals []Portal) []mgl64.Vec2 {
	if len(portals) == 0 {
		return nil
	}

	apex := portals[0].Left
	left, right := apex, apex
	apexIdx, leftIdx, rightIdx := 0, 0, 0
	path := []mgl64.Vec2{apex}

	for i := 1; i < len(portals); i++ {
		pl, pr := portals[i].Left, portals[i].Right

		if cross(apex, right, pr) >= 0 {
			if vequal(apex, right) || cross(apex, left, pr) < 0 {
				right, rightIdx = pr, i
			} else {
				path = appendPoint(path, left)
				apex, apexIdx = left, leftIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}

		if cross(apex, left, pl) <= 0 {
			if vequal(apex, left) || cross(apex, right, pl) > 0 {
				left, leftIdx = pl, i
			} else {
				path = appendPoint(path, right)
				apex, apexIdx = right, rightIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}
	}

	return appendPoint(path, portals[len(portals)-1].Left)
}

// cross is the z component of (a-o)×(b-o); positive when b is
// counter-clockwise of a as seen from o.
func cross(o, a, b mgl64.Vec2) float64 {
	ax, az := a.X()-o.X(), a.Y()-o.Y()
	bx, bz := b.X()-o.X(), b.Y()-o.Y()
	return ax*bz - az*bx
}

func vequal(a, b mgl64.Vec2) bool {
	d := a.Sub(b)
	return d.Dot(d) < pointEpsilon*pointEpsilon
}

func appendPoint(path []mgl64.Vec2, p mgl64.Vec2) []mgl64.Vec2 {
	if len(path) > 0 && vequal(path[len(path)-1], p) {
		return path
	}
	return append(path, p)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
