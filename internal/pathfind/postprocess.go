package pathfind

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/lanenav/internal/navgrid"
)

// PostProcess turns an A* cell path into world-space waypoints: funnel
// smoothing, corner splitting, conversion to world space and the
// line-of-sight optimizer, in that order. The first and last waypoints are
// exactly start and end.
//
// When start or end do not fall inside the first or last path cell (the
// caller projected an unwalkable endpoint), smoothing runs from that cell's
// centre and the exact point is attached afterwards.
func PostProcess(g WorldGrid, path []navgrid.Coord, start, end mgl64.Vec2) []mgl64.Vec2 {
	if len(path) == 0 {
		return nil
	}
	if len(path) == 1 {
		return []mgl64.Vec2{start, end}
	}

	cellStart := g.WorldToCellSpace(start)
	cellEnd := g.WorldToCellSpace(end)
	first, last := path[0], path[len(path)-1]

	points := make([]mgl64.Vec2, len(path))
	for i, c := range path {
		points[i] = navgrid.CellCentreCellSpace(c.X, c.Z)
	}
	detachedStart := cellOf(cellStart) != first
	detachedEnd := cellOf(cellEnd) != last
	if !detachedStart {
		points[0] = cellStart
	}
	if !detachedEnd {
		points[len(points)-1] = cellEnd
	}

	smoothed := SplitCorners(Smooth(points))

	waypoints := make([]mgl64.Vec2, 0, len(smoothed)+2)
	if detachedStart {
		waypoints = append(waypoints, start)
	}
	for _, p := range smoothed {
		waypoints = append(waypoints, g.CellSpaceToWorld(p))
	}
	if detachedEnd {
		waypoints = append(waypoints, end)
	}
	// Pin endpoints against round-off from the cell-space round trip.
	waypoints[0] = start
	waypoints[len(waypoints)-1] = end

	return OptimizeLineOfSight(g, dedupe(waypoints))
}

// dedupe drops consecutive duplicates, keeping the last point in place.
func dedupe(points []mgl64.Vec2) []mgl64.Vec2 {
	out := points[:0:0]
	for i, p := range points {
		if i > 0 && i < len(points)-1 && vequal(out[len(out)-1], p) {
			continue
		}
		if i == len(points)-1 && len(out) > 1 && vequal(out[len(out)-1], p) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
