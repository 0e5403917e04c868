package pathfind

import (
	"github.com/go-gl/mathgl/mgl64"
)

// WorldGrid is a Grid that can also convert world positions to cell space.
type WorldGrid interface {
	Grid
	WorldToCellSpace(p mgl64.Vec2) mgl64.Vec2
	CellSpaceToWorld(p mgl64.Vec2) mgl64.Vec2
}

// HasLineOfSightCells reports whether every cell touched by the
// cell-space segment a→b is walkable. A step through a cell corner also
// requires both bridging cells to be walkable, matching the A* rule.
func HasLineOfSightCells(g Grid, a, b mgl64.Vec2) bool {
	it := NewCellTraversal(a, b)
	for it.Next() {
		c := it.Cell()
		if !g.IsWalkable(c.X, c.Z) {
			return false
		}
		if it.Diagonal() {
			b1, b2 := it.Bridges()
			if !g.IsWalkable(b1.X, b1.Z) || !g.IsWalkable(b2.X, b2.Z) {
				return false
			}
		}
	}
	if end := it.End(); it.Cell() != end {
		return g.IsWalkable(end.X, end.Z)
	}
	return true
}

// HasLineOfSight is HasLineOfSightCells for world-space points.
func HasLineOfSight(g WorldGrid, a, b mgl64.Vec2) bool {
	return HasLineOfSightCells(g, g.WorldToCellSpace(a), g.WorldToCellSpace(b))
}
