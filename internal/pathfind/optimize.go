package pathfind

import (
	"github.com/go-gl/mathgl/mgl64"
)

// OptimizeLineOfSight greedily replaces runs of world-space waypoints by
// the farthest waypoint visible from the current one. Passes repeat until
// one removes nothing, so the result is a fixed point of the optimizer.
func OptimizeLineOfSight(g WorldGrid, points []mgl64.Vec2) []mgl64.Vec2 {
	out := append([]mgl64.Vec2(nil), points...)
	for len(out) > 2 {
		next := losPass(g, out)
		if len(next) == len(out) {
			break
		}
		out = next
	}
	return out
}

// losPass is one greedy pass. From each kept point the scan starts two
// ahead and stops at the first blocked segment.
func losPass(g WorldGrid, points []mgl64.Vec2) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, 0, len(points))
	out = append(out, points[0])

	cur := 0
	for cur < len(points)-1 {
		next := cur + 1
		for ahead := cur + 2; ahead < len(points); ahead++ {
			if !HasLineOfSight(g, points[cur], points[ahead]) {
				break
			}
			next = ahead
		}
		out = append(out, points[next])
		cur = next
	}
	return out
}
