package pathfind

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SplitCorners inserts a cell-space point at every integer grid crossing
// of each axis-aligned segment. Order is preserved and no point is removed.
func SplitCorners(points []mgl64.Vec2) []mgl64.Vec2 {
	if len(points) < 2 {
		return append([]mgl64.Vec2(nil), points...)
	}

	out := make([]mgl64.Vec2, 0, len(points))
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		out = append(out, a)

		switch {
		case a == b:
		case a.X() == b.X():
			for _, z := range crossings(a.Y(), b.Y()) {
				out = append(out, mgl64.Vec2{a.X(), z})
			}
		case a.Y() == b.Y():
			for _, x := range crossings(a.X(), b.X()) {
				out = append(out, mgl64.Vec2{x, a.Y()})
			}
		}
	}
	return append(out, points[len(points)-1])
}

// crossings lists the integers strictly between from and to, ordered from
// from towards to.
func crossings(from, to float64) []float64 {
	var out []float64
	if from < to {
		for k := math.Floor(from) + 1; k < to; k++ {
			out = append(out, k)
		}
		return out
	}
	for k := math.Ceil(from) - 1; k > to; k-- {
		out = append(out, k)
	}
	return out
}
