package navgrid

import "math"

// Coord indexes a cell: X in [0, XLen), Z in [0, ZLen).
type Coord struct {
	X, Z int
}

// Add returns the coordinate offset by (dx, dz).
func (c Coord) Add(dx, dz int) Coord {
	return Coord{X: c.X + dx, Z: c.Z + dz}
}

// Less orders coordinates by Z, then X (row-major).
func (c Coord) Less(o Coord) bool {
	if c.Z != o.Z {
		return c.Z < o.Z
	}
	return c.X < o.X
}

// Octile returns the 8-connected distance between two cells in cell units.
func Octile(a, b Coord) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dz := math.Abs(float64(a.Z - b.Z))
	return max(dx, dz) + (math.Sqrt2-1)*min(dx, dz)
}

// IsDiagonal reports whether a and b differ on both axes.
func IsDiagonal(a, b Coord) bool {
	return a.X != b.X && a.Z != b.Z
}
