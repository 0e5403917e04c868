package navgrid

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Grid is an immutable 2D navigation grid.
// Cells are addressed row-major by Z then X. Walkability of a cell never
// changes for the life of a Grid; only the attached CostOverlay is mutable.
//
// World positions on the ground plane are mgl64.Vec2{wx, wz}.
type Grid struct {
	major, minor byte

	minPosition mgl64.Vec3
	maxPosition mgl64.Vec3
	cellSize    float64
	xLen, zLen  int

	cells   []Cell
	heights HeightSamples
	overlay *CostOverlay

	// Passthrough sections, never interpreted.
	opaque     []byte
	hintMatrix []float32
	hintCoords []uint16
}

// Params describes the header of a grid built in memory.
type Params struct {
	MinPosition mgl64.Vec3
	MaxPosition mgl64.Vec3 // zero value means MinPosition + len*CellSize
	CellSize    float64
	XLen        int
	ZLen        int
}

// New builds a grid from header parameters and a row-major cell slice.
// A nil cells slice creates an all-walkable grid.
func New(p Params, cells []Cell) (*Grid, error) {
	if p.CellSize <= 0 || math.IsNaN(p.CellSize) || math.IsInf(p.CellSize, 0) {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidDimensions, p.CellSize)
	}
	if p.XLen <= 0 || p.ZLen <= 0 || p.XLen > MaxDimension || p.ZLen > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, p.XLen, p.ZLen)
	}
	n := p.XLen * p.ZLen
	if cells == nil {
		cells = make([]Cell, n)
	}
	if len(cells) != n {
		return nil, fmt.Errorf("%w: %d cells for %dx%d grid", ErrInvalidDimensions, len(cells), p.XLen, p.ZLen)
	}

	maxPos := p.MaxPosition
	if maxPos == (mgl64.Vec3{}) {
		maxPos = mgl64.Vec3{
			p.MinPosition.X() + float64(p.XLen)*p.CellSize,
			p.MinPosition.Y(),
			p.MinPosition.Z() + float64(p.ZLen)*p.CellSize,
		}
	}

	return &Grid{
		major:       SupportedMajorVersion,
		minor:       DefaultMinorVersion,
		minPosition: p.MinPosition,
		maxPosition: maxPos,
		cellSize:    p.CellSize,
		xLen:        p.XLen,
		zLen:        p.ZLen,
		cells:       cells,
		overlay:     NewCostOverlay(),
		opaque:      make([]byte, OpaqueSize),
	}, nil
}

// SetHeights replaces the terrain height samples.
func (g *Grid) SetHeights(h HeightSamples) error {
	if h.XLen < 0 || h.ZLen < 0 || len(h.Values) != h.XLen*h.ZLen {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidDimensions, len(h.Values), h.XLen, h.ZLen)
	}
	g.heights = h
	return nil
}

// Version returns the major and minor format version.
func (g *Grid) Version() (major, minor byte) { return g.major, g.minor }

// MinPosition is the world-space corner of cell (0, 0).
func (g *Grid) MinPosition() mgl64.Vec3 { return g.minPosition }

// MaxPosition is the upper world bound from the header.
func (g *Grid) MaxPosition() mgl64.Vec3 { return g.maxPosition }

// CellSize returns the edge length of one cell in world units.
func (g *Grid) CellSize() float64 { return g.cellSize }

// XLen returns the number of columns.
func (g *Grid) XLen() int { return g.xLen }

// ZLen returns the number of rows.
func (g *Grid) ZLen() int { return g.zLen }

// Overlay returns the dynamic cost overlay attached to the grid.
func (g *Grid) Overlay() *CostOverlay { return g.overlay }

// SetOverlay attaches o, e.g. to keep dynamic costs across a reload.
// A nil o attaches a fresh empty overlay.
func (g *Grid) SetOverlay(o *CostOverlay) {
	if o == nil {
		o = NewCostOverlay()
	}
	g.overlay = o
}

// InBounds reports whether (x, z) addresses a cell.
func (g *Grid) InBounds(x, z int) bool {
	return x >= 0 && x < g.xLen && z >= 0 && z < g.zLen
}

func (g *Grid) index(x, z int) int {
	return z*g.xLen + x
}

// Cell returns a copy of the cell at (x, z).
func (g *Grid) Cell(x, z int) (Cell, bool) {
	if !g.InBounds(x, z) {
		return Cell{}, false
	}
	return g.cells[g.index(x, z)], true
}

// IsWalkable reports whether ground units may enter (x, z).
// Out-of-range cells are never walkable.
func (g *Grid) IsWalkable(x, z int) bool {
	if !g.InBounds(x, z) {
		return false
	}
	if g.cells[g.index(x, z)].IsWall() {
		return false
	}
	c := Coord{X: x, Z: z}
	return g.overlay.IsExcluded(c) || g.overlay.Cost(c) < ImpassableCost
}

// EntryCost is the additive cost of stepping into (x, z): the cell's
// precomputed weight plus its dynamic overlay cost. Excluded cells cost 0.
func (g *Grid) EntryCost(x, z int) float64 {
	if !g.InBounds(x, z) {
		return ImpassableCost
	}
	c := Coord{X: x, Z: z}
	if g.overlay.IsExcluded(c) {
		return 0
	}
	w := float64(g.cells[g.index(x, z)].Weight)
	if w < 0 || math.IsNaN(w) {
		w = 0
	}
	return w + g.overlay.Cost(c)
}

// WorldToCell floors a world position into a cell coordinate.
// The result is not clamped; use ClampCell.
func (g *Grid) WorldToCell(wx, wz float64) Coord {
	return Coord{
		X: int(math.Floor((wx - g.minPosition.X()) / g.cellSize)),
		Z: int(math.Floor((wz - g.minPosition.Z()) / g.cellSize)),
	}
}

// ClampCell clamps c into the valid index range.
func (g *Grid) ClampCell(c Coord) Coord {
	return Coord{
		X: max(0, min(c.X, g.xLen-1)),
		Z: max(0, min(c.Z, g.zLen-1)),
	}
}

// ClampWorld clamps a world position to the grid bounds.
func (g *Grid) ClampWorld(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		max(g.minPosition.X(), min(p.X(), g.maxPosition.X())),
		max(g.minPosition.Z(), min(p.Y(), g.maxPosition.Z())),
	}
}

// CellCentreWorld returns the world centre of (x, z) with Y from the
// height sampler.
func (g *Grid) CellCentreWorld(x, z int) mgl64.Vec3 {
	wx := g.minPosition.X() + (float64(x)+0.5)*g.cellSize
	wz := g.minPosition.Z() + (float64(z)+0.5)*g.cellSize
	return mgl64.Vec3{wx, g.HeightAt(wx, wz), wz}
}

// CellCentreCellSpace returns (x + 0.5, z + 0.5).
func CellCentreCellSpace(x, z int) mgl64.Vec2 {
	return mgl64.Vec2{float64(x) + 0.5, float64(z) + 0.5}
}

// WorldToCellSpace converts a world position to continuous cell units.
func (g *Grid) WorldToCellSpace(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		(p.X() - g.minPosition.X()) / g.cellSize,
		(p.Y() - g.minPosition.Z()) / g.cellSize,
	}
}

// CellSpaceToWorld converts continuous cell units to a world position.
func (g *Grid) CellSpaceToWorld(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		g.minPosition.X() + p.X()*g.cellSize,
		g.minPosition.Z() + p.Y()*g.cellSize,
	}
}

// NearestWalkable returns the walkable cell closest to c within radius
// cells (Chebyshev rings). Ties are broken by squared distance, then by
// row-major order. c itself is returned when walkable.
func (g *Grid) NearestWalkable(c Coord, radius int) (Coord, bool) {
	if g.IsWalkable(c.X, c.Z) {
		return c, true
	}
	for r := 1; r <= radius; r++ {
		best := Coord{}
		bestDist := math.MaxInt
		found := false
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dz)) != r {
					continue
				}
				n := c.Add(dx, dz)
				if !g.IsWalkable(n.X, n.Z) {
					continue
				}
				d := dx*dx + dz*dz
				if d < bestDist || (d == bestDist && n.Less(best)) {
					best, bestDist, found = n, d, true
				}
			}
		}
		if found {
			return best, true
		}
	}
	return Coord{}, false
}

// Walls returns every cell carrying the Wall bit in row-major order.
func (g *Grid) Walls() []Coord {
	var walls []Coord
	for z := range g.zLen {
		for x := range g.xLen {
			if g.cells[g.index(x, z)].IsWall() {
				walls = append(walls, Coord{X: x, Z: z})
			}
		}
	}
	return walls
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
