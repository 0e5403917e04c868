package navgrid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidLayout is returned by ParseLayout for malformed ASCII maps.
var ErrInvalidLayout = errors.New("navgrid: invalid layout")

// Layout characters.
const (
	LayoutWalkable = '.'
	LayoutWall     = '#'
	LayoutBrush    = '"' // walkable, vision-blocking brush
	LayoutRiver    = '~' // walkable, river region
)

// ParseLayout builds a grid from ASCII rows. rows[0] is z = 0 and column i
// is x = i. All rows must have the same width.
func ParseLayout(rows []string, cellSize float64, minPosition mgl64.Vec3) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}
	width := len(rows[0])
	cells := make([]Cell, 0, width*len(rows))
	for z, row := range rows {
		row = strings.TrimRight(row, "\r")
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidLayout, z, len(row), width)
		}
		for x := range len(row) {
			var c Cell
			switch row[x] {
			case LayoutWalkable:
			case LayoutWall:
				c.Vision = VisionWall
			case LayoutBrush:
				c.Vision = VisionBrush
			case LayoutRiver:
				c.Region = RegionRiver
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d, %d)", ErrInvalidLayout, row[x], x, z)
			}
			cells = append(cells, c)
		}
	}

	g, err := New(Params{
		MinPosition: minPosition,
		CellSize:    cellSize,
		XLen:        width,
		ZLen:        len(rows),
	}, cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return g, nil
}

// MustParseLayout is ParseLayout for fixtures; it panics on error.
func MustParseLayout(rows ...string) *Grid {
	g, err := ParseLayout(rows, 1, mgl64.Vec3{})
	if err != nil {
		panic(err)
	}
	return g
}

// String renders the grid walkability in the layout alphabet, row 0 first.
func (g *Grid) String() string {
	var sb strings.Builder
	for z := range g.zLen {
		for x := range g.xLen {
			c := &g.cells[g.index(x, z)]
			switch {
			case c.IsWall():
				sb.WriteByte(LayoutWall)
			case c.Vision.Has(VisionBrush):
				sb.WriteByte(LayoutBrush)
			case c.Region&RegionRiver != 0:
				sb.WriteByte(LayoutRiver)
			default:
				sb.WriteByte(LayoutWalkable)
			}
		}
		if z < g.zLen-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
