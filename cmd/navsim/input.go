package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/lanenav/internal/nav"
	"github.com/udisondev/lanenav/internal/navgrid"
	"github.com/udisondev/lanenav/internal/navviz"
)

var errBadPoint = errors.New("point must be x,z")

// parsePoint parses "x,z" into a world ground position.
func parsePoint(s string) (mgl64.Vec2, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return mgl64.Vec2{}, fmt.Errorf("%w: %q", errBadPoint, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return mgl64.Vec2{}, fmt.Errorf("%w: %q: %w", errBadPoint, s, err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(zs), 64)
	if err != nil {
		return mgl64.Vec2{}, fmt.Errorf("%w: %q: %w", errBadPoint, s, err)
	}
	return mgl64.Vec2{x, z}, nil
}

// readLayout reads an ASCII map, one row per line. Blank lines are
// skipped.
func readLayout(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layout %s: %w", path, err)
	}
	defer f.Close()

	var rows []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		row := strings.TrimSpace(sc.Text())
		if row == "" {
			continue
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading layout %s: %w", path, err)
	}
	return rows, nil
}

// loadGrid loads a grid binary, or builds one from an ASCII layout when
// layoutPath is set.
func loadGrid(gridPath, layoutPath string, cellSize float64) (*navgrid.Grid, error) {
	switch {
	case layoutPath != "":
		rows, err := readLayout(layoutPath)
		if err != nil {
			return nil, err
		}
		return navgrid.ParseLayout(rows, cellSize, mgl64.Vec3{})
	case gridPath != "":
		return navgrid.LoadFile(gridPath)
	default:
		return nil, errors.New("one of --grid or --layout is required")
	}
}

// parseViewport parses "x0,z0:x1,z1". An empty string means no crop.
func parseViewport(s string) (*navviz.Viewport, error) {
	if s == "" {
		return nil, nil
	}
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("%w: viewport must be x0,z0:x1,z1, got %q", errBadPoint, s)
	}
	minPt, err := parsePoint(lo)
	if err != nil {
		return nil, err
	}
	maxPt, err := parsePoint(hi)
	if err != nil {
		return nil, err
	}
	v := navviz.Viewport{Min: minPt, Max: maxPt}
	if !v.Valid() {
		return nil, fmt.Errorf("%w: empty viewport %q", errBadPoint, s)
	}
	return &v, nil
}

// writeGeoJSON writes snaps to path, cropped to view when set.
func writeGeoJSON(path string, g *navgrid.Grid, view *navviz.Viewport, snaps ...nav.Snapshot) error {
	if view != nil {
		snaps = navviz.Cull(g, *view, snaps...)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return navviz.Write(f, g, snaps...)
}
