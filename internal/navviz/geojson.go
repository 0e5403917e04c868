// Package navviz renders navigation debug snapshots for inspection:
// GeoJSON export and viewport culling over the debug cells.
package navviz

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/udisondev/lanenav/internal/nav"
	"github.com/udisondev/lanenav/internal/navgrid"
)

// Kind tags a feature or an indexed cell.
type Kind string

const (
	KindVisited   Kind = "visited"
	KindPath      Kind = "path"
	KindWaypoints Kind = "waypoints"
)

// CellBound returns the world X/Z rectangle covered by c.
func CellBound(g *navgrid.Grid, c navgrid.Coord) orb.Bound {
	lo := g.CellSpaceToWorld(mgl64.Vec2{float64(c.X), float64(c.Z)})
	hi := g.CellSpaceToWorld(mgl64.Vec2{float64(c.X + 1), float64(c.Z + 1)})
	return orb.Bound{Min: orb.Point{lo.X(), lo.Y()}, Max: orb.Point{hi.X(), hi.Y()}}
}

// FeatureCollection renders snapshots as GeoJSON in world X/Z.
// Each visited and path cell becomes a polygon; the waypoints become a
// line string carrying its length.
func FeatureCollection(g *navgrid.Grid, snaps ...nav.Snapshot) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range snaps {
		for _, c := range s.Visited {
			fc.Append(cellFeature(g, s, c, KindVisited))
		}
		for _, c := range s.Path {
			fc.Append(cellFeature(g, s, c, KindPath))
		}
		if len(s.Waypoints) < 2 {
			continue
		}

		ls := make(orb.LineString, len(s.Waypoints))
		for i, w := range s.Waypoints {
			ls[i] = orb.Point{w.X(), w.Y()}
		}
		f := geojson.NewFeature(ls)
		f.Properties["kind"] = string(KindWaypoints)
		f.Properties["agent"] = s.Agent
		f.Properties["reachable"] = s.Reachable
		f.Properties["length"] = planar.Length(ls)
		fc.Append(f)
	}
	return fc
}

func cellFeature(g *navgrid.Grid, s nav.Snapshot, c navgrid.Coord, kind Kind) *geojson.Feature {
	f := geojson.NewFeature(CellBound(g, c).ToPolygon())
	f.Properties["kind"] = string(kind)
	f.Properties["agent"] = s.Agent
	f.Properties["x"] = c.X
	f.Properties["z"] = c.Z
	return f
}

// Write encodes the snapshots as a GeoJSON feature collection to w.
func Write(w io.Writer, g *navgrid.Grid, snaps ...nav.Snapshot) error {
	data, err := FeatureCollection(g, snaps...).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}
	return nil
}
