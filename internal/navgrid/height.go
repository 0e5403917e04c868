package navgrid

import "math"

// HeightSamples is the terrain height grid stored after the opaque block.
// Its resolution (XLen, ZLen) is independent of the cell grid.
type HeightSamples struct {
	XLen    int
	ZLen    int
	OffsetX float32 // world X of sample (0, 0)
	OffsetZ float32 // world Z of sample (0, 0)
	Values  []float32
}

// sampleIndex maps a world coordinate to a sample index along one axis.
// Floor, then clamp to [0, n-1].
func sampleIndex(w, offset, step float64, n int) int {
	if n <= 1 || step <= 0 || math.IsNaN(w) {
		return 0
	}
	i := math.Floor((w - offset) / step)
	if i < 0 {
		return 0
	}
	if i > float64(n-1) {
		return n - 1
	}
	return int(i)
}

// HeightAt returns the terrain height at world (wx, wz).
// Never panics: a grid without samples reports 0.
func (g *Grid) HeightAt(wx, wz float64) float64 {
	h := &g.heights
	if h.XLen <= 0 || h.ZLen <= 0 || len(h.Values) < h.XLen*h.ZLen {
		return 0
	}
	stepX := (g.maxPosition.X() - g.minPosition.X()) / float64(h.XLen)
	stepZ := (g.maxPosition.Z() - g.minPosition.Z()) / float64(h.ZLen)

	ix := sampleIndex(wx, float64(h.OffsetX), stepX, h.XLen)
	iz := sampleIndex(wz, float64(h.OffsetZ), stepZ, h.ZLen)
	return float64(h.Values[iz*h.XLen+ix])
}

// Heights returns the height sample grid.
func (g *Grid) Heights() HeightSamples {
	return g.heights
}
