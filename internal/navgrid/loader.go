package navgrid

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// maxHeightSamples bounds the height grid allocation of a single file.
const maxHeightSamples = MaxDimension * MaxDimension

// LoadFile reads and decodes a grid binary from disk.
func LoadFile(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grid %s: %w", path, err)
	}
	g, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing grid %s: %w", path, err)
	}
	slog.Info("navigation grid loaded",
		"file", path,
		"x_len", g.xLen,
		"z_len", g.zLen,
		"cell_size", g.cellSize)
	return g, nil
}

// Load decodes a grid binary from r.
func Load(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading grid: %w", err)
	}
	return Decode(data)
}

type decoder struct {
	data    []byte
	off     int
	section string
}

func (d *decoder) fail(err error) error {
	return &DecodeError{Section: d.section, Offset: d.off, Err: err}
}

func (d *decoder) need(n int) error {
	if n < 0 || len(d.data)-d.off < n {
		return d.fail(fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, len(d.data)-d.off))
	}
	return nil
}

func (d *decoder) u8() byte {
	v := d.data[d.off]
	d.off++
	return v
}

func (d *decoder) u16() uint16 {
	v := binary.LittleEndian.Uint16(d.data[d.off:])
	d.off += 2
	return v
}

func (d *decoder) u32() uint32 {
	v := binary.LittleEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v
}

func (d *decoder) f32() float32 {
	return math.Float32frombits(d.u32())
}

func (d *decoder) vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(d.f32()), float64(d.f32()), float64(d.f32())}
}

// Decode parses a little-endian grid binary.
// Header checks failing is fatal: no grid is constructed.
func Decode(data []byte) (*Grid, error) {
	d := &decoder{data: data, section: "header"}
	if err := d.need(headerSize); err != nil {
		return nil, err
	}

	g := &Grid{overlay: NewCostOverlay()}
	g.major = d.u8()
	g.minor = d.u8()
	if g.major != SupportedMajorVersion {
		d.off = 0
		return nil, d.fail(fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, g.major, g.minor))
	}
	g.minPosition = d.vec3()
	g.maxPosition = d.vec3()
	g.cellSize = float64(d.f32())
	xLen, zLen := d.u32(), d.u32()

	if !(g.cellSize > 0) || math.IsInf(g.cellSize, 0) {
		return nil, d.fail(fmt.Errorf("%w: cell size %v", ErrInvalidHeader, g.cellSize))
	}
	if g.minPosition.X() > g.maxPosition.X() || g.minPosition.Z() > g.maxPosition.Z() {
		return nil, d.fail(fmt.Errorf("%w: min %v above max %v", ErrInvalidHeader, g.minPosition, g.maxPosition))
	}
	if xLen == 0 || zLen == 0 || xLen > MaxDimension || zLen > MaxDimension {
		return nil, d.fail(fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, xLen, zLen))
	}
	g.xLen, g.zLen = int(xLen), int(zLen)
	n := g.xLen * g.zLen

	d.section = "cells"
	if err := d.need(n * cellRecordSize); err != nil {
		return nil, err
	}
	g.cells = make([]Cell, n)
	for i := range g.cells {
		g.cells[i] = decodeCell(d.data[d.off : d.off+cellRecordSize])
		d.off += cellRecordSize
	}

	d.section = "vision masks"
	if err := d.need(n * 2); err != nil {
		return nil, err
	}
	for i := range g.cells {
		g.cells[i].Vision = VisionFlag(d.u16())
	}

	d.section = "region flags"
	if err := d.need(n); err != nil {
		return nil, err
	}
	for i := range g.cells {
		g.cells[i].Region = RegionFlag(d.u8())
	}

	d.section = "opaque"
	if err := d.need(OpaqueSize); err != nil {
		return nil, err
	}
	g.opaque = append([]byte(nil), d.data[d.off:d.off+OpaqueSize]...)
	d.off += OpaqueSize

	if err := decodeHeights(d, g); err != nil {
		return nil, err
	}

	d.section = "hint matrix"
	if err := d.need(HintMatrixSize*4 + HintCount*2); err != nil {
		return nil, err
	}
	g.hintMatrix = make([]float32, HintMatrixSize)
	for i := range g.hintMatrix {
		g.hintMatrix[i] = d.f32()
	}
	g.hintCoords = make([]uint16, HintCount)
	for i := range g.hintCoords {
		g.hintCoords[i] = d.u16()
	}

	if rest := len(d.data) - d.off; rest > 0 {
		slog.Debug("grid binary has trailing bytes", "bytes", rest)
	}
	return g, nil
}

func decodeHeights(d *decoder, g *Grid) error {
	d.section = "height samples"
	if err := d.need(16); err != nil {
		return err
	}
	hx, hz := d.u32(), d.u32()
	offX, offZ := d.f32(), d.f32()
	if uint64(hx)*uint64(hz) > maxHeightSamples {
		return d.fail(fmt.Errorf("%w: %dx%d height samples", ErrInvalidDimensions, hx, hz))
	}
	count := int(hx) * int(hz)
	if err := d.need(count * 4); err != nil {
		return err
	}
	values := make([]float32, count)
	for i := range values {
		values[i] = d.f32()
	}
	g.heights = HeightSamples{
		XLen:    int(hx),
		ZLen:    int(hz),
		OffsetX: offX,
		OffsetZ: offZ,
		Values:  values,
	}
	return nil
}

// Encode writes g in the binary layout Decode reads. Missing passthrough
// sections are written as zeros.
func Encode(w io.Writer, g *Grid) error {
	n := g.xLen * g.zLen
	size := headerSize + n*(cellRecordSize+2+1) + OpaqueSize +
		16 + len(g.heights.Values)*4 + HintMatrixSize*4 + HintCount*2
	buf := make([]byte, size)
	le := binary.LittleEndian
	off := 0

	putF32 := func(v float64) {
		le.PutUint32(buf[off:], math.Float32bits(float32(v)))
		off += 4
	}

	buf[0], buf[1] = g.major, g.minor
	off = 2
	for _, v := range []mgl64.Vec3{g.minPosition, g.maxPosition} {
		putF32(v.X())
		putF32(v.Y())
		putF32(v.Z())
	}
	putF32(g.cellSize)
	le.PutUint32(buf[off:], uint32(g.xLen))
	le.PutUint32(buf[off+4:], uint32(g.zLen))
	off += 8

	for i := range g.cells {
		encodeCell(buf[off:off+cellRecordSize], &g.cells[i])
		off += cellRecordSize
	}
	for i := range g.cells {
		le.PutUint16(buf[off:], uint16(g.cells[i].Vision))
		off += 2
	}
	for i := range g.cells {
		buf[off] = byte(g.cells[i].Region)
		off++
	}

	copy(buf[off:off+OpaqueSize], g.opaque)
	off += OpaqueSize

	le.PutUint32(buf[off:], uint32(g.heights.XLen))
	le.PutUint32(buf[off+4:], uint32(g.heights.ZLen))
	off += 8
	putF32(float64(g.heights.OffsetX))
	putF32(float64(g.heights.OffsetZ))
	for _, v := range g.heights.Values {
		putF32(float64(v))
	}

	for i := range HintMatrixSize {
		var v float32
		if i < len(g.hintMatrix) {
			v = g.hintMatrix[i]
		}
		le.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	for i := range HintCount {
		var v uint16
		if i < len(g.hintCoords) {
			v = g.hintCoords[i]
		}
		le.PutUint16(buf[off:], v)
		off += 2
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing grid: %w", err)
	}
	return nil
}
