package navgrid

import (
	"encoding/binary"
	"math"
)

// Cell is one fixed-size cell record of the grid binary plus the
// per-cell vision mask and classification byte.
//
// Only Vision (the Wall bit) and Weight reach the planner; the remaining
// fields are carried so a decoded grid re-encodes byte for byte.
type Cell struct {
	CenterHeight float32
	Session      uint32
	ArrivalCost  float32
	Open         bool
	Closed       bool
	Weight       float32 // precomputed additive heuristic weight
	HintX        int16
	HintZ        int16

	Vision VisionFlag
	Region RegionFlag
}

// IsWall reports whether the cell carries the Wall bit.
func (c *Cell) IsWall() bool {
	return c.Vision.Has(VisionWall)
}

// decodeCell reads one cellRecordSize record.
// Layout: height f32, session u32, arrival f32, open u8, closed u8,
// pad u16, weight f32, hintX i16, hintZ i16.
func decodeCell(b []byte) Cell {
	le := binary.LittleEndian
	return Cell{
		CenterHeight: math.Float32frombits(le.Uint32(b[0:])),
		Session:      le.Uint32(b[4:]),
		ArrivalCost:  math.Float32frombits(le.Uint32(b[8:])),
		Open:         b[12] != 0,
		Closed:       b[13] != 0,
		Weight:       math.Float32frombits(le.Uint32(b[16:])),
		HintX:        int16(le.Uint16(b[20:])),
		HintZ:        int16(le.Uint16(b[22:])),
	}
}

func encodeCell(b []byte, c *Cell) {
	le := binary.LittleEndian
	le.PutUint32(b[0:], math.Float32bits(c.CenterHeight))
	le.PutUint32(b[4:], c.Session)
	le.PutUint32(b[8:], math.Float32bits(c.ArrivalCost))
	b[12] = boolByte(c.Open)
	b[13] = boolByte(c.Closed)
	b[14], b[15] = 0, 0
	le.PutUint32(b[16:], math.Float32bits(c.Weight))
	le.PutUint16(b[20:], uint16(c.HintX))
	le.PutUint16(b[22:], uint16(c.HintZ))
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
