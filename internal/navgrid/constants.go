package navgrid

import "math"

// Binary format versions.
const (
	SupportedMajorVersion byte = 5
	DefaultMinorVersion   byte = 3
)

// Fixed section sizes of the grid binary.
const (
	headerSize     = 2 + 3*4 + 3*4 + 4 + 4 + 4 // 38
	cellRecordSize = 24
	opaqueBlocks   = 8
	opaqueBlockLen = 132
	OpaqueSize     = opaqueBlocks * opaqueBlockLen // 1056
	HintCount      = 900
	HintMatrixSize = HintCount * HintCount

	// MaxDimension bounds x_len and z_len of a loadable grid.
	MaxDimension = 4096
)

// ImpassableCost is the overlay cost that makes a cell fail IsWalkable.
const ImpassableCost = math.MaxFloat64

// VisionFlag is the 16-bit vision/pathing bitmask stored per cell.
type VisionFlag uint16

const (
	VisionWalkable           VisionFlag = 0
	VisionBrush              VisionFlag = 1 << 0
	VisionWall               VisionFlag = 1 << 1
	VisionStructureWall      VisionFlag = 1 << 2
	VisionUnobservedOrder    VisionFlag = 1 << 3
	VisionUnobservedChaos    VisionFlag = 1 << 4
	VisionTransparentWall    VisionFlag = 1 << 6
	VisionAlwaysVisible      VisionFlag = 1 << 8
	VisionBlueTeamOnly       VisionFlag = 1 << 10
	VisionRedTeamOnly        VisionFlag = 1 << 11
	VisionNeutralZoneVisible VisionFlag = 1 << 12
)

// Has reports whether all bits of f are set.
func (v VisionFlag) Has(f VisionFlag) bool {
	return v&f == f
}

// RegionFlag is the classification byte stored per cell.
// The navigation core never interprets it.
type RegionFlag uint8

const (
	RegionNone      RegionFlag = 0
	RegionLaneTop   RegionFlag = 1 << 0
	RegionLaneMid   RegionFlag = 1 << 1
	RegionLaneBot   RegionFlag = 1 << 2
	RegionJungle    RegionFlag = 1 << 3
	RegionRiver     RegionFlag = 1 << 4
	RegionBaseBlue  RegionFlag = 1 << 5
	RegionBaseRed   RegionFlag = 1 << 6
	RegionRingInner RegionFlag = 1 << 7
)
