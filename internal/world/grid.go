package world

import "math"

// Grid constants. The map is a square split into RegionSize×RegionSize cells.
const (
	// RegionSize is the edge length of a region in world units.
	RegionSize = 256.0

	// World boundaries (world units, horizontal plane)
	WorldXMin = -16384.0
	WorldYMin = -16384.0
	WorldXMax = 16384.0
	WorldYMax = 16384.0

	// Grid size (regions count)
	// RegionsX = (WorldXMax - WorldXMin) / RegionSize = 32768 / 256 = 128
	RegionsX = 128
	RegionsY = 128
)

// CoordToRegionIndex converts a world coordinate to a region index.
// Formula: floor((coord - min) / RegionSize)
func CoordToRegionIndex(x, y float64) (rx, ry int32) {
	rx = int32(math.Floor((x - WorldXMin) / RegionSize))
	ry = int32(math.Floor((y - WorldYMin) / RegionSize))
	return rx, ry
}

// IsValidRegionIndex checks if region index is within valid bounds
func IsValidRegionIndex(rx, ry int32) bool {
	return rx >= 0 && rx < RegionsX && ry >= 0 && ry < RegionsY
}

// RegionIndexToCoord converts region index to world coordinate (center of region)
func RegionIndexToCoord(rx, ry int32) (x, y float64) {
	x = WorldXMin + float64(rx)*RegionSize + RegionSize/2
	y = WorldYMin + float64(ry)*RegionSize + RegionSize/2
	return x, y
}
