package blocky

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Side indexes the six faces of the unit cube. The numeric order is part
// of the contract with the mesher: neighbor lookups during face culling
// assume side s faces side s^1 of the adjacent block.
type Side int

const (
	SideNegativeX Side = iota // left
	SidePositiveX             // right
	SideNegativeY             // bottom
	SidePositiveY             // top
	SideNegativeZ             // back
	SidePositiveZ             // front
	SideCount
)

var sideNames = [SideCount]string{"left", "right", "bottom", "top", "back", "front"}

func (s Side) String() string {
	if s < 0 || s >= SideCount {
		return "invalid"
	}
	return sideNames[s]
}

// SideFromName resolves an author-facing side name. Returns SideCount
// for unknown names.
func SideFromName(name string) Side {
	for s, n := range sideNames {
		if n == name {
			return Side(s)
		}
	}
	return SideCount
}

// Opposite returns the side facing s on a neighboring block.
func (s Side) Opposite() Side {
	return s ^ 1
}

// Corner positions of the unit cube. Corner i has coordinates
// (i&1, i>>1&1, i>>2&1).
var CornerPositions = [8]mgl32.Vec3{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
	{1, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{0, 1, 1},
	{1, 1, 1},
}

// SideCorners lists the four corners of each side, counter-clockwise as
// seen from outside the cube, starting at the texture's bottom-left.
// The mesher emits quads in this exact order; changing it inverts
// normals on culled seams.
var SideCorners = [SideCount][4]int{
	SideNegativeX: {0, 4, 6, 2},
	SidePositiveX: {5, 1, 3, 7},
	SideNegativeY: {0, 1, 5, 4},
	SidePositiveY: {6, 7, 3, 2},
	SideNegativeZ: {1, 0, 2, 3},
	SidePositiveZ: {4, 5, 7, 6},
}

// SideQuadTriangles triangulates the side quad, indexing into SideCorners
// order. Both triangles keep the counter-clockwise winding.
var SideQuadTriangles = [SideCount][6]int{
	SideNegativeX: {0, 1, 2, 0, 2, 3},
	SidePositiveX: {0, 1, 2, 0, 2, 3},
	SideNegativeY: {0, 1, 2, 0, 2, 3},
	SidePositiveY: {0, 1, 2, 0, 2, 3},
	SideNegativeZ: {0, 1, 2, 0, 2, 3},
	SidePositiveZ: {0, 1, 2, 0, 2, 3},
}

// SideNormals holds the outward analytic normal of each side. Face
// buckets do not store per-vertex normals, the mesher reads these.
var SideNormals = [SideCount]mgl32.Vec3{
	SideNegativeX: {-1, 0, 0},
	SidePositiveX: {1, 0, 0},
	SideNegativeY: {0, -1, 0},
	SidePositiveY: {0, 1, 0},
	SideNegativeZ: {0, 0, -1},
	SidePositiveZ: {0, 0, 1},
}

// SideTangents holds the constant tangent frame of each axis-aligned
// side: xyz points along increasing U of the side's tile, w is the
// handedness sign. With v-down texture coordinates the bitangent is
// w * cross(normal, tangent), which makes w -1 on every side.
var SideTangents = [SideCount][4]float32{
	SideNegativeX: {0, 0, 1, -1},
	SidePositiveX: {0, 0, -1, -1},
	SideNegativeY: {1, 0, 0, -1},
	SidePositiveY: {1, 0, 0, -1},
	SideNegativeZ: {-1, 0, 0, -1},
	SidePositiveZ: {1, 0, 0, -1},
}
