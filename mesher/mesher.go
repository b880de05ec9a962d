// Package mesher turns a grid of block ids plus a baked model palette
// into renderable geometry, culling the cube sides hidden between
// neighboring blocks.
package mesher

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelforge/voxelforge/blocky"
)

// Chunk is a dense grid of block ids. Id 0 is conventionally the empty
// model. Lookups outside the grid return 0, so chunk borders mesh as if
// facing air.
type Chunk struct {
	SizeX, SizeY, SizeZ int
	voxels              []uint16
}

func NewChunk(sx, sy, sz int) *Chunk {
	return &Chunk{
		SizeX:  sx,
		SizeY:  sy,
		SizeZ:  sz,
		voxels: make([]uint16, sx*sy*sz),
	}
}

func (c *Chunk) index(x, y, z int) int {
	return x + c.SizeX*(y+c.SizeY*z)
}

func (c *Chunk) At(x, y, z int) uint16 {
	if x < 0 || y < 0 || z < 0 || x >= c.SizeX || y >= c.SizeY || z >= c.SizeZ {
		return 0
	}
	return c.voxels[c.index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int, id uint16) {
	c.voxels[c.index(x, y, z)] = id
}

// Fill sets a box of voxels, boundaries inclusive-exclusive.
func (c *Chunk) Fill(x0, y0, z0, x1, y1, z1 int, id uint16) {
	for z := z0; z < z1; z++ {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				c.Set(x, y, z, id)
			}
		}
	}
}

// Surface accumulates the geometry of one material.
type Surface struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Colors    [][4]uint8
	Tangents  []float32
	Indices   []int
}

func (s *Surface) IsEmpty() bool { return len(s.Indices) == 0 }

// Output is one meshed chunk, one surface per material id.
type Output struct {
	Surfaces [blocky.MaxMaterials]Surface
}

func (o *Output) IsEmpty() bool {
	for i := range o.Surfaces {
		if !o.Surfaces[i].IsEmpty() {
			return false
		}
	}
	return true
}

// sideOffsets maps a side to the neighbor cell direction, matching the
// blocky side order.
var sideOffsets = [blocky.SideCount][3]int{
	blocky.SideNegativeX: {-1, 0, 0},
	blocky.SidePositiveX: {1, 0, 0},
	blocky.SideNegativeY: {0, -1, 0},
	blocky.SidePositiveY: {0, 1, 0},
	blocky.SideNegativeZ: {0, 0, -1},
	blocky.SidePositiveZ: {0, 0, 1},
}

// isSideVisible decides adjacency culling from transparency indices: a
// side survives against an empty neighbor or one that is more
// transparent than the model itself. Equal indices merge into one body
// with no internal faces.
func isSideVisible(model, other *blocky.BakedData) bool {
	if other.Empty {
		return true
	}
	return other.TransparencyIndex > model.TransparencyIndex
}

// MeshChunk walks the chunk and emits the visible geometry of every
// voxel into per-material surfaces. The palette is indexed by block id;
// ids outside the palette are reported once and skipped.
func MeshChunk(palette []blocky.BakedData, c *Chunk) *Output {
	out := &Output{}
	badIDs := map[uint16]bool{}

	for z := 0; z < c.SizeZ; z++ {
		for y := 0; y < c.SizeY; y++ {
			for x := 0; x < c.SizeX; x++ {
				id := c.At(x, y, z)
				if int(id) >= len(palette) {
					if !badIDs[id] {
						badIDs[id] = true
						log.Printf("[mesher] block id %d outside palette of %d models", id, len(palette))
					}
					continue
				}
				baked := &palette[id]
				if baked.Empty {
					continue
				}

				surface := &out.Surfaces[baked.MaterialID]
				origin := mgl32.Vec3{float32(x), float32(y), float32(z)}

				for side := blocky.Side(0); side < blocky.SideCount; side++ {
					off := sideOffsets[side]
					otherID := c.At(x+off[0], y+off[1], z+off[2])
					var other *blocky.BakedData
					if int(otherID) < len(palette) {
						other = &palette[otherID]
					}
					if other != nil && !isSideVisible(baked, other) {
						continue
					}
					appendSide(surface, &baked.Sides[side], side, origin, baked.Color.Bytes())
				}

				appendInterior(surface, &baked.Interior, origin, baked.Color.Bytes())
			}
		}
	}

	return out
}

func appendSide(s *Surface, bucket *blocky.BakedSide, side blocky.Side, origin mgl32.Vec3, color [4]uint8) {
	base := len(s.Positions)
	normal := blocky.SideNormals[side]

	for _, p := range bucket.Positions {
		s.Positions = append(s.Positions, p.Add(origin))
		s.Normals = append(s.Normals, normal)
		s.Colors = append(s.Colors, color)
	}
	s.UVs = append(s.UVs, bucket.UVs...)
	s.Tangents = append(s.Tangents, bucket.Tangents...)
	for _, index := range bucket.Indices {
		s.Indices = append(s.Indices, base+index)
	}
}

func appendInterior(s *Surface, bucket *blocky.BakedInterior, origin mgl32.Vec3, color [4]uint8) {
	if len(bucket.Indices) == 0 {
		return
	}
	base := len(s.Positions)

	for i, p := range bucket.Positions {
		s.Positions = append(s.Positions, p.Add(origin))
		s.Normals = append(s.Normals, bucket.Normals[i])
		s.Colors = append(s.Colors, color)
	}
	s.UVs = append(s.UVs, bucket.UVs...)
	s.Tangents = append(s.Tangents, bucket.Tangents...)
	for _, index := range bucket.Indices {
		s.Indices = append(s.Indices, base+index)
	}
}
