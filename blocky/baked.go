package blocky

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelforge/voxelforge/utils"
)

// BakedSide holds the geometry of one cube side of a baked model. The
// mesher culls whole sides at once against the neighboring block, so a
// side bucket only contains vertices lying on that side's plane. Normals
// are implicit (SideNormals), tangents are optional and flat-packed 4
// floats per vertex. Indices are bucket-local.
type BakedSide struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []int
	Tangents  []float32
}

// BakedInterior holds geometry that does not lie flat on a single cube
// side and is therefore never culled by adjacency. Unlike sides it keeps
// per-vertex normals.
type BakedInterior struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []int
	Tangents  []float32
}

// BakedData is the renderer-ready result of baking one model. It is a
// pure derived artifact: it holds no reference back to the Model and is
// fully overwritten by each bake.
type BakedData struct {
	Sides    [SideCount]BakedSide
	Interior BakedInterior

	MaterialID        int
	TransparencyIndex int
	Color             utils.ColorFloat
	Empty             bool
}

func (d *BakedData) Clear() {
	for s := range d.Sides {
		d.Sides[s] = BakedSide{}
	}
	d.Interior = BakedInterior{}
	d.MaterialID = 0
	d.TransparencyIndex = 0
	d.Color = utils.ColorFloat{}
	d.Empty = true
}

func (d *BakedData) IsEmpty() bool { return d.Empty }

// VertexCount sums vertices over all side buckets and the interior.
func (d *BakedData) VertexCount() int {
	n := len(d.Interior.Positions)
	for s := range d.Sides {
		n += len(d.Sides[s].Positions)
	}
	return n
}

// TriangleCount sums triangles over all side buckets and the interior.
func (d *BakedData) TriangleCount() int {
	n := len(d.Interior.Indices)
	for s := range d.Sides {
		n += len(d.Sides[s].Indices)
	}
	return n / 3
}
