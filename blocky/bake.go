package blocky

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/voxelforge/voxelforge/utils"
)

const (
	// sidePlaneTolerance is the distance within which a vertex counts as
	// lying on a cube side plane during triangle classification.
	sidePlaneTolerance = 0.001

	// tileUVInset keeps cube UVs away from tile borders so texture
	// filtering does not bleed neighboring atlas tiles in.
	tileUVInset = 0.001

	// cubeTopPadding lowers the top face of baked cubes below y=1 to
	// avoid z-fighting against models poking through the ceiling of
	// their cell.
	cubeTopPadding = 0.001
)

// Bake converts the model into renderer-ready buffers. The target is
// cleared first and fully overwritten. atlasSize is the number of tiles
// per atlas edge and only matters for cube geometry. The model's cached
// empty hint is refreshed from the result.
//
// A failed bake leaves the model empty and returns the reason; batch
// callers are expected to log it and keep going.
func (m *Model) Bake(baked *BakedData, atlasSize int, bakeTangents bool) error {
	baked.Clear()

	baked.TransparencyIndex = m.transparencyIndex
	baked.MaterialID = m.materialID
	baked.Color = m.color

	var err error
	switch m.geometry {
	case GeometryNone:
		baked.Empty = true
	case GeometryCube:
		err = bakeCubeGeometry(m, baked, atlasSize, bakeTangents)
	case GeometryCustomMesh:
		err = bakeMeshGeometry(m, baked, bakeTangents)
	default:
		// Only reachable through memory corruption or a missed case in
		// SetGeometryType, so shout but keep the process alive.
		log.Printf("[blocky] ERROR: model %q has unknown geometry type %d", m.name, m.geometry)
		baked.Empty = true
	}
	if err != nil {
		baked.Empty = true
	}

	m.empty = baked.Empty
	return err
}

func bakeCubeGeometry(m *Model, baked *BakedData, atlasSize int, bakeTangents bool) error {
	if atlasSize <= 0 {
		return errors.Errorf("Invalid atlas size %d", atlasSize)
	}

	for side := Side(0); side < SideCount; side++ {
		positions := make([]mgl32.Vec3, 4)
		for i := 0; i < 4; i++ {
			p := CornerPositions[SideCorners[side][i]]
			if p.Y() > 0.9 {
				p[1] = 1.0 - cubeTopPadding
			}
			positions[i] = p
		}
		baked.Sides[side].Positions = positions

		indices := make([]int, 6)
		for i := 0; i < 6; i++ {
			indices[i] = SideQuadTriangles[side][i]
		}
		baked.Sides[side].Indices = indices
	}

	// Corner UVs walk the tile bottom-left, bottom-right, top-right,
	// top-left, matching SideCorners order. Texture origin is top-left.
	const e = tileUVInset
	uvCorners := [4]mgl32.Vec2{
		{e, 1 - e},
		{1 - e, 1 - e},
		{1 - e, e},
		{e, e},
	}

	s := 1.0 / float32(atlasSize)

	for side := Side(0); side < SideCount; side++ {
		uvs := make([]mgl32.Vec2, 4)
		tile := m.cubeTiles[side]
		for i := 0; i < 4; i++ {
			uvs[i] = tile.Add(uvCorners[i]).Mul(s)
		}
		baked.Sides[side].UVs = uvs

		if bakeTangents {
			tangents := make([]float32, 0, 4*4)
			for i := 0; i < 4; i++ {
				for j := 0; j < 4; j++ {
					tangents = append(tangents, SideTangents[side][j])
				}
			}
			baked.Sides[side].Tangents = tangents
		}
	}

	baked.Empty = false
	return nil
}

// vertexSideMask returns a bitmask with bit s set when the position lies
// on side s's bounding plane of the unit cube.
func vertexSideMask(p mgl32.Vec3) uint8 {
	var mask uint8
	if utils.IsEqualApprox(p.X(), 0, sidePlaneTolerance) {
		mask |= 1 << SideNegativeX
	}
	if utils.IsEqualApprox(p.X(), 1, sidePlaneTolerance) {
		mask |= 1 << SidePositiveX
	}
	if utils.IsEqualApprox(p.Y(), 0, sidePlaneTolerance) {
		mask |= 1 << SideNegativeY
	}
	if utils.IsEqualApprox(p.Y(), 1, sidePlaneTolerance) {
		mask |= 1 << SidePositiveY
	}
	if utils.IsEqualApprox(p.Z(), 0, sidePlaneTolerance) {
		mask |= 1 << SideNegativeZ
	}
	if utils.IsEqualApprox(p.Z(), 1, sidePlaneTolerance) {
		mask |= 1 << SidePositiveZ
	}
	return mask
}

// triangleSide classifies a triangle against the cube sides: it belongs
// to a side only when the AND of the three vertex masks has exactly that
// side's bit set. Zero bits or several bits mean interior geometry.
// Several bits happen on degenerate triangles hugging a cube edge; the
// mesher's culling depends on this exact rule, do not "improve" it.
func triangleSide(a, b, c mgl32.Vec3) (Side, bool) {
	m := vertexSideMask(a) & vertexSideMask(b) & vertexSideMask(c)
	if m == 0 {
		return 0, false
	}
	for side := Side(0); side < SideCount; side++ {
		if m == 1<<side {
			return side, true
		}
	}
	return 0, false
}

func bakeMeshGeometry(m *Model, baked *BakedData, bakeTangents bool) error {
	mesh := m.customMesh
	if mesh == nil {
		baked.Empty = true
		return nil
	}

	if len(mesh.Positions) == 0 || len(mesh.Indices) == 0 || len(mesh.Indices)%3 != 0 {
		return errors.Errorf("Mesh of model %q is empty or does not contain triangles", m.name)
	}
	if len(mesh.Normals) == 0 {
		return errors.Errorf("Mesh of model %q has no normals", m.name)
	}

	// Loaded assets are not trusted: gltf accessors are not
	// cross-validated against each other, so a corrupt file can carry
	// indices past the vertex buffers.
	for _, index := range mesh.Indices {
		if index < 0 || index >= len(mesh.Positions) {
			return errors.Errorf("Mesh of model %q references vertex %d outside of %d positions",
				m.name, index, len(mesh.Positions))
		}
	}
	if len(mesh.Normals) < len(mesh.Positions) {
		return errors.Errorf("Mesh of model %q has %d normals for %d positions",
			m.name, len(mesh.Normals), len(mesh.Positions))
	}
	if len(mesh.UVs) != 0 && len(mesh.UVs) < len(mesh.Positions) {
		return errors.Errorf("Mesh of model %q has %d uvs for %d positions",
			m.name, len(mesh.UVs), len(mesh.Positions))
	}
	if bakeTangents && len(mesh.Tangents) != 0 && len(mesh.Tangents) < (len(mesh.Indices)/3)*4 {
		return errors.Errorf("Mesh of model %q has %d tangent floats for %d triangles",
			m.name, len(mesh.Tangents), len(mesh.Indices)/3)
	}

	baked.Empty = false

	uvs := mesh.UVs
	if len(uvs) == 0 {
		// TODO Generate planar UVs per side instead of zeroes
		uvs = make([]mgl32.Vec2, len(mesh.Positions))
		if bakeTangents {
			log.Printf("[blocky] model %q (id %d) has no UVs, generated tangents will be degenerate",
				m.name, m.id)
		}
	}

	tangentsEmpty := len(mesh.Tangents) == 0
	if tangentsEmpty && bakeTangents {
		log.Printf("[blocky] model %q (id %d) has no tangents, they will be generated from UVs; "+
			"consider providing a mesh with tangents or turning off tangent baking", m.name, m.id)
	}

	// Source index -> bucket-local index, per bucket. A source vertex
	// shared between a side triangle and an interior triangle gets one
	// copy in each bucket.
	var addedSideIndices [SideCount]map[int]int
	for s := range addedSideIndices {
		addedSideIndices[s] = make(map[int]int)
	}
	addedInteriorIndices := make(map[int]int)

	var triPositions [3]mgl32.Vec3

	for i := 0; i < len(mesh.Indices); i += 3 {
		triPositions[0] = mesh.Positions[mesh.Indices[i]]
		triPositions[1] = mesh.Positions[mesh.Indices[i+1]]
		triPositions[2] = mesh.Positions[mesh.Indices[i+2]]

		var tangent [4]float32

		if tangentsEmpty && bakeTangents {
			// Standard UV-gradient tangent, shared by the whole triangle.
			// Faceted seams between triangles are accepted.
			deltaUV1 := uvs[mesh.Indices[i+1]].Sub(uvs[mesh.Indices[i]])
			deltaUV2 := uvs[mesh.Indices[i+2]].Sub(uvs[mesh.Indices[i]])
			deltaPos1 := triPositions[1].Sub(triPositions[0])
			deltaPos2 := triPositions[2].Sub(triPositions[0])
			r := 1.0 / (deltaUV1[0]*deltaUV2[1] - deltaUV1[1]*deltaUV2[0])
			t := deltaPos1.Mul(deltaUV2[1]).Sub(deltaPos2.Mul(deltaUV1[1])).Mul(r)
			bt := deltaPos2.Mul(deltaUV1[0]).Sub(deltaPos1.Mul(deltaUV2[0])).Mul(r)
			tangent[0] = t[0]
			tangent[1] = t[1]
			tangent[2] = t[2]
			if bt.Dot(mesh.Normals[mesh.Indices[i]].Cross(t)) < 0 {
				tangent[3] = -1.0
			} else {
				tangent[3] = 1.0
			}
		}

		if side, ok := triangleSide(triPositions[0], triPositions[1], triPositions[2]); ok {
			// Triangle lies flat on one cube side.
			bucket := &baked.Sides[side]
			nextIndex := len(bucket.Positions)

			for j := 0; j < 3; j++ {
				srcIndex := mesh.Indices[i+j]

				if existing, ok := addedSideIndices[side][srcIndex]; ok {
					bucket.Indices = append(bucket.Indices, existing)
					continue
				}

				bucket.Indices = append(bucket.Indices, nextIndex)
				bucket.Positions = append(bucket.Positions, triPositions[j])
				bucket.UVs = append(bucket.UVs, uvs[srcIndex])

				if bakeTangents {
					if tangentsEmpty {
						bucket.Tangents = append(bucket.Tangents,
							tangent[0], tangent[1], tangent[2], tangent[3])
					} else {
						// One source tangent per triangle, 4 floats each.
						ti := (i / 3) * 4
						bucket.Tangents = append(bucket.Tangents,
							mesh.Tangents[ti], mesh.Tangents[ti+1], mesh.Tangents[ti+2], mesh.Tangents[ti+3])
					}
				}

				addedSideIndices[side][srcIndex] = nextIndex
				nextIndex++
			}
		} else {
			// Interior triangle, keeps its normals since it is never
			// culled by adjacency.
			interior := &baked.Interior
			nextIndex := len(interior.Positions)

			for j := 0; j < 3; j++ {
				srcIndex := mesh.Indices[i+j]

				if existing, ok := addedInteriorIndices[srcIndex]; ok {
					interior.Indices = append(interior.Indices, existing)
					continue
				}

				interior.Indices = append(interior.Indices, nextIndex)
				interior.Positions = append(interior.Positions, triPositions[j])
				interior.Normals = append(interior.Normals, mesh.Normals[srcIndex])
				interior.UVs = append(interior.UVs, uvs[srcIndex])

				if bakeTangents {
					if tangentsEmpty {
						interior.Tangents = append(interior.Tangents,
							tangent[0], tangent[1], tangent[2], tangent[3])
					} else {
						ti := (i / 3) * 4
						interior.Tangents = append(interior.Tangents,
							mesh.Tangents[ti], mesh.Tangents[ti+1], mesh.Tangents[ti+2], mesh.Tangents[ti+3])
					}
				}

				addedInteriorIndices[srcIndex] = nextIndex
				nextIndex++
			}
		}
	}

	return nil
}
