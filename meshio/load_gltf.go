// Package meshio loads custom mesh assets and exports baked or meshed
// geometry to interchange formats.
package meshio

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelforge/voxelforge/blocky"
)

// LoadMeshData reads the first primitive of the first mesh of a
// gltf/glb file into a mesh view for custom-mesh baking. Normals, UVs
// and tangents are optional in the file and stay empty when absent.
func LoadMeshData(path string) (*blocky.MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	return meshDataFromDocument(doc)
}

func meshDataFromDocument(doc *gltf.Document) (*blocky.MeshData, error) {
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, errors.Errorf("Document contains no mesh primitives")
	}
	primitive := doc.Meshes[0].Primitives[0]
	if primitive.Indices == nil {
		return nil, errors.Errorf("Mesh primitive is not indexed")
	}

	indices, err := modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read indices")
	}

	positionAccessor, ok := primitive.Attributes["POSITION"]
	if !ok {
		return nil, errors.Errorf("Mesh primitive has no positions")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[positionAccessor], nil)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read positions")
	}

	mesh := &blocky.MeshData{
		Indices:   make([]int, len(indices)),
		Positions: make([]mgl32.Vec3, len(positions)),
	}
	for i, index := range indices {
		mesh.Indices[i] = int(index)
	}
	for i, p := range positions {
		mesh.Positions[i] = mgl32.Vec3{p[0], p[1], p[2]}
	}

	if accessor, ok := primitive.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[accessor], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read normals")
		}
		mesh.Normals = make([]mgl32.Vec3, len(normals))
		for i, n := range normals {
			mesh.Normals[i] = mgl32.Vec3{n[0], n[1], n[2]}
		}
	}

	if accessor, ok := primitive.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[accessor], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read uvs")
		}
		mesh.UVs = make([]mgl32.Vec2, len(uvs))
		for i, uv := range uvs {
			mesh.UVs[i] = mgl32.Vec2{uv[0], uv[1]}
		}
	}

	if accessor, ok := primitive.Attributes["TANGENT"]; ok {
		tangents, err := modeler.ReadTangent(doc, doc.Accessors[accessor], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read tangents")
		}
		mesh.Tangents = make([]float32, 0, len(tangents)*4)
		for _, tg := range tangents {
			mesh.Tangents = append(mesh.Tangents, tg[0], tg[1], tg[2], tg[3])
		}
	}

	return mesh, nil
}
