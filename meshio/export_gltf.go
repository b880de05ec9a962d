package meshio

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelforge/voxelforge/blocky"
	"github.com/voxelforge/voxelforge/mesher"
)

// BuildModelDocument exports one baked model as a gltf document with a
// primitive per populated side bucket plus one for the interior. Side
// vertices get their side's analytic normal so the file previews the
// same shading the mesher would produce.
func BuildModelDocument(name string, baked *blocky.BakedData) *gltf.Document {
	doc := gltf.NewDocument()
	mesh := &gltf.Mesh{Name: name}

	for side := blocky.Side(0); side < blocky.SideCount; side++ {
		bucket := &baked.Sides[side]
		if len(bucket.Indices) == 0 {
			continue
		}
		normals := make([]mgl32.Vec3, len(bucket.Positions))
		for i := range normals {
			normals[i] = blocky.SideNormals[side]
		}
		mesh.Primitives = append(mesh.Primitives, buildPrimitive(doc, primitiveBuffers{
			positions: bucket.Positions,
			normals:   normals,
			uvs:       bucket.UVs,
			tangents:  bucket.Tangents,
			indices:   bucket.Indices,
		}))
	}

	if len(baked.Interior.Indices) != 0 {
		mesh.Primitives = append(mesh.Primitives, buildPrimitive(doc, primitiveBuffers{
			positions: baked.Interior.Positions,
			normals:   baked.Interior.Normals,
			uvs:       baked.Interior.UVs,
			tangents:  baked.Interior.Tangents,
			indices:   baked.Interior.Indices,
		}))
	}

	appendMeshNode(doc, mesh, name)
	return doc
}

// BuildChunkDocument exports a meshed chunk, one primitive per
// non-empty material surface.
func BuildChunkDocument(name string, out *mesher.Output) *gltf.Document {
	doc := gltf.NewDocument()
	mesh := &gltf.Mesh{Name: name}

	for materialID := range out.Surfaces {
		surface := &out.Surfaces[materialID]
		if surface.IsEmpty() {
			continue
		}
		primitive := buildPrimitive(doc, primitiveBuffers{
			positions: surface.Positions,
			normals:   surface.Normals,
			uvs:       surface.UVs,
			tangents:  surface.Tangents,
			indices:   surface.Indices,
		})
		if len(surface.Colors) != 0 {
			primitive.Attributes["COLOR_0"] = modeler.WriteColor(doc, surface.Colors)
		}
		mesh.Primitives = append(mesh.Primitives, primitive)
	}

	appendMeshNode(doc, mesh, name)
	return doc
}

type primitiveBuffers struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	tangents  []float32
	indices   []int
}

func buildPrimitive(doc *gltf.Document, buffers primitiveBuffers) *gltf.Primitive {
	primitive := &gltf.Primitive{
		Attributes: map[string]uint32{},
	}

	positions := make([][3]float32, len(buffers.positions))
	for i, p := range buffers.positions {
		positions[i] = p
	}
	primitive.Attributes["POSITION"] = modeler.WritePosition(doc, positions)

	if len(buffers.normals) != 0 {
		normals := make([][3]float32, len(buffers.normals))
		for i, n := range buffers.normals {
			normals[i] = n
		}
		primitive.Attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}

	if len(buffers.uvs) != 0 {
		uvs := make([][2]float32, len(buffers.uvs))
		for i, uv := range buffers.uvs {
			uvs[i] = uv
		}
		primitive.Attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
	}

	if len(buffers.tangents) != 0 {
		tangents := make([][4]float32, len(buffers.tangents)/4)
		for i := range tangents {
			tangents[i] = [4]float32{
				buffers.tangents[i*4],
				buffers.tangents[i*4+1],
				buffers.tangents[i*4+2],
				buffers.tangents[i*4+3],
			}
		}
		primitive.Attributes["TANGENT"] = modeler.WriteTangent(doc, tangents)
	}

	indices := make([]uint32, len(buffers.indices))
	for i, index := range buffers.indices {
		indices[i] = uint32(index)
	}
	primitive.Indices = gltf.Index(modeler.WriteIndices(doc, indices))

	return primitive
}

func appendMeshNode(doc *gltf.Document, mesh *gltf.Mesh, name string) {
	doc.Meshes = append(doc.Meshes, mesh)
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
}

// EncodeGLTF writes the document to w, binary (glb) or json.
func EncodeGLTF(w io.Writer, doc *gltf.Document, binary bool) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	return encoder.Encode(doc)
}

// GLTFFileName picks the conventional extension.
func GLTFFileName(base string, binary bool) string {
	if binary {
		return fmt.Sprintf("%s.glb", base)
	}
	return fmt.Sprintf("%s.gltf", base)
}
