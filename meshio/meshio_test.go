package meshio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelforge/voxelforge/blocky"
	"github.com/voxelforge/voxelforge/mesher"
)

func bakeStone(t *testing.T, tangents bool) *blocky.BakedData {
	t.Helper()
	m := blocky.NewModel()
	m.SetName("stone")
	if err := m.SetGeometryType(blocky.GeometryCube); err != nil {
		t.Fatal(err)
	}
	var baked blocky.BakedData
	if err := m.Bake(&baked, 4, tangents); err != nil {
		t.Fatal(err)
	}
	return &baked
}

func TestBuildModelDocument(t *testing.T) {
	baked := bakeStone(t, true)
	doc := BuildModelDocument("stone", baked)

	if len(doc.Meshes) != 1 {
		t.Fatalf("%d meshes; expected 1", len(doc.Meshes))
	}
	if got := len(doc.Meshes[0].Primitives); got != 6 {
		t.Fatalf("%d primitives; expected one per cube side", got)
	}
	for i, primitive := range doc.Meshes[0].Primitives {
		for _, attr := range []string{"POSITION", "NORMAL", "TEXCOORD_0", "TANGENT"} {
			if _, ok := primitive.Attributes[attr]; !ok {
				t.Errorf("primitive %d missing %s", i, attr)
			}
		}
		if primitive.Indices == nil {
			t.Errorf("primitive %d not indexed", i)
		}
	}
	if len(doc.Scenes[0].Nodes) != 1 {
		t.Error("mesh node not attached to the scene")
	}
}

func TestBuildChunkDocument(t *testing.T) {
	palette := []blocky.BakedData{{Empty: true}, *bakeStone(t, false)}
	c := mesher.NewChunk(1, 1, 1)
	c.Set(0, 0, 0, 1)
	out := mesher.MeshChunk(palette, c)

	doc := BuildChunkDocument("chunk", out)
	if got := len(doc.Meshes[0].Primitives); got != 1 {
		t.Fatalf("%d primitives; expected 1 material surface", got)
	}
	primitive := doc.Meshes[0].Primitives[0]
	if _, ok := primitive.Attributes["COLOR_0"]; !ok {
		t.Error("chunk surface missing vertex colors")
	}
	if _, ok := primitive.Attributes["TANGENT"]; ok {
		t.Error("tangents exported without being baked")
	}
}

func TestEncodeGLTF(t *testing.T) {
	doc := BuildModelDocument("stone", bakeStone(t, false))

	var json bytes.Buffer
	if err := EncodeGLTF(&json, doc, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(json.String(), "\"meshes\"") {
		t.Error("json encoding looks wrong")
	}

	var glb bytes.Buffer
	if err := EncodeGLTF(&glb, doc, true); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(glb.Bytes(), []byte("glTF")) {
		t.Error("binary encoding has no glb magic")
	}
}

func TestGLTFFileName(t *testing.T) {
	if got := GLTFFileName("stone", true); got != "stone.glb" {
		t.Errorf("got %q", got)
	}
	if got := GLTFFileName("stone", false); got != "stone.gltf" {
		t.Errorf("got %q", got)
	}
}

// Round-trip: write a triangle through the modeler, read it back as a
// mesh view.
func TestLoadMeshData(t *testing.T) {
	doc := gltf.NewDocument()
	positionAccessor := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	normalAccessor := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uvAccessor := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	tangentAccessor := modeler.WriteTangent(doc, [][4]float32{{1, 0, 0, -1}, {1, 0, 0, -1}, {1, 0, 0, -1}})
	indexAccessor := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{
				"POSITION":   positionAccessor,
				"NORMAL":     normalAccessor,
				"TEXCOORD_0": uvAccessor,
				"TANGENT":    tangentAccessor,
			},
			Indices: gltf.Index(indexAccessor),
		}},
	})

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}

	mesh, err := LoadMeshData(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Indices) != 3 || len(mesh.Positions) != 3 {
		t.Fatalf("loaded %d indices %d positions; expected 3/3", len(mesh.Indices), len(mesh.Positions))
	}
	if mesh.Positions[1].X() != 1 {
		t.Errorf("position 1 = %v", mesh.Positions[1])
	}
	if len(mesh.Normals) != 3 || mesh.Normals[0].Z() != 1 {
		t.Errorf("normals %v", mesh.Normals)
	}
	if len(mesh.UVs) != 3 || mesh.UVs[2].Y() != 1 {
		t.Errorf("uvs %v", mesh.UVs)
	}
	if len(mesh.Tangents) != 12 || mesh.Tangents[3] != -1 {
		t.Errorf("tangents %v", mesh.Tangents)
	}
}

func TestLoadMeshDataMissingFile(t *testing.T) {
	if _, err := LoadMeshData(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExportChunkObj(t *testing.T) {
	palette := []blocky.BakedData{{Empty: true}, *bakeStone(t, false)}
	c := mesher.NewChunk(1, 1, 1)
	c.Set(0, 0, 0, 1)
	out := mesher.MeshChunk(palette, c)

	var buf bytes.Buffer
	if err := ExportChunkObj(&buf, out, "chunk"); err != nil {
		t.Fatal(err)
	}
	text := buf.String()

	if got := strings.Count(text, "\nv "); got != 24 {
		t.Errorf("%d v lines; expected 24", got)
	}
	if got := strings.Count(text, "\nvt "); got != 24 {
		t.Errorf("%d vt lines; expected 24", got)
	}
	if got := strings.Count(text, "\nvn "); got != 24 {
		t.Errorf("%d vn lines; expected 24", got)
	}
	if got := strings.Count(text, "\nf "); got != 12 {
		t.Errorf("%d f lines; expected 12", got)
	}
	if !strings.Contains(text, "o material00") {
		t.Error("material object header missing")
	}
	// The v coordinate flips as 1-v, which keeps every vt inside [0;1];
	// negative values break loaders with clamping samplers.
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "vt ") {
			continue
		}
		if strings.Contains(line, "-") {
			t.Errorf("negative texture coordinate in %q", line)
		}
	}
}
