package blocky

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestModelIDAssignment(t *testing.T) {
	m := NewModel()
	if m.ID() != -1 {
		t.Fatalf("fresh model id %d; expected -1", m.ID())
	}
	if err := m.SetID(MaxModels); err == nil {
		t.Error("expected error for id out of range")
	}
	if err := m.SetID(-5); err == nil {
		t.Error("expected error for negative id")
	}
	if err := m.SetID(42); err != nil {
		t.Fatal(err)
	}
	if err := m.SetID(43); err == nil {
		t.Error("expected error when changing an assigned id")
	}
	if m.ID() != 42 {
		t.Errorf("id %d; expected 42", m.ID())
	}
}

func TestModelMaterialValidation(t *testing.T) {
	m := NewModel()
	if err := m.SetMaterialID(MaxMaterials); err == nil {
		t.Error("expected error for material id out of range")
	}
	if err := m.SetMaterialID(MaxMaterials - 1); err != nil {
		t.Error(err)
	}
}

func TestModelTransparency(t *testing.T) {
	m := NewModel()

	m.SetTransparencyIndex(300)
	if m.TransparencyIndex() != 255 {
		t.Errorf("transparency index %d; expected clamp to 255", m.TransparencyIndex())
	}
	m.SetTransparencyIndex(-1)
	if m.TransparencyIndex() != 0 {
		t.Errorf("transparency index %d; expected clamp to 0", m.TransparencyIndex())
	}

	m.SetTransparent(true)
	if m.TransparencyIndex() != 1 || !m.IsTransparent() {
		t.Error("legacy transparent flag should promote index 0 to 1")
	}
	m.SetTransparencyIndex(9)
	m.SetTransparent(true)
	if m.TransparencyIndex() != 9 {
		t.Error("legacy transparent flag should keep an existing index")
	}
	m.SetTransparent(false)
	if m.IsTransparent() {
		t.Error("clearing legacy flag should reset the index")
	}
}

func TestModelGeometryTypeSideEffects(t *testing.T) {
	m := NewModel()
	if !m.IsEmpty() {
		t.Error("fresh model should be empty")
	}

	if err := m.SetGeometryType(GeometryCube); err != nil {
		t.Fatal(err)
	}
	if m.IsEmpty() {
		t.Error("cube geometry should clear the empty hint")
	}
	boxes := m.CollisionBoxes()
	if len(boxes) != 1 || boxes[0] != unitBox {
		t.Errorf("cube geometry collision boxes %v; expected a single unit box", boxes)
	}

	if err := m.SetGeometryType(GeometryNone); err != nil {
		t.Fatal(err)
	}
	if len(m.CollisionBoxes()) != 0 {
		t.Error("none geometry should drop collision boxes")
	}

	if err := m.SetGeometryType(GeometryType(99)); err == nil {
		t.Error("expected error for unknown geometry type")
	}
}

func TestModelCubeTileValidation(t *testing.T) {
	m := NewModel()
	if err := m.SetCubeTile(SideCount, mgl32.Vec2{0, 0}); err == nil {
		t.Error("expected error for invalid side")
	}
	if err := m.SetCubeTile(SidePositiveY, mgl32.Vec2{-1, 0}); err == nil {
		t.Error("expected error for negative tile position")
	}
	if err := m.SetCubeTile(SidePositiveY, mgl32.Vec2{3, 2}); err != nil {
		t.Fatal(err)
	}
	if m.CubeTile(SidePositiveY) != (mgl32.Vec2{3, 2}) {
		t.Errorf("tile %v; expected (3,2)", m.CubeTile(SidePositiveY))
	}
}

func TestModelDuplicate(t *testing.T) {
	m := NewModel()
	m.SetName("pillar")
	if err := m.SetID(7); err != nil {
		t.Fatal(err)
	}
	if err := m.SetGeometryType(GeometryCustomMesh); err != nil {
		t.Fatal(err)
	}
	mesh := &MeshData{
		Indices:   []int{0, 1, 2},
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
	}
	m.SetCustomMesh(mesh)

	shallow := m.Duplicate(false)
	if shallow.ID() != -1 {
		t.Errorf("duplicate id %d; expected -1", shallow.ID())
	}
	if shallow.Name() != "pillar" {
		t.Errorf("duplicate name %q", shallow.Name())
	}
	if shallow.CustomMesh() != mesh {
		t.Error("shallow duplicate should share the mesh view")
	}

	deep := m.Duplicate(true)
	if deep.CustomMesh() == mesh {
		t.Error("deep duplicate should copy the mesh")
	}
	deep.CustomMesh().Positions[0] = mgl32.Vec3{9, 9, 9}
	if mesh.Positions[0] != (mgl32.Vec3{0, 0, 0}) {
		t.Error("deep duplicate mesh aliases the source buffers")
	}
}

func TestGeometryTypeNames(t *testing.T) {
	for _, typ := range []GeometryType{GeometryNone, GeometryCube, GeometryCustomMesh} {
		got, err := GeometryTypeFromName(typ.String())
		if err != nil {
			t.Errorf("GeometryTypeFromName(%q): %v", typ.String(), err)
		} else if got != typ {
			t.Errorf("GeometryTypeFromName(%q)=%v; expected %v", typ.String(), got, typ)
		}
	}
	if _, err := GeometryTypeFromName("sphere"); err == nil {
		t.Error("expected error for unknown geometry name")
	}
}
