package blocky

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newCubeModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel()
	m.SetName("bricks")
	if err := m.SetGeometryType(GeometryCube); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestBakeCubeStructure(t *testing.T) {
	m := newCubeModel(t)

	var baked BakedData
	if err := m.Bake(&baked, 16, false); err != nil {
		t.Fatal(err)
	}

	if baked.Empty {
		t.Error("baked cube marked empty")
	}
	if m.IsEmpty() {
		t.Error("model empty hint not mirrored from bake")
	}
	if len(baked.Interior.Positions) != 0 || len(baked.Interior.Indices) != 0 {
		t.Error("cube bake produced interior geometry")
	}

	for side := Side(0); side < SideCount; side++ {
		bucket := &baked.Sides[side]
		if len(bucket.Positions) != 4 {
			t.Errorf("side %v: %d positions; expected 4", side, len(bucket.Positions))
		}
		if len(bucket.UVs) != 4 {
			t.Errorf("side %v: %d uvs; expected 4", side, len(bucket.UVs))
		}
		if len(bucket.Indices) != 6 {
			t.Errorf("side %v: %d indices; expected 6", side, len(bucket.Indices))
		}
		for _, index := range bucket.Indices {
			if index < 0 || index >= len(bucket.Positions) {
				t.Errorf("side %v: index %d out of bucket range", side, index)
			}
		}
		if len(bucket.Tangents) != 0 {
			t.Errorf("side %v: tangents emitted without being requested", side)
		}
	}
}

func TestBakeCubeTopPadding(t *testing.T) {
	m := newCubeModel(t)

	var baked BakedData
	if err := m.Bake(&baked, 4, false); err != nil {
		t.Fatal(err)
	}

	for _, p := range baked.Sides[SidePositiveY].Positions {
		if p.Y() >= 1.0 {
			t.Errorf("top side vertex at y=%v; expected below 1", p.Y())
		}
		if p.Y() < 0.99 {
			t.Errorf("top side vertex at y=%v; padding too large", p.Y())
		}
	}
}

func TestBakeCubeUVRange(t *testing.T) {
	tests := []struct {
		atlasSize int
		tile      mgl32.Vec2
	}{
		{1, mgl32.Vec2{0, 0}},
		{4, mgl32.Vec2{2, 1}},
		{16, mgl32.Vec2{15, 15}},
	}

	for _, test := range tests {
		m := newCubeModel(t)
		for side := Side(0); side < SideCount; side++ {
			if err := m.SetCubeTile(side, test.tile); err != nil {
				t.Fatal(err)
			}
		}

		var baked BakedData
		if err := m.Bake(&baked, test.atlasSize, false); err != nil {
			t.Fatal(err)
		}

		n := float32(test.atlasSize)
		uMin, uMax := test.tile.X()/n, (test.tile.X()+1)/n
		vMin, vMax := test.tile.Y()/n, (test.tile.Y()+1)/n

		for side := Side(0); side < SideCount; side++ {
			for _, uv := range baked.Sides[side].UVs {
				if uv.X() <= uMin || uv.X() >= uMax {
					t.Errorf("atlas %d tile %v side %v: u=%v outside (%v;%v)",
						test.atlasSize, test.tile, side, uv.X(), uMin, uMax)
				}
				if uv.Y() <= vMin || uv.Y() >= vMax {
					t.Errorf("atlas %d tile %v side %v: v=%v outside (%v;%v)",
						test.atlasSize, test.tile, side, uv.Y(), vMin, vMax)
				}
			}
		}
	}
}

func TestBakeCubeTangents(t *testing.T) {
	m := newCubeModel(t)

	var baked BakedData
	if err := m.Bake(&baked, 8, true); err != nil {
		t.Fatal(err)
	}

	for side := Side(0); side < SideCount; side++ {
		tangents := baked.Sides[side].Tangents
		if len(tangents) != 4*4 {
			t.Fatalf("side %v: %d tangent floats; expected 16", side, len(tangents))
		}
		for v := 0; v < 4; v++ {
			for j := 0; j < 4; j++ {
				if tangents[v*4+j] != SideTangents[side][j] {
					t.Errorf("side %v vertex %d tangent component %d = %v; expected %v",
						side, v, j, tangents[v*4+j], SideTangents[side][j])
				}
			}
		}
	}
}

func TestBakeCubeInvalidAtlasSize(t *testing.T) {
	m := newCubeModel(t)

	var baked BakedData
	if err := m.Bake(&baked, 0, false); err == nil {
		t.Fatal("expected error for atlas size 0")
	}
	if !baked.Empty {
		t.Error("failed bake did not leave baked data empty")
	}
}

func TestBakeMetadataCopied(t *testing.T) {
	m := newCubeModel(t)
	if err := m.SetMaterialID(3); err != nil {
		t.Fatal(err)
	}
	m.SetTransparencyIndex(7)
	m.SetColor([4]float32{0.25, 0.5, 0.75, 1})

	var baked BakedData
	if err := m.Bake(&baked, 4, false); err != nil {
		t.Fatal(err)
	}

	if baked.MaterialID != 3 {
		t.Errorf("material id %d; expected 3", baked.MaterialID)
	}
	if baked.TransparencyIndex != 7 {
		t.Errorf("transparency index %d; expected 7", baked.TransparencyIndex)
	}
	if baked.Color != [4]float32{0.25, 0.5, 0.75, 1} {
		t.Errorf("color %v not copied", baked.Color)
	}
}

func TestBakeNoneGeometry(t *testing.T) {
	m := NewModel()
	m.SetName("air")

	var baked BakedData
	if err := m.Bake(&baked, 4, false); err != nil {
		t.Fatal(err)
	}
	if !baked.Empty || !m.IsEmpty() {
		t.Error("none geometry should bake empty")
	}
	if baked.VertexCount() != 0 || baked.TriangleCount() != 0 {
		t.Error("none geometry produced vertices")
	}
}
