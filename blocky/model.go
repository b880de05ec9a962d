package blocky

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/voxelforge/voxelforge/utils"
)

const (
	// MaxModels bounds the id space of a library palette.
	MaxModels = 65536
	// MaxMaterials bounds material ids; the mesher allocates one output
	// surface per material.
	MaxMaterials = 8
)

// GeometryType discriminates what a model bakes from.
type GeometryType int

const (
	GeometryNone GeometryType = iota
	GeometryCube
	GeometryCustomMesh
	geometryTypeCount
)

var geometryTypeNames = [geometryTypeCount]string{"none", "cube", "custom_mesh"}

func (t GeometryType) String() string {
	if t < 0 || t >= geometryTypeCount {
		return "invalid"
	}
	return geometryTypeNames[t]
}

// GeometryTypeFromName resolves an author-facing geometry name. Returns
// an error for unknown names.
func GeometryTypeFromName(name string) (GeometryType, error) {
	for t, n := range geometryTypeNames {
		if n == name {
			return GeometryType(t), nil
		}
	}
	return GeometryNone, errors.Errorf("Unknown geometry type %q", name)
}

// Box is an axis-aligned collision box in block-local coordinates.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

var unitBox = Box{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}

// MeshData is a read-only borrowed view of a triangle mesh used by
// custom-mesh models. The baker never mutates it and does not copy the
// buffers; the owner must not modify them while a bake is running.
// Indices form a triangle list. UVs and Tangents are optional; Tangents
// hold 4 floats per source vertex (direction xyz + handedness sign).
type MeshData struct {
	Indices   []int
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Tangents  []float32
}

// Model is the author-time description of one block type. Fields are
// validated when mutated, so baking can trust them. A Model outlives the
// BakedData derived from it.
type Model struct {
	name              string
	id                int
	materialID        int
	transparencyIndex int
	color             utils.ColorFloat
	geometry          GeometryType
	cubeTiles         [SideCount]mgl32.Vec2
	customMesh        *MeshData
	collisionBoxes    []Box
	collisionMask     uint32
	randomTickable    bool
	empty             bool
}

func NewModel() *Model {
	return &Model{
		id:            -1,
		color:         utils.ColorWhite,
		geometry:      GeometryNone,
		collisionMask: 1,
		empty:         true,
	}
}

func (m *Model) Name() string { return m.name }

func (m *Model) SetName(name string) { m.name = name }

func (m *Model) ID() int { return m.id }

// SetID assigns the library id. It can only be set once.
func (m *Model) SetID(id int) error {
	if id < 0 || id >= MaxModels {
		return errors.Errorf("Model id %d out of range", id)
	}
	if m.id != -1 {
		return errors.Errorf("Model %q already has id %d, cannot be changed after being added to a library", m.name, m.id)
	}
	m.id = id
	return nil
}

func (m *Model) Color() utils.ColorFloat { return m.color }

func (m *Model) SetColor(c utils.ColorFloat) { m.color = c }

func (m *Model) MaterialID() int { return m.materialID }

func (m *Model) SetMaterialID(id int) error {
	if id < 0 || id >= MaxMaterials {
		return errors.Errorf("Material id %d out of range [0;%d)", id, MaxMaterials)
	}
	m.materialID = id
	return nil
}

func (m *Model) TransparencyIndex() int { return m.transparencyIndex }

// SetTransparencyIndex clamps to [0;255]. 0 means opaque.
func (m *Model) SetTransparencyIndex(i int) {
	if i < 0 {
		i = 0
	} else if i > 255 {
		i = 255
	}
	m.transparencyIndex = i
}

func (m *Model) IsTransparent() bool { return m.transparencyIndex != 0 }

// SetTransparent is the legacy boolean property. Setting true promotes
// an opaque model to transparency index 1, setting false resets to 0.
func (m *Model) SetTransparent(t bool) {
	if t {
		if m.transparencyIndex == 0 {
			m.transparencyIndex = 1
		}
	} else {
		m.transparencyIndex = 0
	}
}

func (m *Model) GeometryType() GeometryType { return m.geometry }

func (m *Model) SetGeometryType(t GeometryType) error {
	if t == m.geometry {
		return nil
	}
	switch t {
	case GeometryNone:
		m.collisionBoxes = nil
	case GeometryCube:
		m.collisionBoxes = []Box{unitBox}
		m.empty = false
	case GeometryCustomMesh:
		// Collision boxes stay user-defined.
	default:
		return errors.Errorf("Unknown geometry type %d", t)
	}
	m.geometry = t
	return nil
}

func (m *Model) CustomMesh() *MeshData { return m.customMesh }

func (m *Model) SetCustomMesh(mesh *MeshData) { m.customMesh = mesh }

func (m *Model) CubeTile(side Side) mgl32.Vec2 { return m.cubeTiles[side] }

// SetCubeTile sets the atlas tile of one cube side, in atlas grid units.
func (m *Model) SetCubeTile(side Side, tile mgl32.Vec2) error {
	if side < 0 || side >= SideCount {
		return errors.Errorf("Invalid cube side %d", side)
	}
	if tile.X() < 0 || tile.Y() < 0 {
		return errors.Errorf("Negative tile position %v for side %v", tile, side)
	}
	m.cubeTiles[side] = tile
	return nil
}

func (m *Model) CollisionBoxes() []Box { return m.collisionBoxes }

func (m *Model) SetCollisionBoxes(boxes []Box) { m.collisionBoxes = boxes }

func (m *Model) CollisionMask() uint32 { return m.collisionMask }

func (m *Model) SetCollisionMask(mask uint32) { m.collisionMask = mask }

func (m *Model) IsRandomTickable() bool { return m.randomTickable }

func (m *Model) SetRandomTickable(rt bool) { m.randomTickable = rt }

// IsEmpty reports the cached result of the last bake without re-baking.
func (m *Model) IsEmpty() bool { return m.empty }

// Duplicate deep-copies the model. The copy gets no id so it can be
// added to a library. When subresources is set the custom mesh buffers
// are copied as well, otherwise the mesh view is shared.
func (m *Model) Duplicate(subresources bool) *Model {
	d := *m
	d.id = -1
	d.collisionBoxes = append([]Box(nil), m.collisionBoxes...)

	if subresources && m.customMesh != nil {
		mesh := &MeshData{
			Indices:   append([]int(nil), m.customMesh.Indices...),
			Positions: append([]mgl32.Vec3(nil), m.customMesh.Positions...),
			Normals:   append([]mgl32.Vec3(nil), m.customMesh.Normals...),
			UVs:       append([]mgl32.Vec2(nil), m.customMesh.UVs...),
			Tangents:  append([]float32(nil), m.customMesh.Tangents...),
		}
		d.customMesh = mesh
	}
	return &d
}
