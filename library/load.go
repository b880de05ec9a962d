package library

import (
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/voxelforge/voxelforge/blocky"
	"github.com/voxelforge/voxelforge/utils"
)

// MeshLoader resolves a mesh file referenced by a custom_mesh model
// into a mesh view. Paths are relative to the library document.
type MeshLoader func(path string) (*blocky.MeshData, error)

type boxDocument struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

type modelDocument struct {
	Name           string                `yaml:"name"`
	Geometry       string                `yaml:"geometry"`
	Material       int                   `yaml:"material"`
	Transparency   int                   `yaml:"transparency"`
	Color          *utils.ColorFloat     `yaml:"color"`
	Tiles          map[string][2]float32 `yaml:"tiles"`
	Mesh           string                `yaml:"mesh"`
	CollisionBoxes []boxDocument         `yaml:"collision_boxes"`
	CollisionMask  *uint32               `yaml:"collision_mask"`
	RandomTickable bool                  `yaml:"random_tickable"`
}

type libraryDocument struct {
	Models []modelDocument `yaml:"models"`
}

// LoadFromFile reads a yaml library document and returns the populated
// library. Model ids follow document order, so id 0 is conventionally
// the empty "air" model. Mesh references load through meshLoader; pass
// nil to reject documents with custom meshes.
func LoadFromFile(path string, meshLoader MeshLoader) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read library %q", path)
	}
	return load(data, filepath.Dir(path), meshLoader)
}

func load(data []byte, baseDir string, meshLoader MeshLoader) (*Library, error) {
	var doc libraryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse library document")
	}

	l := NewLibrary()
	for i := range doc.Models {
		m, err := buildModel(&doc.Models[i], baseDir, meshLoader)
		if err != nil {
			return nil, errors.Wrapf(err, "Model %d %q", i, doc.Models[i].Name)
		}
		if _, err := l.AddModel(m); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func buildModel(doc *modelDocument, baseDir string, meshLoader MeshLoader) (*blocky.Model, error) {
	m := blocky.NewModel()
	m.SetName(doc.Name)

	geometry := blocky.GeometryNone
	if doc.Geometry != "" {
		var err error
		geometry, err = blocky.GeometryTypeFromName(doc.Geometry)
		if err != nil {
			return nil, err
		}
	}
	if err := m.SetGeometryType(geometry); err != nil {
		return nil, err
	}

	if err := m.SetMaterialID(doc.Material); err != nil {
		return nil, err
	}
	m.SetTransparencyIndex(doc.Transparency)
	if doc.Color != nil {
		m.SetColor(*doc.Color)
	}
	m.SetRandomTickable(doc.RandomTickable)
	if doc.CollisionMask != nil {
		m.SetCollisionMask(*doc.CollisionMask)
	}

	if len(doc.CollisionBoxes) != 0 {
		boxes := make([]blocky.Box, len(doc.CollisionBoxes))
		for i, b := range doc.CollisionBoxes {
			boxes[i] = blocky.Box{
				Min: mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]},
				Max: mgl32.Vec3{b.Max[0], b.Max[1], b.Max[2]},
			}
		}
		m.SetCollisionBoxes(boxes)
	}

	if err := applyTiles(m, doc.Tiles); err != nil {
		return nil, err
	}

	if geometry == blocky.GeometryCustomMesh && doc.Mesh != "" {
		if meshLoader == nil {
			return nil, errors.Errorf("No mesh loader available for mesh %q", doc.Mesh)
		}
		mesh, err := meshLoader(filepath.Join(baseDir, doc.Mesh))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to load mesh %q", doc.Mesh)
		}
		m.SetCustomMesh(mesh)
	}

	return m, nil
}

// applyTiles handles the per-side tile map. The "all" key seeds every
// side and named sides override it.
func applyTiles(m *blocky.Model, tiles map[string][2]float32) error {
	if all, ok := tiles["all"]; ok {
		for side := blocky.Side(0); side < blocky.SideCount; side++ {
			if err := m.SetCubeTile(side, mgl32.Vec2{all[0], all[1]}); err != nil {
				return err
			}
		}
	}
	for name, tile := range tiles {
		if name == "all" {
			continue
		}
		side := blocky.SideFromName(name)
		if side == blocky.SideCount {
			return errors.Errorf("Unknown cube side %q", name)
		}
		if err := m.SetCubeTile(side, mgl32.Vec2{tile[0], tile[1]}); err != nil {
			return err
		}
	}
	return nil
}
