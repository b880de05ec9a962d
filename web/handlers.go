package web

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/voxelforge/voxelforge/blocky"
	"github.com/voxelforge/voxelforge/mesher"
	"github.com/voxelforge/voxelforge/meshio"
	"github.com/voxelforge/voxelforge/status"
	"github.com/voxelforge/voxelforge/webutils"
)

type modelSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Geometry     string `json:"geometry"`
	Material     int    `json:"material"`
	Transparency int    `json:"transparency"`
	Empty        bool   `json:"empty"`
}

func summarizeModel(m *blocky.Model) modelSummary {
	return modelSummary{
		ID:           m.ID(),
		Name:         m.Name(),
		Geometry:     m.GeometryType().String(),
		Material:     m.MaterialID(),
		Transparency: m.TransparencyIndex(),
		Empty:        m.IsEmpty(),
	}
}

func HandlerModels(w http.ResponseWriter, r *http.Request) {
	models := make([]modelSummary, serverLibrary.Len())
	for id := 0; id < serverLibrary.Len(); id++ {
		models[id] = summarizeModel(serverLibrary.Model(id))
	}
	webutils.WriteJson(w, models)
}

func requestModel(w http.ResponseWriter, r *http.Request) (*blocky.Model, int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("param '%s' is not integer", mux.Vars(r)["id"]))
		return nil, 0, false
	}
	m := serverLibrary.Model(id)
	if m == nil {
		webutils.WriteError(w, fmt.Errorf("no model with id %d", id))
		return nil, 0, false
	}
	return m, id, true
}

func HandlerModel(w http.ResponseWriter, r *http.Request) {
	m, _, ok := requestModel(w, r)
	if !ok {
		return
	}

	type modelDetail struct {
		modelSummary
		Color          [4]float32            `json:"color"`
		Tiles          map[string][2]float32 `json:"tiles,omitempty"`
		CollisionBoxes []blocky.Box          `json:"collision_boxes,omitempty"`
		CollisionMask  uint32                `json:"collision_mask"`
		RandomTickable bool                  `json:"random_tickable"`
	}

	detail := modelDetail{
		modelSummary:   summarizeModel(m),
		Color:          m.Color(),
		CollisionBoxes: m.CollisionBoxes(),
		CollisionMask:  m.CollisionMask(),
		RandomTickable: m.IsRandomTickable(),
	}
	if m.GeometryType() == blocky.GeometryCube {
		detail.Tiles = make(map[string][2]float32, blocky.SideCount)
		for side := blocky.Side(0); side < blocky.SideCount; side++ {
			tile := m.CubeTile(side)
			detail.Tiles[side.String()] = [2]float32{tile.X(), tile.Y()}
		}
	}
	if r.URL.Query().Get("download") != "" {
		webutils.WriteJsonFile(w, detail, m.Name())
		return
	}
	webutils.WriteJson(w, detail)
}

func requestBaked(w http.ResponseWriter, r *http.Request) (*blocky.Model, *blocky.BakedData, bool) {
	m, id, ok := requestModel(w, r)
	if !ok {
		return nil, nil, false
	}
	baked := serverLibrary.Baked(id)
	if baked == nil {
		webutils.WriteError(w, fmt.Errorf("model %d is not baked yet", id))
		return nil, nil, false
	}
	return m, baked, true
}

func HandlerModelBaked(w http.ResponseWriter, r *http.Request) {
	_, baked, ok := requestBaked(w, r)
	if !ok {
		return
	}

	type bucketSummary struct {
		Vertices  int  `json:"vertices"`
		Triangles int  `json:"triangles"`
		Tangents  bool `json:"tangents"`
	}
	type bakedSummary struct {
		Empty        bool                     `json:"empty"`
		Material     int                      `json:"material"`
		Transparency int                      `json:"transparency"`
		Color        [4]float32               `json:"color"`
		Sides        map[string]bucketSummary `json:"sides"`
		Interior     bucketSummary            `json:"interior"`
	}

	summary := bakedSummary{
		Empty:        baked.Empty,
		Material:     baked.MaterialID,
		Transparency: baked.TransparencyIndex,
		Color:        baked.Color,
		Sides:        make(map[string]bucketSummary, blocky.SideCount),
		Interior: bucketSummary{
			Vertices:  len(baked.Interior.Positions),
			Triangles: len(baked.Interior.Indices) / 3,
			Tangents:  len(baked.Interior.Tangents) != 0,
		},
	}
	for side := blocky.Side(0); side < blocky.SideCount; side++ {
		bucket := &baked.Sides[side]
		summary.Sides[side.String()] = bucketSummary{
			Vertices:  len(bucket.Positions),
			Triangles: len(bucket.Indices) / 3,
			Tangents:  len(bucket.Tangents) != 0,
		}
	}
	webutils.WriteJson(w, summary)
}

func HandlerDumpModel(w http.ResponseWriter, r *http.Request) {
	m, baked, ok := requestBaked(w, r)
	if !ok {
		return
	}
	dump := spew.Sdump(baked)
	webutils.WriteFile(w, bytes.NewReader([]byte(dump)), m.Name()+".baked.txt")
}

func HandlerExportModelGLTF(w http.ResponseWriter, r *http.Request) {
	m, baked, ok := requestBaked(w, r)
	if !ok {
		return
	}
	binary := r.URL.Query().Get("binary") != ""

	doc := meshio.BuildModelDocument(m.Name(), baked)
	var buf bytes.Buffer
	if err := meshio.EncodeGLTF(&buf, doc, binary); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, meshio.GLTFFileName(m.Name(), binary))
}

// showcaseChunk lines every model up along x with gaps, so one export
// previews the whole palette with culling against air only.
func showcaseChunk() *mesher.Chunk {
	count := serverLibrary.Len()
	c := mesher.NewChunk(2*count+1, 1, 1)
	for id := 0; id < count; id++ {
		c.Set(2*id+1, 0, 0, uint16(id))
	}
	return c
}

func HandlerExportChunkGLTF(w http.ResponseWriter, r *http.Request) {
	binary := r.URL.Query().Get("binary") != ""

	out := mesher.MeshChunk(serverLibrary.BakedPalette(), showcaseChunk())
	doc := meshio.BuildChunkDocument("showcase", out)
	var buf bytes.Buffer
	if err := meshio.EncodeGLTF(&buf, doc, binary); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, meshio.GLTFFileName("showcase", binary))
}

func HandlerExportChunkObj(w http.ResponseWriter, r *http.Request) {
	out := mesher.MeshChunk(serverLibrary.BakedPalette(), showcaseChunk())
	var buf bytes.Buffer
	if err := meshio.ExportChunkObj(&buf, out, "showcase"); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, "showcase.obj")
}

func HandlerRebake(w http.ResponseWriter, r *http.Request) {
	report := serverLibrary.BakeAll()
	webutils.WriteJson(w, report)
}

var statusUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerStatusWS(w http.ResponseWriter, r *http.Request) {
	conn, err := statusUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
