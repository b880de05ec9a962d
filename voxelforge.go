package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/voxelforge/voxelforge/config"
	"github.com/voxelforge/voxelforge/library"
	"github.com/voxelforge/voxelforge/mesher"
	"github.com/voxelforge/voxelforge/meshio"
	"github.com/voxelforge/voxelforge/web"
)

func exportLibrary(l *library.Library, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for id := 0; id < l.Len(); id++ {
		baked := l.Baked(id)
		if baked == nil || baked.Empty {
			continue
		}
		name := l.Model(id).Name()

		doc := meshio.BuildModelDocument(name, baked)
		path := filepath.Join(dir, meshio.GLTFFileName(name, true))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = meshio.EncodeGLTF(f, doc, true)
		f.Close()
		if err != nil {
			return err
		}
		log.Printf("[main] exported %v", path)
	}
	return nil
}

func main() {
	var addr, libraryPath, settingsPath, exportDir string
	var atlasSize, workers int
	var tangents bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&libraryPath, "library", "", "Path to yaml model library document")
	flag.StringVar(&settingsPath, "settings", "", "Path to yaml bake settings override")
	flag.IntVar(&atlasSize, "atlas", 0, "Texture atlas size in tiles (overrides settings file)")
	flag.IntVar(&workers, "workers", 0, "Bake worker count (overrides settings file)")
	flag.BoolVar(&tangents, "tangents", false, "Bake tangents for normal mapping")
	flag.StringVar(&exportDir, "export", "", "Bake once, write every model as glb into this directory and exit")
	flag.Parse()

	if libraryPath == "" {
		flag.PrintDefaults()
		return
	}

	if settingsPath != "" {
		if err := config.LoadBakeSettings(settingsPath); err != nil {
			log.Fatal(err)
		}
	}
	settings := config.GetBakeSettings()
	if atlasSize != 0 {
		settings.AtlasSize = atlasSize
	}
	if workers != 0 {
		settings.Workers = workers
	}
	if tangents {
		settings.BakeTangents = true
	}
	if err := config.SetBakeSettings(settings); err != nil {
		log.Fatal(err)
	}

	l, err := library.LoadFromFile(libraryPath, meshio.LoadMeshData)
	if err != nil {
		log.Fatal(err)
	}

	report := l.BakeAll()
	if report.Failed != 0 {
		log.Printf("[main] %d of %d models failed to bake", report.Failed, report.Models)
	}

	if exportDir != "" {
		if err := exportLibrary(l, exportDir); err != nil {
			log.Fatal(err)
		}

		out := mesher.MeshChunk(l.BakedPalette(), showcase(l))
		f, err := os.Create(filepath.Join(exportDir, "showcase.obj"))
		if err != nil {
			log.Fatal(err)
		}
		err = meshio.ExportChunkObj(f, out, "showcase")
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := web.StartServer(addr, l); err != nil {
		log.Fatal(err)
	}
}

// showcase places every model in its own cell with air gaps, so nothing
// gets culled away.
func showcase(l *library.Library) *mesher.Chunk {
	c := mesher.NewChunk(2*l.Len()+1, 1, 1)
	for id := 0; id < l.Len(); id++ {
		c.Set(2*id+1, 0, 0, uint16(id))
	}
	return c
}
