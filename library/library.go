// Package library maintains the palette of block models and their baked
// representations consumed by the mesher.
package library

import (
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/voxelforge/voxelforge/blocky"
	"github.com/voxelforge/voxelforge/config"
	"github.com/voxelforge/voxelforge/status"
)

// Library owns an ordered set of models. Ids are assigned on insertion
// and double as indices into the baked palette. Models are only added
// single-threaded at startup; the baked palette may be swapped by a
// rebake while web handlers read it, so it sits behind a lock. Workers
// inside one BakeAll each write exclusively to their own slot of a
// palette not yet published.
type Library struct {
	models []*blocky.Model

	bakedMu sync.RWMutex
	baked   []blocky.BakedData
}

func NewLibrary() *Library {
	return &Library{}
}

func (l *Library) Len() int { return len(l.models) }

// AddModel appends a model and assigns its id. The model must not
// belong to another library already.
func (l *Library) AddModel(m *blocky.Model) (int, error) {
	if len(l.models) >= blocky.MaxModels {
		return -1, errors.Errorf("Library is full (%d models)", blocky.MaxModels)
	}
	id := len(l.models)
	if err := m.SetID(id); err != nil {
		return -1, err
	}
	l.models = append(l.models, m)
	return id, nil
}

func (l *Library) Model(id int) *blocky.Model {
	if id < 0 || id >= len(l.models) {
		return nil
	}
	return l.models[id]
}

// ModelByName does a linear scan; the palette is small and this is only
// used by author-facing lookups.
func (l *Library) ModelByName(name string) *blocky.Model {
	for _, m := range l.models {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// Baked returns the baked palette entry of a model, or nil before the
// first BakeAll or for unknown ids. The entry stays valid after a
// rebake swaps the palette, it just goes stale.
func (l *Library) Baked(id int) *blocky.BakedData {
	l.bakedMu.RLock()
	defer l.bakedMu.RUnlock()
	if l.baked == nil || id < 0 || id >= len(l.baked) {
		return nil
	}
	return &l.baked[id]
}

// BakedPalette exposes the whole palette for the mesher. Indices match
// model ids. The returned slice is a consistent snapshot: a concurrent
// rebake publishes a fresh slice instead of mutating this one.
func (l *Library) BakedPalette() []blocky.BakedData {
	l.bakedMu.RLock()
	defer l.bakedMu.RUnlock()
	return l.baked
}

// BakeReport summarizes one BakeAll run.
type BakeReport struct {
	Batch   string
	Models  int
	Failed  int
	Elapsed time.Duration
}

// BakeAll re-bakes every model into a fresh palette using the current
// bake settings. Models bake independently across a bounded worker
// pool. Per-model failures are reported and leave that model empty; the
// rest of the palette is unaffected.
func (l *Library) BakeAll() BakeReport {
	settings := config.GetBakeSettings()
	batch := status.NewBatch()
	start := time.Now()

	batch.Info("baking %d models", len(l.models))

	baked := make([]blocky.BakedData, len(l.models))

	workers := settings.Workers
	if workers > len(l.models) {
		workers = len(l.models)
	}
	if workers < 1 {
		workers = 1
	}

	type result struct {
		id  int
		err error
	}

	jobs := make(chan int)
	results := make(chan result)

	for w := 0; w < workers; w++ {
		go func() {
			for id := range jobs {
				err := l.models[id].Bake(&baked[id], settings.AtlasSize, settings.BakeTangents)
				results <- result{id: id, err: err}
			}
		}()
	}

	go func() {
		for id := range l.models {
			jobs <- id
		}
		close(jobs)
	}()

	failed := 0
	for done := 0; done < len(l.models); done++ {
		res := <-results
		if res.err != nil {
			failed++
			log.Printf("[library] bake %s: model %d %q: %v",
				batch.ID(), res.id, l.models[res.id].Name(), res.err)
			batch.Error("model %q failed to bake: %v", l.models[res.id].Name(), res.err)
		}
		batch.Progress(float32(done+1)/float32(len(l.models)),
			"baked %d/%d models", done+1, len(l.models))
	}

	l.bakedMu.Lock()
	l.baked = baked
	l.bakedMu.Unlock()

	report := BakeReport{
		Batch:   batch.ID(),
		Models:  len(l.models),
		Failed:  failed,
		Elapsed: time.Since(start),
	}
	batch.Info("baked %d models, %d failed", report.Models, report.Failed)
	log.Printf("[library] bake %s: %d models, %d failed, %v",
		report.Batch, report.Models, report.Failed, report.Elapsed)
	return report
}
