// Package world hosts registered collision models and produces
// candidate contact pairs from their world bounding boxes and the
// family/mask gate.
//
// Registration is the moment family/mask settings become effective:
// Register snapshots the model's gate state into the broad-phase cache,
// so mutations made after registration are inert until Resync.
package world

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/colmak/collsim/internal/collide"
	"github.com/colmak/collsim/internal/geom"
)

// Pair identifies two registered models whose envelope-expanded bounds
// overlap and whose families allow contact. Always A < B.
type Pair struct {
	A, B int
}

type entry struct {
	model *collide.Model

	// Gate state cached at Register/Resync time.
	group uint16
	mask  uint16
}

// World owns the registered models and the cached gate state. It is
// not safe for concurrent mutation; Scan parallelizes internally over
// immutable snapshots.
type World struct {
	entries []entry
	workers int
}

// New creates an empty world scanning with the given worker count;
// workers <= 0 selects one per CPU.
func New(workers int) *World {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &World{workers: workers}
}

// Register adds a model and snapshots its family group and mask.
// Returns the model's id within this world.
func (w *World) Register(m *collide.Model) int {
	w.entries = append(w.entries, entry{
		model: m,
		group: m.FamilyGroup(),
		mask:  m.FamilyMask(),
	})
	return len(w.entries) - 1
}

// Resync refreshes the cached gate state for a registered model, making
// family/mask mutations performed after Register effective.
func (w *World) Resync(id int) error {
	if id < 0 || id >= len(w.entries) {
		return fmt.Errorf("world: no model with id %d", id)
	}
	e := &w.entries[id]
	e.group = e.model.FamilyGroup()
	e.mask = e.model.FamilyMask()
	return nil
}

func (w *World) NumModels() int { return len(w.entries) }

// ModelAt returns the registered model with the given id.
func (w *World) ModelAt(id int) *collide.Model { return w.entries[id].model }

// gated applies the symmetric family/mask predicate on the cached
// snapshots, not the models' live values.
func (w *World) gated(i, j int) bool {
	a, b := &w.entries[i], &w.entries[j]
	return a.group&b.mask != 0 && b.group&a.mask != 0
}

// Scan syncs every model to its body's current transform and returns
// all candidate pairs: gate passes and world AABBs overlap. The pair
// enumeration is chunked across workers.
func (w *World) Scan(ctx context.Context) ([]Pair, error) {
	n := len(w.entries)
	boxes := make([]geom.AABB, n)
	for i := range w.entries {
		if err := w.entries[i].model.SyncPosition(); err != nil {
			return nil, fmt.Errorf("world: syncing model %d: %w", i, err)
		}
		boxes[i] = w.entries[i].model.AABB()
	}

	workers := w.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	local := make([][]Pair, workers)
	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers

	for wk := 0; wk < workers; wk++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunk
			end := start + chunk
			if end > n {
				end = n
			}

			var pairs []Pair
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				for j := i + 1; j < n; j++ {
					if !w.gated(i, j) {
						continue
					}
					if !boxes[i].Overlaps(boxes[j]) {
						continue
					}
					pairs = append(pairs, Pair{A: i, B: j})
				}
			}
			local[worker] = pairs
		}(wk)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pairs []Pair
	for _, p := range local {
		pairs = append(pairs, p...)
	}
	return pairs, nil
}
