package world

import (
	"github.com/elim2g/quicken/game"
)

// CollisionModel is the flat brush collection for one map. Models are built
// once from raw plane data and immutable afterward.
type CollisionModel struct {
	Brushes []Brush
}

// NewCollisionModel constructs a model from per-brush plane sets. Bounding
// boxes are computed and missing axis-aligned bevel planes appended here,
// exactly once, before any trace can see the brushes.
func NewCollisionModel(brushPlanes [][]Plane) *CollisionModel {
	m := &CollisionModel{Brushes: make([]Brush, 0, len(brushPlanes))}
	for _, planes := range brushPlanes {
		br := Brush{Planes: append([]Plane(nil), planes...)}
		br.computeBounds()
		br.addBevels()
		m.Brushes = append(m.Brushes, br)
	}
	return m
}

// World is one active map's collision state: a collision model plus the
// kernel set picked at startup. The brush list is immutable after load, so
// concurrent read-only traces against one World are safe.
type World struct {
	model *CollisionModel
	// ownsModel distinguishes a model synthesized by this world (test rooms)
	// from one borrowed from the map loader, so teardown of a shared model is
	// never attempted twice.
	ownsModel bool
	kernels   *game.Kernels
}

// LoadWorld wraps a model owned by the map loader.
func LoadWorld(model *CollisionModel) *World {
	return &World{model: model, kernels: game.ActiveKernels()}
}

func (w *World) Model() *CollisionModel {
	return w.model
}

func (w *World) OwnsModel() bool {
	return w.ownsModel
}

func (w *World) BrushCount() int {
	if w == nil || w.model == nil {
		return 0
	}
	return len(w.model.Brushes)
}

// Release drops the model reference. Only an owned model is detached here; a
// borrowed one stays alive for the loader that handed it out.
func (w *World) Release() {
	if w.ownsModel {
		w.model = nil
	}
}
