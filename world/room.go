package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/elim2g/quicken/game"
)

// TestRoom synthesizes a boxed arena for tests and the sandbox server: a
// floor, four walls, a four-step staircase and a 45-degree ramp. The world
// owns this model; it was not handed out by a map loader.
func TestRoom() *World {
	var brushes [][]Plane
	box := func(min, max mgl32.Vec3) {
		brushes = append(brushes, BoxPlanes(min, max))
	}

	box(mgl32.Vec3{-512, -512, -16}, mgl32.Vec3{512, 512, 0})

	box(mgl32.Vec3{-528, -528, 0}, mgl32.Vec3{-512, 528, 256})
	box(mgl32.Vec3{512, -528, 0}, mgl32.Vec3{528, 528, 256})
	box(mgl32.Vec3{-512, -528, 0}, mgl32.Vec3{512, -512, 256})
	box(mgl32.Vec3{-512, 512, 0}, mgl32.Vec3{512, 528, 256})

	// Staircase: four 16-unit risers, shallow enough for StepHeight.
	for i := 0; i < 4; i++ {
		x := float32(128 + 32*i)
		box(mgl32.Vec3{x, -64, 0}, mgl32.Vec3{x + 32, 64, float32(16 * (i + 1))})
	}

	brushes = append(brushes, rampPlanes())

	return &World{
		model:     NewCollisionModel(brushes),
		ownsModel: true,
		kernels:   game.ActiveKernels(),
	}
}

// rampPlanes is a wedge sloping from z=0 at x=-128 up to z=64 at x=-256. Its
// slope plane is the only non-axial one, so the +z bevel synthesized at the
// bounding-box top face gets exercised by sweeps across the crest.
func rampPlanes() []Plane {
	// Unit normal of the slope through (-128, y, 0) and (-256, y, 64).
	slope := mgl32.Vec3{64, 0, 128}.Normalize()
	return []Plane{
		{Normal: mgl32.Vec3{1, 0, 0}, Dist: -128},
		{Normal: mgl32.Vec3{-1, 0, 0}, Dist: 256},
		{Normal: mgl32.Vec3{0, 1, 0}, Dist: 64},
		{Normal: mgl32.Vec3{0, -1, 0}, Dist: 64},
		{Normal: mgl32.Vec3{0, 0, -1}, Dist: 0},
		{Normal: slope, Dist: slope.Dot(mgl32.Vec3{-128, 0, 0})},
	}
}
