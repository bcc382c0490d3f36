package world

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestComputeBoundsBoxBrush(t *testing.T) {
	m := NewCollisionModel([][]Plane{BoxPlanes(mgl32.Vec3{-10, -20, -30}, mgl32.Vec3{10, 20, 30})})
	b := &m.Brushes[0]
	if b.Degenerate() {
		t.Fatal("box brush flagged degenerate")
	}
	if b.Bounds.Min() != (mgl32.Vec3{-10, -20, -30}) || b.Bounds.Max() != (mgl32.Vec3{10, 20, 30}) {
		t.Fatalf("bounds %v..%v", b.Bounds.Min(), b.Bounds.Max())
	}
}

func TestDegenerateBrushIsNonColliding(t *testing.T) {
	// Three planes cannot enclose a volume.
	planes := []Plane{
		{Normal: mgl32.Vec3{1, 0, 0}, Dist: 10},
		{Normal: mgl32.Vec3{0, 1, 0}, Dist: 10},
		{Normal: mgl32.Vec3{0, 0, 1}, Dist: 10},
	}
	m := NewCollisionModel([][]Plane{planes})
	b := &m.Brushes[0]
	if !b.Degenerate() {
		t.Fatal("expected degenerate brush")
	}
	if b.Bounds.Min() != (mgl32.Vec3{}) || b.Bounds.Max() != (mgl32.Vec3{}) {
		t.Fatalf("degenerate bounds not collapsed: %v..%v", b.Bounds.Min(), b.Bounds.Max())
	}

	tr := TraceBrush(b, mgl32.Vec3{0, 0, 20}, mgl32.Vec3{0, 0, -20}, mgl32.Vec3{}, mgl32.Vec3{})
	if tr.Fraction != 1 || tr.StartSolid {
		t.Fatalf("degenerate brush collided: %+v", tr)
	}
}

func TestBevelSynthesisOnRamp(t *testing.T) {
	m := NewCollisionModel([][]Plane{rampPlanes()})
	b := &m.Brushes[0]

	// The wedge has no +z plane of its own; a bevel must appear at the
	// bounding-box top face.
	var found bool
	for _, pl := range b.Planes {
		if pl.Normal == (mgl32.Vec3{0, 0, 1}) {
			found = true
			if math32.Abs(pl.Dist-b.Bounds.Max().Z()) > 1e-3 {
				t.Fatalf("+z bevel at %v, want %v", pl.Dist, b.Bounds.Max().Z())
			}
		}
	}
	if !found {
		t.Fatal("no +z bevel plane synthesized")
	}
	if math32.Abs(b.Bounds.Max().Z()-64) > 0.5 {
		t.Fatalf("ramp crest at %v, want 64", b.Bounds.Max().Z())
	}
}

func TestBevelsAppliedOnce(t *testing.T) {
	m := NewCollisionModel([][]Plane{rampPlanes()})
	b := &m.Brushes[0]
	before := len(b.Planes)
	b.addBevels()
	if len(b.Planes) != before {
		t.Fatalf("second bevel pass grew plane count %d -> %d", before, len(b.Planes))
	}
}
