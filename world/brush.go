package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Determinant below this means a plane triple is parallel/coplanar and
	// produces no vertex.
	vertexDetEpsilon = float32(1e-6)
	// A candidate vertex may poke this far beyond another plane before it is
	// rejected.
	vertexSlack = float32(0.1)
	// Axis alignment tolerance when checking for existing bevel planes.
	bevelAxialEpsilon = float32(0.001)
)

// Plane is one half-space bounding a brush. A point p is inside the plane
// when dot(Normal, p) <= Dist.
type Plane struct {
	Normal mgl32.Vec3
	Dist   float32
}

// Brush is a convex collision volume: the intersection of its half-space
// planes, plus a derived tight bounding box. Brushes are built once at model
// load (bounds computed, then bevel planes appended) and immutable afterward.
type Brush struct {
	Planes []Plane
	Bounds cube.BBox

	degenerate bool
	beveled    bool
}

// Degenerate reports whether the brush had fewer than four independent planes
// and therefore encloses no volume. Degenerate brushes never collide.
func (b *Brush) Degenerate() bool {
	return b.degenerate
}

// computeBounds enumerates every plane triple, solves for the candidate
// vertex with the cross-product form of Cramer's rule, rejects points that
// violate any other half-space, and folds the survivors into a min/max.
func (b *Brush) computeBounds() {
	min := mgl32.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	max := mgl32.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}
	found := false

	n := len(b.Planes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				point, ok := intersectPlanes(b.Planes[i], b.Planes[j], b.Planes[k])
				if !ok || !b.containsPoint(point, i, j, k) {
					continue
				}
				found = true
				for a := 0; a < 3; a++ {
					min[a] = math32.Min(min[a], point[a])
					max[a] = math32.Max(max[a], point[a])
				}
			}
		}
	}

	if !found {
		// Too few independent planes to enclose a volume. Collapse to a
		// zero-size box at the origin and let traces skip the brush.
		b.degenerate = true
		b.Bounds = cube.Box(0, 0, 0, 0, 0, 0)
		return
	}
	b.Bounds = cube.Box(min[0], min[1], min[2], max[0], max[1], max[2])
}

func (b *Brush) containsPoint(p mgl32.Vec3, skipI, skipJ, skipK int) bool {
	for idx := range b.Planes {
		if idx == skipI || idx == skipJ || idx == skipK {
			continue
		}
		pl := &b.Planes[idx]
		if pl.Normal.Dot(p)-pl.Dist > vertexSlack {
			return false
		}
	}
	return true
}

// intersectPlanes solves the 3x3 system formed by three plane equations.
func intersectPlanes(p1, p2, p3 Plane) (mgl32.Vec3, bool) {
	c23 := p2.Normal.Cross(p3.Normal)
	det := p1.Normal.Dot(c23)
	if math32.Abs(det) < vertexDetEpsilon {
		return mgl32.Vec3{}, false
	}
	c31 := p3.Normal.Cross(p1.Normal)
	c12 := p1.Normal.Cross(p2.Normal)
	point := c23.Mul(p1.Dist).Add(c31.Mul(p2.Dist)).Add(c12.Mul(p3.Dist)).Mul(1 / det)
	return point, true
}

// addBevels appends an axis-aligned plane at the bounding-box face for each
// of the six axis directions that no existing plane covers. Without these, a
// box sweep can tunnel through a vertex or edge formed purely by angled
// planes. Runs exactly once, after computeBounds.
func (b *Brush) addBevels() {
	if b.beveled || b.degenerate {
		b.beveled = true
		return
	}
	for axis := 0; axis < 3; axis++ {
		if !b.hasAxialPlane(axis, 1) {
			var normal mgl32.Vec3
			normal[axis] = 1
			b.Planes = append(b.Planes, Plane{Normal: normal, Dist: b.Bounds.Max()[axis]})
		}
		if !b.hasAxialPlane(axis, -1) {
			var normal mgl32.Vec3
			normal[axis] = -1
			b.Planes = append(b.Planes, Plane{Normal: normal, Dist: -b.Bounds.Min()[axis]})
		}
	}
	b.beveled = true
}

func (b *Brush) hasAxialPlane(axis int, sign float32) bool {
	for i := range b.Planes {
		if math32.Abs(b.Planes[i].Normal[axis]-sign) <= bevelAxialEpsilon {
			return true
		}
	}
	return false
}

// BoxPlanes returns the six outward-facing planes of an axis-aligned box,
// for building worlds from box brushes.
func BoxPlanes(min, max mgl32.Vec3) []Plane {
	return []Plane{
		{Normal: mgl32.Vec3{1, 0, 0}, Dist: max.X()},
		{Normal: mgl32.Vec3{-1, 0, 0}, Dist: -min.X()},
		{Normal: mgl32.Vec3{0, 1, 0}, Dist: max.Y()},
		{Normal: mgl32.Vec3{0, -1, 0}, Dist: -min.Y()},
		{Normal: mgl32.Vec3{0, 0, 1}, Dist: max.Z()},
		{Normal: mgl32.Vec3{0, 0, -1}, Dist: -min.Z()},
	}
}
