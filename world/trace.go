package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/elim2g/quicken/game"
)

// NoBrush marks a trace that hit nothing.
const NoBrush = -1

// TraceEpsilon (1/32) pulls the reported contact point slightly before the
// true intersection so the next trace does not start already touching.
const TraceEpsilon = float32(0.03125)

// TraceResult is the outcome of one box sweep. Fraction 1 means the move was
// unobstructed; StartSolid/AllSolid flag sweeps that began inside geometry.
type TraceResult struct {
	Fraction  float32
	EndPos    mgl32.Vec3
	HitNormal mgl32.Vec3
	HitDist   float32

	StartSolid bool
	AllSolid   bool

	BrushIndex int
}

func emptyTrace(end mgl32.Vec3) TraceResult {
	return TraceResult{Fraction: 1, EndPos: end, BrushIndex: NoBrush}
}

// TraceBrush sweeps the box described by mins/maxs from start to end against
// a single brush. Each plane is expanded outward by the box's support
// distance along -normal (the Minkowski sum of box and brush), then a slab
// test accumulates the latest entering and earliest leaving fraction.
func TraceBrush(b *Brush, start, end, mins, maxs mgl32.Vec3) TraceResult {
	tr := emptyTrace(end)
	if b == nil || b.degenerate || len(b.Planes) == 0 {
		return tr
	}
	k := game.ActiveKernels()

	enterFrac := float32(-1)
	leaveFrac := float32(1)
	clipPlane := -1
	getout, startout := false, false

	for i := range b.Planes {
		pl := &b.Planes[i]

		// Support point of the swept box opposite the plane normal.
		var ofs mgl32.Vec3
		for a := 0; a < 3; a++ {
			if pl.Normal[a] < 0 {
				ofs[a] = maxs[a]
			} else {
				ofs[a] = mins[a]
			}
		}
		dist := pl.Dist - k.Dot(ofs, pl.Normal)
		d1 := k.PlaneDistance(pl.Normal, dist, start)
		d2 := k.PlaneDistance(pl.Normal, dist, end)

		if d2 > 0 {
			getout = true
		}
		if d1 > 0 {
			startout = true
		}
		// Entirely in front of this plane and not closing on it: the sweep
		// misses the whole brush.
		if d1 > 0 && (d2 >= TraceEpsilon || d2 >= d1) {
			return tr
		}
		if d1 <= 0 && d2 <= 0 {
			continue
		}
		if d1 > d2 {
			// Entering. Strictly-greater comparison keeps the first plane in
			// iteration order on ties, which keeps results deterministic for
			// a given plane array.
			f := (d1 - TraceEpsilon) / (d1 - d2)
			if f > enterFrac {
				enterFrac = f
				clipPlane = i
			}
		} else {
			f := (d1 + TraceEpsilon) / (d1 - d2)
			if f < leaveFrac {
				leaveFrac = f
			}
		}
	}

	if !startout {
		tr.StartSolid = true
		if !getout {
			tr.AllSolid = true
			tr.Fraction = 0
			tr.EndPos = start
		}
		return tr
	}
	if enterFrac < leaveFrac && enterFrac > -1 && clipPlane >= 0 {
		if enterFrac < 0 {
			enterFrac = 0
		}
		tr.Fraction = enterFrac
		tr.HitNormal = b.Planes[clipPlane].Normal
		tr.HitDist = b.Planes[clipPlane].Dist
		tr.EndPos = start.Add(end.Sub(start).Mul(enterFrac))
	}
	return tr
}

// TraceWorld sweeps a box through every brush in the world, keeping the
// shortest-fraction hit. Broad phase is a per-brush AABB overlap test against
// the swept bounds of the whole move; the iteration is deliberately
// O(brush count). A nil or unloaded world degrades to a full-fraction clear
// trace, since a world can legitimately be absent before map load completes.
func TraceWorld(w *World, start, end, mins, maxs mgl32.Vec3) TraceResult {
	tr := emptyTrace(end)
	if w == nil || w.model == nil {
		return tr
	}

	moveBounds := sweptBounds(start, end, mins, maxs)
	for i := range w.model.Brushes {
		br := &w.model.Brushes[i]
		if br.degenerate || !w.kernels.BoxesOverlap(moveBounds, br.Bounds) {
			continue
		}
		btr := TraceBrush(br, start, end, mins, maxs)
		if btr.AllSolid {
			btr.BrushIndex = i
			return btr
		}
		if btr.StartSolid {
			tr.StartSolid = true
		}
		if btr.Fraction < tr.Fraction {
			startSolid := tr.StartSolid
			tr = btr
			tr.StartSolid = tr.StartSolid || startSolid
			tr.BrushIndex = i
		}
	}
	return tr
}

// sweptBounds is the AABB covering the box at both endpoints of the move.
func sweptBounds(start, end, mins, maxs mgl32.Vec3) cube.BBox {
	var lo, hi mgl32.Vec3
	for a := 0; a < 3; a++ {
		lo[a] = math32.Min(start[a], end[a]) + mins[a]
		hi[a] = math32.Max(start[a], end[a]) + maxs[a]
	}
	return cube.Box(lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
}
