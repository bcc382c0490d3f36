package movement

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/elim2g/quicken/game"
	"github.com/elim2g/quicken/world"
)

// Near-identical contact normals above this dot product collapse into one
// recorded clip plane. Curved geometry made of many near-coplanar brushes
// otherwise floods the plane list and fakes a corner.
const planeDedupDot = float32(0.99)

// ClipVelocity removes the into-plane component of v scaled by overbounce,
// then re-removes any residual negative dot product left by floating point
// slop.
func ClipVelocity(v, normal mgl32.Vec3, overbounce float32) mgl32.Vec3 {
	backoff := v.Dot(normal) * overbounce
	out := v.Sub(normal.Mul(backoff))
	if adjust := out.Dot(normal); adjust < 0 {
		out = out.Sub(normal.Mul(adjust))
	}
	return out
}

// SlideMove advances the player's origin along its velocity for dt seconds,
// tracing and clipping against world geometry for up to MaxSlideBumps
// contacts. The clip-plane accumulator is a fixed array; overflow means the
// player is cornered and velocity is zeroed rather than growing the list.
// Returns true when movement was fully blocked.
func SlideMove(w *world.World, p *PlayerState, dt float32) bool {
	var planes [game.MaxClipPlanes]mgl32.Vec3
	numPlanes := 0
	timeLeft := dt
	primalVel := p.Velocity

	for bump := 0; bump < game.MaxSlideBumps; bump++ {
		if p.Velocity == (mgl32.Vec3{}) {
			break
		}
		end := p.Origin.Add(p.Velocity.Mul(timeLeft))
		tr := world.TraceWorld(w, p.Origin, end, p.Mins, p.Maxs)
		if tr.AllSolid {
			p.Velocity = mgl32.Vec3{}
			return true
		}
		if tr.Fraction > 0 {
			p.Origin = tr.EndPos
		}
		if tr.Fraction == 1 {
			break
		}
		timeLeft -= timeLeft * tr.Fraction

		duplicate := false
		for i := 0; i < numPlanes; i++ {
			if tr.HitNormal.Dot(planes[i]) > planeDedupDot {
				// Same surface again; nudge out along the normal instead of
				// recording a second copy.
				p.Velocity = p.Velocity.Add(tr.HitNormal)
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		if numPlanes >= game.MaxClipPlanes {
			p.Velocity = mgl32.Vec3{}
			return true
		}
		planes[numPlanes] = tr.HitNormal
		numPlanes++

		// Accept the first single-plane clip that does not re-penetrate any
		// other recorded plane.
		cleared := false
		for i := 0; i < numPlanes && !cleared; i++ {
			clipped := ClipVelocity(p.Velocity, planes[i], game.Overclip)
			ok := true
			for j := 0; j < numPlanes; j++ {
				if j != i && clipped.Dot(planes[j]) < 0 {
					ok = false
					break
				}
			}
			if ok {
				p.Velocity = clipped
				cleared = true
			}
		}
		if !cleared {
			if numPlanes != 2 {
				// Three or more unresolved planes: cornered.
				p.Velocity = mgl32.Vec3{}
				return true
			}
			crease := planes[0].Cross(planes[1])
			if crease.Len() < 1e-5 {
				p.Velocity = mgl32.Vec3{}
				return true
			}
			crease = crease.Normalize()
			p.Velocity = crease.Mul(crease.Dot(p.Velocity))
		}

		// A clip that reversed the move would let walls feed speed back in.
		if p.Velocity.Dot(primalVel) <= 0 {
			p.Velocity = mgl32.Vec3{}
			return true
		}
	}
	return false
}

// StepSlideMove runs SlideMove twice, once directly and once from a
// StepHeight raised start pressed back down afterward, keeping whichever
// produced the greater horizontal displacement. The step attempt runs for
// airborne movement too, so a player hopping up stairs does not catch on a
// riser's vertical face mid-flight.
func StepSlideMove(w *world.World, p *PlayerState, dt float32) {
	startOrigin, startVel := p.Origin, p.Velocity

	SlideMove(w, p, dt)
	downOrigin, downVel := p.Origin, p.Velocity

	// Unobstructed moves leave velocity untouched; nothing to step over.
	if p.Velocity == startVel {
		return
	}

	up := startOrigin.Add(mgl32.Vec3{0, 0, game.StepHeight})
	trUp := world.TraceWorld(w, startOrigin, up, p.Mins, p.Maxs)
	if trUp.AllSolid || trUp.Fraction == 0 {
		return
	}
	stepSize := trUp.EndPos.Z() - startOrigin.Z()

	p.Origin = trUp.EndPos
	p.Velocity = startVel
	SlideMove(w, p, dt)

	trDown := world.TraceWorld(w, p.Origin, p.Origin.Sub(mgl32.Vec3{0, 0, stepSize}), p.Mins, p.Maxs)
	if !trDown.AllSolid {
		p.Origin = trDown.EndPos
	}
	if trDown.Fraction < 1 {
		p.Velocity = ClipVelocity(p.Velocity, trDown.HitNormal, game.Overclip)
	}

	// The stepped attempt only wins if it landed on walkable ground (or hit
	// nothing at all, the mid-air pass-over case) and actually got farther.
	landedOK := trDown.Fraction == 1 || trDown.HitNormal.Z() >= game.MinWalkNormal
	stepDist := game.Vec3HzDistSqr(p.Origin.Sub(startOrigin))
	downDist := game.Vec3HzDistSqr(downOrigin.Sub(startOrigin))
	if !landedOK || stepDist <= downDist {
		p.Origin, p.Velocity = downOrigin, downVel
	}
}
