package prediction

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/elim2g/quicken/movement"
)

// BeginCorrection starts blending away a reconciliation error. The squared
// error magnitude picks the blend duration: short for small errors, medium
// for moderate ones, and an instant snap (single tick) beyond the large
// threshold. Mid-air snaps are more visually disruptive, so airborne and
// falling players get the duration stretched by the profile's air
// multiplier, rounded to the nearest tick and floored at 1.
func (c *ClientState) BeginCorrection(profile *Profile, errorVec mgl32.Vec3, state movement.MoveState) {
	distSq := errorVec.Dot(errorVec)

	var ticks uint32
	switch {
	case distSq <= profile.CorrectionSmallDistSq:
		ticks = profile.CorrectionShortTicks
	case distSq <= profile.CorrectionLargeDistSq:
		ticks = profile.CorrectionMediumTicks
	default:
		ticks = 1
	}

	if state == movement.StateAirborne || state == movement.StateFalling {
		ticks = uint32(math32.Round(float32(ticks) * profile.CorrectionAirMultiplier))
		if ticks < 1 {
			ticks = 1
		}
	}

	c.CorrectionPos = errorVec
	c.CorrectionDone = 0
	c.CorrectionTotal = ticks
}

// TickCorrection advances the blend one tick and returns the visual offset
// the presentation layer should add on top of the authoritative position.
// The offset decays linearly from the full error to exactly zero on the
// final tick; once complete it stays zero. The authoritative position is
// never touched.
func (c *ClientState) TickCorrection() mgl32.Vec3 {
	if c.CorrectionTotal == 0 || c.CorrectionDone >= c.CorrectionTotal {
		return mgl32.Vec3{}
	}
	c.CorrectionDone++
	remaining := 1 - float32(c.CorrectionDone)/float32(c.CorrectionTotal)
	return c.CorrectionPos.Mul(remaining)
}

// CorrectionProgress reports blend completion in [0,1]. 1 means no blend is
// active.
func (c *ClientState) CorrectionProgress() float32 {
	if c.CorrectionTotal == 0 {
		return 1
	}
	p := float32(c.CorrectionDone) / float32(c.CorrectionTotal)
	if p > 1 {
		p = 1
	}
	return p
}
