package movement

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/elim2g/quicken/game"
	"github.com/elim2g/quicken/world"
)

// MoveState classifies a player's current movement situation. It is derived
// fresh every tick from the ground probe, never stored as authoritative truth
// across ticks.
type MoveState uint8

const (
	StateGrounded MoveState = iota
	StateAirborne
	StateCrouchSlide
	StateFalling
)

func (s MoveState) String() string {
	switch s {
	case StateGrounded:
		return "grounded"
	case StateAirborne:
		return "airborne"
	case StateCrouchSlide:
		return "crouchslide"
	case StateFalling:
		return "falling"
	default:
		return "unknown"
	}
}

// Standing and crouched bounding-box extents, in world units around the
// origin.
var (
	StandMins  = mgl32.Vec3{-15, -15, -24}
	StandMaxs  = mgl32.Vec3{15, 15, 32}
	CrouchMaxs = mgl32.Vec3{15, 15, 16}
)

// PlayerState is the authoritative movement state for one player. It is
// owned by the simulation and mutated only inside a tick.
type PlayerState struct {
	Origin   mgl32.Vec3
	Velocity mgl32.Vec3

	Mins mgl32.Vec3
	Maxs mgl32.Vec3

	OnGround     bool
	GroundNormal mgl32.Vec3

	JumpHeld        bool
	JumpBufferTicks uint32
	// SplashSlickTicks suppresses the ground snap for a few ticks after a
	// launch so the probe cannot re-ground the player mid-takeoff.
	SplashSlickTicks uint32

	MaxSpeed float32
	Gravity  float32

	Crouched bool
}

func NewPlayerState(origin mgl32.Vec3) *PlayerState {
	return &PlayerState{
		Origin:   origin,
		Mins:     StandMins,
		Maxs:     StandMaxs,
		MaxSpeed: game.DefaultMaxSpeed,
		Gravity:  game.DefaultGravity,
	}
}

// GroundCheck recomputes ground contact from a short downward probe. OnGround
// is never carried over from the previous tick uninspected.
func GroundCheck(w *world.World, p *PlayerState) {
	if p.SplashSlickTicks > 0 {
		p.OnGround = false
		p.GroundNormal = mgl32.Vec3{}
		return
	}
	start := p.Origin.Add(mgl32.Vec3{0, 0, game.GroundProbeAbove})
	end := p.Origin.Sub(mgl32.Vec3{0, 0, game.GroundProbeBelow})
	tr := world.TraceWorld(w, start, end, p.Mins, p.Maxs)
	if tr.Fraction < 1 && !tr.StartSolid && tr.HitNormal.Z() >= game.MinWalkNormal {
		p.OnGround = true
		p.GroundNormal = tr.HitNormal
		return
	}
	p.OnGround = false
	p.GroundNormal = mgl32.Vec3{}
}

// Classify maps the player state to a MoveState for the predictor and
// correction blending.
func Classify(p *PlayerState) MoveState {
	if p.OnGround {
		if p.Crouched && game.Vec3HzDistSqr(p.Velocity) >= game.CrouchSlideMinSpeed*game.CrouchSlideMinSpeed {
			return StateCrouchSlide
		}
		return StateGrounded
	}
	if p.Velocity.Z() < 0 {
		return StateFalling
	}
	return StateAirborne
}
