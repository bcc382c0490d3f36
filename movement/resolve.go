package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/elim2g/quicken/game"
	"github.com/elim2g/quicken/world"
)

// Accelerate adds speed toward wishDir, clamped so the projection of velocity
// onto wishDir never exceeds wishSpeed. Repeated calls converge the projected
// speed to exactly wishSpeed and no further.
func Accelerate(vel, wishDir mgl32.Vec3, wishSpeed, accel, dt float32) mgl32.Vec3 {
	add := wishSpeed - vel.Dot(wishDir)
	if add <= 0 {
		return vel
	}
	accelSpeed := accel * dt * wishSpeed
	if accelSpeed > add {
		accelSpeed = add
	}
	return vel.Add(wishDir.Mul(accelSpeed))
}

// AirAccelerate is the airborne variant. The clamp basis is capped at
// AirSpeedCap while the added magnitude still scales with the true wish
// speed. Because the clamp target is small, a wide angle between velocity and
// wish direction almost always leaves room to add speed, which is what makes
// repeated small-angle turns compound speed mid-air. Both the cap constant
// and the clamp/magnitude split must stay exactly as they are.
func AirAccelerate(vel, wishDir mgl32.Vec3, wishSpeed, accel, dt float32) mgl32.Vec3 {
	wishSpd := math32.Min(wishSpeed, game.AirSpeedCap)
	add := wishSpd - vel.Dot(wishDir)
	if add <= 0 {
		return vel
	}
	accelSpeed := accel * wishSpeed * dt
	if accelSpeed > add {
		accelSpeed = add
	}
	return vel.Add(wishDir.Mul(accelSpeed))
}

// ApplyFriction decays horizontal speed. The control value is
// max(speed, StopSpeed), so low speeds decelerate proportionally faster and
// stop crisply. Vertical velocity is never touched by friction.
func ApplyFriction(vel mgl32.Vec3, friction, dt float32) mgl32.Vec3 {
	speed := math32.Sqrt(game.Vec3HzDistSqr(vel))
	if speed < 1 {
		vel[0], vel[1] = 0, 0
		return vel
	}
	control := math32.Max(speed, game.StopSpeed)
	newSpeed := speed - control*friction*dt
	if newSpeed < 0 {
		newSpeed = 0
	}
	scale := newSpeed / speed
	vel[0] *= scale
	vel[1] *= scale
	return vel
}

// Resolve advances one player by one fixed tick: countdowns, ground probe,
// jump handling, acceleration or air physics, then the swept move through the
// world. speedScale comes from the predictor and bounds speculative motion;
// real input runs with 1.
func Resolve(w *world.World, p *PlayerState, cmd InputCommand, dt, speedScale float32) {
	if p.SplashSlickTicks > 0 {
		p.SplashSlickTicks--
	}

	p.Crouched = cmd.Pressed(ButtonCrouch)
	if p.Crouched {
		p.Maxs = CrouchMaxs
	} else {
		p.Maxs = StandMaxs
	}

	GroundCheck(w, p)

	jumpDown := cmd.Pressed(ButtonJump)
	freshPress := jumpDown && !p.JumpHeld
	p.JumpHeld = jumpDown

	if p.OnGround {
		if jumpDown || p.JumpBufferTicks > 0 {
			// Fires before friction is applied this tick; applying friction
			// first would bleed speed on every hop of a chain.
			p.Velocity[2] = game.JumpVelocity
			p.OnGround = false
			p.GroundNormal = mgl32.Vec3{}
			p.JumpBufferTicks = 0
			p.SplashSlickTicks = 2
		}
	} else {
		// The buffer only counts down while airborne; a fresh press re-arms
		// it so a jump pressed slightly before landing still fires.
		if p.JumpBufferTicks > 0 {
			p.JumpBufferTicks--
		}
		if freshPress {
			p.JumpBufferTicks = game.JumpBufferTicks
		}
	}

	wishDir, wishSpeed := wishFromCommand(cmd, p.MaxSpeed)
	wishSpeed *= speedScale

	if p.OnGround {
		friction := game.GroundFriction
		if Classify(p) == StateCrouchSlide {
			friction = game.SlideFriction
		}
		p.Velocity = ApplyFriction(p.Velocity, friction, dt)
		p.Velocity = Accelerate(p.Velocity, wishDir, wishSpeed, game.GroundAccelerate, dt)
		if p.GroundNormal != (mgl32.Vec3{}) {
			// Keep the result parallel to the walked surface.
			p.Velocity = ClipVelocity(p.Velocity, p.GroundNormal, game.Overclip)
		}
	} else {
		p.Velocity = AirAccelerate(p.Velocity, wishDir, wishSpeed, game.AirAccelerate, dt)
		p.Velocity[2] -= p.Gravity * dt
	}

	StepSlideMove(w, p, dt)
}

// wishFromCommand converts quantized impulses and view yaw into a horizontal
// wish direction and speed, applying the walk/crouch modifiers.
func wishFromCommand(cmd InputCommand, maxSpeed float32) (mgl32.Vec3, float32) {
	forward, right, _ := game.AnglesToBasis(0, cmd.Yaw.Degrees())
	fmove := float32(cmd.ForwardMove) * (1.0 / 127.0)
	smove := float32(cmd.SideMove) * (1.0 / 127.0)

	wishVel := forward.Mul(fmove).Add(right.Mul(smove))
	wishVel[2] = 0

	length := wishVel.Len()
	if length == 0 {
		return mgl32.Vec3{}, 0
	}
	wishDir := wishVel.Mul(1 / length)

	wishSpeed := length * maxSpeed
	switch {
	case cmd.Pressed(ButtonCrouch):
		wishSpeed *= game.CrouchSpeedScale
	case cmd.Pressed(ButtonWalk):
		wishSpeed *= game.WalkSpeedScale
	}
	if wishSpeed > maxSpeed {
		wishSpeed = maxSpeed
	}
	return wishDir, wishSpeed
}
