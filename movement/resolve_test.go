package movement

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/elim2g/quicken/game"
	"github.com/elim2g/quicken/world"
)

const tickDt = float32(1.0 / game.TickRate)

func approxEq(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

// settle drops a player in the room until the ground probe reports contact.
func settle(t *testing.T, w *world.World, p *PlayerState) {
	t.Helper()
	for i := 0; i < 120; i++ {
		Resolve(w, p, InputCommand{}, tickDt, 1)
		if p.OnGround {
			return
		}
	}
	t.Fatal("player never settled on the floor")
}

func TestAccelerateConvergesToWishSpeed(t *testing.T) {
	wishDir := mgl32.Vec3{1, 0, 0}
	vel := mgl32.Vec3{}
	for i := 0; i < 1000; i++ {
		vel = Accelerate(vel, wishDir, game.DefaultMaxSpeed, game.GroundAccelerate, tickDt)
		if proj := vel.Dot(wishDir); proj > game.DefaultMaxSpeed {
			t.Fatalf("tick %d: projection %v exceeded wish speed", i, proj)
		}
	}
	if proj := vel.Dot(wishDir); proj != game.DefaultMaxSpeed {
		t.Fatalf("converged projection = %v, want exactly %v", proj, float32(game.DefaultMaxSpeed))
	}
	// The ceiling is idempotent.
	vel = Accelerate(vel, wishDir, game.DefaultMaxSpeed, game.GroundAccelerate, tickDt)
	if proj := vel.Dot(wishDir); proj != game.DefaultMaxSpeed {
		t.Fatalf("projection moved past ceiling to %v", proj)
	}
}

func TestAirAccelerateClampBasis(t *testing.T) {
	wishDir := mgl32.Vec3{1, 0, 0}

	// Small dt: the magnitude term governs and uses the true wish speed.
	vel := AirAccelerate(mgl32.Vec3{}, wishDir, 320, game.AirAccelerate, tickDt)
	wantGain := math32.Min(game.AirAccelerate*320*tickDt, game.AirSpeedCap)
	if !approxEq(vel.X(), wantGain, 1e-4) {
		t.Fatalf("first-tick gain = %v, want %v", vel.X(), wantGain)
	}

	// Large dt: the clamp basis caps the gain at AirSpeedCap, never at the
	// wish speed itself.
	vel = AirAccelerate(mgl32.Vec3{}, wishDir, 320, game.AirAccelerate, 1)
	if vel.X() != game.AirSpeedCap {
		t.Fatalf("saturated gain = %v, want %v", vel.X(), float32(game.AirSpeedCap))
	}

	// Once the projection reaches the cap there is no more room.
	vel = AirAccelerate(mgl32.Vec3{game.AirSpeedCap, 0, 0}, wishDir, 320, game.AirAccelerate, 1)
	if vel.X() != game.AirSpeedCap {
		t.Fatalf("gain past cap: %v", vel.X())
	}
}

func TestAirStrafeCompoundsSpeed(t *testing.T) {
	// A wish direction nearly perpendicular to a fast velocity projects far
	// below the cap, so there is always room to add speed sideways.
	vel := mgl32.Vec3{400, 0, 0}
	start := vel.Len()
	for i := 0; i < 60; i++ {
		wishDir := vel.Cross(mgl32.Vec3{0, 0, -1}).Normalize()
		vel = AirAccelerate(vel, wishDir, 320, game.AirAccelerate, tickDt)
	}
	if vel.Len() <= start {
		t.Fatalf("air strafing gained no speed: %v -> %v", start, vel.Len())
	}
}

func TestFrictionStopSpeedControl(t *testing.T) {
	// Below StopSpeed the control value is StopSpeed, so a 50 u/s crawl
	// sheds a full 10 u/s in one tick at friction 6.
	vel := ApplyFriction(mgl32.Vec3{50, 0, -30}, game.GroundFriction, tickDt)
	if !approxEq(vel.X(), 40, 1e-3) {
		t.Fatalf("speed after friction = %v, want 40", vel.X())
	}
	if vel.Z() != -30 {
		t.Fatalf("friction touched vertical velocity: %v", vel.Z())
	}
}

func TestFrictionStopsCrawl(t *testing.T) {
	vel := ApplyFriction(mgl32.Vec3{0.5, -0.3, -10}, game.GroundFriction, tickDt)
	if vel.X() != 0 || vel.Y() != 0 {
		t.Fatalf("sub-unit crawl not zeroed: %v", vel)
	}
	if vel.Z() != -10 {
		t.Fatalf("friction touched vertical velocity: %v", vel.Z())
	}
}

func TestJumpFiresWhileGroundedAndHeld(t *testing.T) {
	w := world.TestRoom()
	p := NewPlayerState(mgl32.Vec3{0, 0, 40})
	settle(t, w, p)

	Resolve(w, p, InputCommand{Buttons: ButtonJump}, tickDt, 1)
	if p.OnGround {
		t.Fatal("jump left the player grounded")
	}
	if p.Velocity.Z() < 250 {
		t.Fatalf("jump velocity = %v, want near %v", p.Velocity.Z(), float32(game.JumpVelocity))
	}
	if p.SplashSlickTicks == 0 {
		t.Fatal("jump must arm the ground-snap suppression window")
	}
}

func TestJumpBufferFiresOnLanding(t *testing.T) {
	w := world.TestRoom()
	p := NewPlayerState(mgl32.Vec3{0, 0, 30})
	p.Velocity = mgl32.Vec3{0, 0, -300}

	// Fresh press while airborne arms the buffer.
	Resolve(w, p, InputCommand{Buttons: ButtonJump}, tickDt, 1)
	if p.OnGround {
		t.Fatal("expected the press to happen mid-air")
	}
	if p.JumpBufferTicks != game.JumpBufferTicks {
		t.Fatalf("buffer = %d after fresh airborne press, want %d", p.JumpBufferTicks, uint32(game.JumpBufferTicks))
	}

	// Button released before landing; the buffered jump still fires.
	fired := false
	for i := 0; i < int(game.JumpBufferTicks); i++ {
		Resolve(w, p, InputCommand{}, tickDt, 1)
		if p.Velocity.Z() > 200 {
			fired = true
			break
		}
	}
	if !fired {
		t.Fatal("buffered jump never fired on landing")
	}
	if p.JumpBufferTicks != 0 {
		t.Fatalf("buffer = %d after firing, want 0", p.JumpBufferTicks)
	}
}

func TestJumpBufferExpiresMidAir(t *testing.T) {
	w := world.TestRoom()
	p := NewPlayerState(mgl32.Vec3{0, 0, 200})

	Resolve(w, p, InputCommand{Buttons: ButtonJump}, tickDt, 1)
	armed := p.JumpBufferTicks
	for i := 0; i < int(armed); i++ {
		Resolve(w, p, InputCommand{}, tickDt, 1)
	}
	if p.JumpBufferTicks != 0 {
		t.Fatalf("buffer = %d after %d airborne ticks, want 0", p.JumpBufferTicks, armed)
	}
}

func TestGravityAppliesOnlyAirborne(t *testing.T) {
	w := world.TestRoom()

	air := NewPlayerState(mgl32.Vec3{0, 0, 200})
	Resolve(w, air, InputCommand{}, tickDt, 1)
	want := -float32(game.DefaultGravity) * tickDt
	if !approxEq(air.Velocity.Z(), want, 1e-3) {
		t.Fatalf("airborne vertical velocity = %v, want %v", air.Velocity.Z(), want)
	}

	ground := NewPlayerState(mgl32.Vec3{0, 0, 40})
	settle(t, w, ground)
	for i := 0; i < 30; i++ {
		Resolve(w, ground, InputCommand{}, tickDt, 1)
	}
	if !ground.OnGround {
		t.Fatal("grounded player came loose while idle")
	}
	if math32.Abs(ground.Velocity.Z()) > 1 {
		t.Fatalf("grounded player accumulated vertical velocity %v", ground.Velocity.Z())
	}
}

func TestWalkAndCrouchSpeedModifiers(t *testing.T) {
	run := func(buttons Buttons) float32 {
		w := world.TestRoom()
		p := NewPlayerState(mgl32.Vec3{0, 0, 40})
		settle(t, w, p)
		cmd := InputCommand{ForwardMove: 127, Yaw: game.DegToAngle16(90), Buttons: buttons}
		for i := 0; i < 80; i++ {
			Resolve(w, p, cmd, tickDt, 1)
		}
		return math32.Sqrt(game.Vec3HzDistSqr(p.Velocity))
	}

	full := run(0)
	walk := run(ButtonWalk)
	crouch := run(ButtonCrouch)

	if !approxEq(full, game.DefaultMaxSpeed, 2) {
		t.Fatalf("full run speed = %v, want %v", full, float32(game.DefaultMaxSpeed))
	}
	if !approxEq(walk, game.DefaultMaxSpeed*game.WalkSpeedScale, 2) {
		t.Fatalf("walk speed = %v, want %v", walk, float32(game.DefaultMaxSpeed*game.WalkSpeedScale))
	}
	if !approxEq(crouch, game.DefaultMaxSpeed*game.CrouchSpeedScale, 2) {
		t.Fatalf("crouch speed = %v, want %v", crouch, float32(game.DefaultMaxSpeed*game.CrouchSpeedScale))
	}
}

func TestSpeedScaleBoundsMotion(t *testing.T) {
	w := world.TestRoom()
	p := NewPlayerState(mgl32.Vec3{0, 0, 40})
	settle(t, w, p)

	cmd := InputCommand{ForwardMove: 127, Yaw: game.DegToAngle16(90)}
	for i := 0; i < 100; i++ {
		Resolve(w, p, cmd, tickDt, 0.5)
	}
	speed := math32.Sqrt(game.Vec3HzDistSqr(p.Velocity))
	if !approxEq(speed, game.DefaultMaxSpeed*0.5, 2) {
		t.Fatalf("half-scale speed = %v, want %v", speed, float32(game.DefaultMaxSpeed*0.5))
	}
}

func TestClassifyStates(t *testing.T) {
	p := NewPlayerState(mgl32.Vec3{})

	p.OnGround = true
	if got := Classify(p); got != StateGrounded {
		t.Fatalf("idle grounded = %v", got)
	}

	p.Crouched = true
	p.Velocity = mgl32.Vec3{game.CrouchSlideMinSpeed + 10, 0, 0}
	if got := Classify(p); got != StateCrouchSlide {
		t.Fatalf("fast crouch = %v, want crouchslide", got)
	}
	p.Velocity = mgl32.Vec3{game.CrouchSlideMinSpeed - 10, 0, 0}
	if got := Classify(p); got != StateGrounded {
		t.Fatalf("slow crouch = %v, want grounded", got)
	}

	p.OnGround = false
	p.Velocity = mgl32.Vec3{0, 0, 50}
	if got := Classify(p); got != StateAirborne {
		t.Fatalf("rising = %v, want airborne", got)
	}
	p.Velocity = mgl32.Vec3{0, 0, -50}
	if got := Classify(p); got != StateFalling {
		t.Fatalf("descending = %v, want falling", got)
	}
}

func TestGroundCheckSplashSlickSuppression(t *testing.T) {
	w := world.TestRoom()
	p := NewPlayerState(mgl32.Vec3{0, 0, 40})
	settle(t, w, p)
	if !p.OnGround {
		t.Fatal("settled player not grounded")
	}

	p.SplashSlickTicks = 1
	GroundCheck(w, p)
	if p.OnGround {
		t.Fatal("splash-slick window must suppress the ground snap")
	}
	if p.GroundNormal != (mgl32.Vec3{}) {
		t.Fatal("suppressed snap left a stale ground normal")
	}

	p.SplashSlickTicks = 0
	GroundCheck(w, p)
	if !p.OnGround {
		t.Fatal("probe should re-ground once the window lapses")
	}
	if p.GroundNormal.Z() < game.MinWalkNormal {
		t.Fatalf("floor normal = %v", p.GroundNormal)
	}
}
