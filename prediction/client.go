package prediction

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/elim2g/quicken/assert"
	"github.com/elim2g/quicken/movement"
)

// RingCapacity is the fixed input buffer depth per client. Power of two so
// the ring can use mask indexing.
const RingCapacity = 64

// speedScaleFloor is the threshold below which a decaying speed scale snaps
// to zero instead of shrinking forever.
const speedScaleFloor = 0.01

// ClientState carries everything the server tracks for one connected client's
// input stream: the jitter buffer, the prediction bookkeeping, and the
// correction blend. Owned by the server tick loop, never shared.
type ClientState struct {
	Ring *InputRing

	// Jitter estimate in milliseconds and the adapted target buffer depth
	// derived from it.
	JitterMs    float32
	TargetTicks uint32

	// Prediction bookkeeping.
	PredictedTicks uint32
	LastReal       movement.InputCommand
	HasReal        bool
	SpeedScale     float32

	// Correction blend state. CorrectionDone counts blend ticks already
	// applied; progress is CorrectionDone/CorrectionTotal so the final tick
	// lands on exactly 1.0.
	CorrectionPos   mgl32.Vec3
	CorrectionDone  uint32
	CorrectionTotal uint32
}

// NewClientState returns a fresh prediction state with an empty ring and a
// unit speed scale.
func NewClientState() *ClientState {
	ring, err := NewInputRing(RingCapacity)
	assert.IsTrue(err == nil, "input ring capacity must be a power of two")
	return &ClientState{
		Ring:       ring,
		SpeedScale: 1.0,
	}
}

// Reset restores the state to its post-connect condition. Used on reconnect
// so a returning client does not inherit a stale buffer or a half-finished
// correction.
func (c *ClientState) Reset() {
	c.Ring.Reset()
	c.JitterMs = 0
	c.TargetTicks = 0
	c.PredictedTicks = 0
	c.LastReal = movement.InputCommand{}
	c.HasReal = false
	c.SpeedScale = 1.0
	c.CorrectionPos = mgl32.Vec3{}
	c.CorrectionDone = 0
	c.CorrectionTotal = 0
}

// BufferInput enqueues a real input from the network layer. Returns true if
// the ring was full and the oldest buffered input was dropped to make room.
func (c *ClientState) BufferInput(cmd movement.InputCommand) bool {
	return c.Ring.Push(cmd)
}

// Consume supplies the input for the current tick. When a real input is
// buffered it is dequeued as-is; otherwise a synthesized command is returned
// and wasPredicted is set so downstream systems can treat the tick's motion
// as speculative. speedScale bounds positional error during long gaps and
// must be applied by the caller to all movement-affecting speeds.
func (c *ClientState) Consume(profile *Profile, state movement.MoveState) (cmd movement.InputCommand, wasPredicted bool, speedScale float32) {
	if real, ok := c.Ring.Pop(); ok {
		c.PredictedTicks = 0
		c.SpeedScale = 1.0
		c.LastReal = real
		c.HasReal = true
		return real, false, 1.0
	}

	c.PredictedTicks++

	if c.PredictedTicks >= profile.PredictMaxTicks {
		// Hard freeze. An indefinitely lost client stops moving rather than
		// drifting on guesses.
		c.SpeedScale = 0
		frozen := c.LastReal
		frozen.ForwardMove = 0
		frozen.SideMove = 0
		frozen.Buttons = 0
		return frozen, true, 0
	}

	if c.PredictedTicks >= profile.PredictDecelStart {
		c.SpeedScale *= 1 - profile.PredictDecelRate
		if c.SpeedScale < speedScaleFloor {
			c.SpeedScale = 0
		}
	}

	if c.PredictedTicks <= profile.PredictGraceTicks {
		// Over a tick or two a stale input is a better guess than a
		// synthesized one, whatever the movement state.
		return c.repeatLastReal(), true, c.SpeedScale
	}

	switch state {
	case movement.StateGrounded:
		cmd = c.repeatLastReal()
	case movement.StateCrouchSlide:
		// Steering a slide on a guess is worse than not steering. Keep the
		// crouch held so the slide itself continues.
		cmd = c.LastReal
		cmd.ForwardMove = 0
		cmd.SideMove = 0
		cmd.Buttons = movement.ButtonCrouch
	default:
		// Airborne or falling. Zero air input preserves the velocity
		// tangent; repeating stale strafe input would curve the trajectory
		// the wrong way for everyone watching this client.
		cmd = c.LastReal
		cmd.ForwardMove = 0
		cmd.SideMove = 0
		cmd.Buttons &^= movement.ButtonJump
	}
	return cmd, true, c.SpeedScale
}

func (c *ClientState) repeatLastReal() movement.InputCommand {
	cmd := c.LastReal
	cmd.Buttons &^= movement.ButtonJump
	return cmd
}

// ObserveJitter folds one observed inter-arrival jitter sample (ms) into the
// EMA estimate and re-derives the target buffer depth: the estimate in ticks
// plus one tick of headroom, clamped to the profile's configured range. The
// target depth steers send-rate/ack logic; the ring's fixed capacity is not
// affected.
func (c *ClientState) ObserveJitter(profile *Profile, sampleMs, tickMs float32) {
	c.JitterMs = c.JitterMs*(1-profile.JitterRate) + sampleMs*profile.JitterRate

	ticks := uint32(math32.Ceil(c.JitterMs/tickMs)) + 1
	if ticks < profile.MinBufferTicks {
		ticks = profile.MinBufferTicks
	}
	if ticks > profile.MaxBufferTicks {
		ticks = profile.MaxBufferTicks
	}
	c.TargetTicks = ticks
}
