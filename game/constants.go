package game

// Simulation tick timing. All movement code works in ticks of TickInterval
// seconds; variable frame time is resolved by the fixed timestep driver.
const (
	TickRate                 = 60
	TickInterval     float32 = 1.0 / TickRate
	MaxFrameInterval float32 = 0.25
)

const (
	DefaultMaxSpeed  = float32(320)
	StopSpeed        = float32(100)
	GroundFriction   = float32(6)
	SlideFriction    = float32(1.5)
	GroundAccelerate = float32(10)
	AirAccelerate    = float32(1)
	// AirSpeedCap bounds the clamp basis of air acceleration, not its
	// magnitude. This asymmetry is what makes air strafing work.
	AirSpeedCap    = float32(30)
	DefaultGravity = float32(800)
	JumpVelocity   = float32(270)
	StepHeight     = float32(18)
	MinWalkNormal  = float32(0.7)
	Overclip       = float32(1.001)

	CrouchSpeedScale    = float32(0.5)
	WalkSpeedScale      = float32(0.65)
	CrouchSlideMinSpeed = float32(220)

	// Ground probe extents relative to the player origin.
	GroundProbeAbove = float32(0.125)
	GroundProbeBelow = float32(0.25)

	JumpBufferTicks = 6
	MaxClipPlanes   = 5
	MaxSlideBumps   = 4
)
