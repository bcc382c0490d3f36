package simulation

import (
	"github.com/elim2g/quicken/game"
)

// Driver is the fixed-timestep accumulator. Variable frame time goes in,
// whole simulation ticks come out, and the fractional remainder is exposed
// for render interpolation.
type Driver struct {
	TickDt float32

	accumulator float32
	tick        uint64
}

func NewDriver() *Driver {
	return &Driver{TickDt: game.TickInterval}
}

// Advance folds a frame's elapsed seconds into the accumulator and runs step
// once per whole tick. The frame time is clamped so a long stall cannot
// trigger a runaway catch-up spiral.
func (d *Driver) Advance(frameDt float32, step func(tick uint64, dt float32)) {
	if frameDt < 0 {
		frameDt = 0
	}
	if frameDt > game.MaxFrameInterval {
		frameDt = game.MaxFrameInterval
	}
	d.accumulator += frameDt
	for d.accumulator >= d.TickDt {
		d.accumulator -= d.TickDt
		step(d.tick, d.TickDt)
		d.tick++
	}
}

// Alpha is the fraction of the next tick already accumulated, for
// interpolating between the previous and current authoritative states.
func (d *Driver) Alpha() float32 {
	return d.accumulator / d.TickDt
}

// Tick is the number of completed fixed ticks.
func (d *Driver) Tick() uint64 {
	return d.tick
}
