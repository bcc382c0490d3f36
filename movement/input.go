package movement

import "github.com/elim2g/quicken/game"

// Buttons is the per-tick button bitfield carried by an InputCommand.
type Buttons uint16

const (
	ButtonFire Buttons = 1 << iota
	ButtonJump
	ButtonCrouch
	ButtonUse
	ButtonReload
	ButtonWalk
)

// InputCommand is a single tick of client input. Commands are immutable once
// produced, whether they arrived from a real client or were synthesized by
// the predictor; movement resolution only reads them.
type InputCommand struct {
	Tick uint32

	// Quantized move impulses in -127..127.
	ForwardMove int8
	SideMove    int8

	Pitch game.Angle16
	Yaw   game.Angle16
	Roll  game.Angle16

	Buttons Buttons
}

func (c InputCommand) Pressed(b Buttons) bool {
	return c.Buttons&b != 0
}
