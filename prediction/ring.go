package prediction

import (
	"github.com/elim2g/quicken/movement"
	"github.com/elim2g/quicken/oerror"
)

// InputRing is a fixed-capacity jitter buffer of input commands. Capacity is
// a power of two so cursor indexing reduces to a mask, and the unsigned
// wraparound subtraction in Len stays valid because Push never lets occupancy
// exceed capacity.
type InputRing struct {
	buf  []movement.InputCommand
	mask uint32

	read  uint32
	write uint32
}

func NewInputRing(capacity int) (*InputRing, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, oerror.New("prediction: ring capacity %d is not a power of two", capacity)
	}
	return &InputRing{
		buf:  make([]movement.InputCommand, capacity),
		mask: uint32(capacity - 1),
	}, nil
}

func (r *InputRing) Len() int {
	return int(r.write - r.read)
}

func (r *InputRing) Cap() int {
	return len(r.buf)
}

// Push appends a command. When the producer outruns the consumer the oldest
// entry is dropped by advancing the read cursor; a drop signals input
// flooding or an under-provisioned buffer depth, not a fatal condition.
func (r *InputRing) Push(cmd movement.InputCommand) (dropped bool) {
	if r.Len() == len(r.buf) {
		r.read++
		dropped = true
	}
	r.buf[r.write&r.mask] = cmd
	r.write++
	return dropped
}

func (r *InputRing) Pop() (movement.InputCommand, bool) {
	if r.read == r.write {
		return movement.InputCommand{}, false
	}
	cmd := r.buf[r.read&r.mask]
	r.read++
	return cmd, true
}

func (r *InputRing) Reset() {
	r.read, r.write = 0, 0
}
