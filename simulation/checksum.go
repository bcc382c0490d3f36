package simulation

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

// TrajectoryHash folds per-tick player kinematics into a running digest. Two
// simulations fed identical inputs must produce identical sums; any
// divergence in origin or velocity bit patterns shows up immediately.
type TrajectoryHash struct {
	h *xxh3.Hasher
}

func NewTrajectoryHash() *TrajectoryHash {
	return &TrajectoryHash{h: xxh3.New()}
}

// Fold appends one tick's origin and velocity as raw float bit patterns, so
// the digest distinguishes values that compare equal but differ in bits
// (negative zero, NaN payloads).
func (t *TrajectoryHash) Fold(origin, velocity mgl32.Vec3) {
	var buf [24]byte
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(origin[i]))
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(velocity[i]))
	}
	t.h.Write(buf[:])
}

func (t *TrajectoryHash) Sum64() uint64 {
	return t.h.Sum64()
}

func (t *TrajectoryHash) Reset() {
	t.h.Reset()
}
