package game

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/cpuid/v2"
)

// KernelTier identifies the CPU capability level the hot-path kernels were
// selected for.
type KernelTier uint8

const (
	KernelTierScalar KernelTier = iota
	KernelTierSSE4
	KernelTierAVX2
)

func (t KernelTier) String() string {
	switch t {
	case KernelTierSSE4:
		return "sse4"
	case KernelTierAVX2:
		return "avx2"
	default:
		return "scalar"
	}
}

// Kernels bundles the vector primitives used on trace hot paths. The set is
// selected once at startup and held for the process lifetime; it is never
// re-selected mid-simulation.
type Kernels struct {
	Tier KernelTier

	Dot           func(a, b mgl32.Vec3) float32
	BoxesOverlap  func(a, b cube.BBox) bool
	PlaneDistance func(normal mgl32.Vec3, dist float32, p mgl32.Vec3) float32
}

var active = kernelsFor(detectTier())

// ActiveKernels returns the kernel set selected at startup.
func ActiveKernels() *Kernels {
	return active
}

func detectTier() KernelTier {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX2):
		return KernelTierAVX2
	case cpuid.CPU.Supports(cpuid.SSE4):
		return KernelTierSSE4
	default:
		return KernelTierScalar
	}
}

// kernelsFor binds the kernel set for a capability tier. Every tier currently
// binds the portable implementations; a vectorized variant may only replace
// one if it is numerically identical (no reciprocal approximations, no fused
// multiply-add), since determinism is a correctness requirement here.
func kernelsFor(tier KernelTier) *Kernels {
	return &Kernels{
		Tier:          tier,
		Dot:           dotScalar,
		BoxesOverlap:  boxesOverlapScalar,
		PlaneDistance: planeDistanceScalar,
	}
}

func dotScalar(a, b mgl32.Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func boxesOverlapScalar(a, b cube.BBox) bool {
	return a.Min().X() <= b.Max().X() && a.Max().X() >= b.Min().X() &&
		a.Min().Y() <= b.Max().Y() && a.Max().Y() >= b.Min().Y() &&
		a.Min().Z() <= b.Max().Z() && a.Max().Z() >= b.Min().Z()
}

func planeDistanceScalar(normal mgl32.Vec3, dist float32, p mgl32.Vec3) float32 {
	return dotScalar(normal, p) - dist
}
