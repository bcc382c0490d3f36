package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	Pi       = float32(3.14159265358979323846)
	TwoPi    = Pi * 2
	HalfPi   = Pi / 2
	DegToRad = Pi / 180
)

// Fixed 7th-degree minimax polynomial coefficients for sin on [-π/2, π/2].
const (
	sinC1 = float32(-1.6666654611e-1)
	sinC2 = float32(8.3321608736e-3)
	sinC3 = float32(-1.9515295891e-4)
)

// Sin returns the sine of x (radians). The result is bit-identical across
// platforms: the input is reduced to [-π/2, π/2] with exact IEEE additions
// (periodic 2π reduction, then the sin(x) = sin(π-x) reflection) and fed to a
// fixed-order polynomial. Never substitute the platform libm here; client and
// server trajectories must match bit for bit.
func Sin(x float32) float32 {
	for x > Pi {
		x -= TwoPi
	}
	for x < -Pi {
		x += TwoPi
	}
	if x > HalfPi {
		x = Pi - x
	} else if x < -HalfPi {
		x = -Pi - x
	}
	x2 := x * x
	return x + x*x2*(sinC1+x2*(sinC2+x2*sinC3))
}

// Cos returns the cosine of x (radians), sharing Sin's reduction and
// polynomial via cos(x) = sin(π/2 - x).
func Cos(x float32) float32 {
	return Sin(HalfPi - x)
}

// AnglesToBasis derives an orthonormal basis from view angles in degrees.
// Right is computed from yaw alone (no roll support), up from the cross
// product of the two, rather than through a general matrix path whose
// operation order could differ between builds.
func AnglesToBasis(pitch, yaw float32) (forward, right, up mgl32.Vec3) {
	sy, cy := Sin(yaw*DegToRad), Cos(yaw*DegToRad)
	sp, cp := Sin(pitch*DegToRad), Cos(pitch*DegToRad)

	forward = mgl32.Vec3{cp * cy, cp * sy, -sp}
	right = mgl32.Vec3{sy, -cy, 0}
	up = right.Cross(forward)
	return forward, right, up
}

// Angle16 is a network-quantized angle: 65536 units per revolution.
type Angle16 int16

func DegToAngle16(deg float32) Angle16 {
	return Angle16(int32(deg*(65536.0/360.0)) & 65535)
}

func (a Angle16) Degrees() float32 {
	return float32(a) * (360.0 / 65536.0)
}

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	}
	return math32.Min(num, max)
}

// Vec3HzDistSqr returns the squared horizontal distance in a vector.
func Vec3HzDistSqr(vec3 mgl32.Vec3) float32 {
	return vec3.X()*vec3.X() + vec3.Y()*vec3.Y()
}

// Float32ApproxEq determines whether two floating point numbers are close
// enough to each other by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}
