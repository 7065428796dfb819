// Package geom holds the small set of 3D value types the scene evaluator
// works with: vectors, rotations and coordinate frames.
package geom

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Epsilon is the tolerance used by the Compare helpers.
const Epsilon float32 = 1e-5

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{X: 1, Y: 1, Z: 1}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Mul multiplies component-wise.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z}
}

func (v Vec3) MulScalar(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) LengthSquared() float32 {
	return v.Dot(v)
}

func (v Vec3) Length() float32 {
	return math32.Sqrt(v.LengthSquared())
}

// Normalized returns a unit copy of v. The zero vector is returned as is.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar(1 / l)
}

func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Lerp interpolates linearly between v and other.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return Vec3{
		X: v.X + (other.X-v.X)*t,
		Y: v.Y + (other.Y-v.Y)*t,
		Z: v.Z + (other.Z-v.Z)*t,
	}
}

// Compare reports whether every component of v is within tolerance of other.
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	return math32.Abs(v.X-other.X) <= tolerance &&
		math32.Abs(v.Y-other.Y) <= tolerance &&
		math32.Abs(v.Z-other.Z) <= tolerance
}

// Scalar is a float32 that satisfies the interpolation contract used by
// keyframe timecourses.
type Scalar float32

func (s Scalar) Lerp(other Scalar, t float32) Scalar {
	return s + (other-s)*Scalar(t)
}

// Clamp returns the value `f` clamped to the range [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// DegToRad converts degrees to radians.
func DegToRad(degrees float32) float32 {
	return degrees * (math32.Pi / 180)
}
