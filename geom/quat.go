package geom

import "github.com/chewxy/math32"

// Quat is a rotation quaternion. The zero value is not a valid rotation,
// use NewQuatIdentity.
type Quat struct {
	X, Y, Z, W float32
}

func NewQuatIdentity() Quat {
	return Quat{W: 1}
}

// NewQuatFromAxisAngle builds a rotation of angle radians around axis.
func NewQuatFromAxisAngle(axis Vec3, angle float32) Quat {
	axis = axis.Normalized()
	half := angle * 0.5
	s := math32.Sin(half)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: math32.Cos(half)}
}

// NewQuatFromEuler builds a rotation from angles in radians applied in
// X, then Y, then Z order.
func NewQuatFromEuler(x, y, z float32) Quat {
	qx := NewQuatFromAxisAngle(Vec3{X: 1}, x)
	qy := NewQuatFromAxisAngle(Vec3{Y: 1}, y)
	qz := NewQuatFromAxisAngle(Vec3{Z: 1}, z)
	return qz.Mul(qy).Mul(qx)
}

// NewQuatBetween returns the shortest rotation taking direction from onto to.
func NewQuatBetween(from, to Vec3) Quat {
	from = from.Normalized()
	to = to.Normalized()
	d := from.Dot(to)
	if d >= 1-Epsilon {
		return NewQuatIdentity()
	}
	if d <= -1+Epsilon {
		axis := Vec3{X: 1}.Cross(from)
		if axis.LengthSquared() < Epsilon {
			axis = Vec3{Y: 1}.Cross(from)
		}
		return NewQuatFromAxisAngle(axis, math32.Pi)
	}
	c := from.Cross(to)
	q := Quat{X: c.X, Y: c.Y, Z: c.Z, W: 1 + d}
	return q.Normalized()
}

// NewQuatLookAt returns the orientation whose Z axis points along dir with
// the Y axis as close to up as possible.
func NewQuatLookAt(dir, up Vec3) Quat {
	z := dir.Normalized()
	if z.LengthSquared() == 0 {
		return NewQuatIdentity()
	}
	x := up.Cross(z).Normalized()
	if x.LengthSquared() == 0 {
		return NewQuatBetween(Vec3{Z: 1}, z)
	}
	y := z.Cross(x)
	return quatFromBasis(x, y, z)
}

func quatFromBasis(x, y, z Vec3) Quat {
	trace := x.X + y.Y + z.Z
	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math32.Sqrt(trace+1)
		q = Quat{W: 0.25 / s, X: (y.Z - z.Y) * s, Y: (z.X - x.Z) * s, Z: (x.Y - y.X) * s}
	case x.X > y.Y && x.X > z.Z:
		s := 2 * math32.Sqrt(1+x.X-y.Y-z.Z)
		q = Quat{W: (y.Z - z.Y) / s, X: 0.25 * s, Y: (y.X + x.Y) / s, Z: (z.X + x.Z) / s}
	case y.Y > z.Z:
		s := 2 * math32.Sqrt(1+y.Y-x.X-z.Z)
		q = Quat{W: (z.X - x.Z) / s, X: (y.X + x.Y) / s, Y: 0.25 * s, Z: (z.Y + y.Z) / s}
	default:
		s := 2 * math32.Sqrt(1+z.Z-x.X-y.Y)
		q = Quat{W: (x.Y - y.X) / s, X: (z.X + x.Z) / s, Y: (z.Y + y.Z) / s, Z: 0.25 * s}
	}
	return q.Normalized()
}

func (q Quat) Length() float32 {
	return math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

func (q Quat) Normalized() Quat {
	l := q.Length()
	if l == 0 {
		return NewQuatIdentity()
	}
	return Quat{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul composes two rotations; the result applies other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).MulScalar(2)
	return v.Add(t.MulScalar(q.W)).Add(u.Cross(t))
}

// Slerp interpolates along the shortest arc between q and other.
func (q Quat) Slerp(other Quat, t float32) Quat {
	cosTheta := q.Dot(other)
	if cosTheta < 0 {
		other = Quat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
		cosTheta = -cosTheta
	}
	if cosTheta > 1-Epsilon {
		return Quat{
			X: q.X + (other.X-q.X)*t,
			Y: q.Y + (other.Y-q.Y)*t,
			Z: q.Z + (other.Z-q.Z)*t,
			W: q.W + (other.W-q.W)*t,
		}.Normalized()
	}
	theta := math32.Acos(Clamp(cosTheta, -1, 1))
	sinTheta := math32.Sin(theta)
	a := math32.Sin((1-t)*theta) / sinTheta
	b := math32.Sin(t*theta) / sinTheta
	return Quat{
		X: q.X*a + other.X*b,
		Y: q.Y*a + other.Y*b,
		Z: q.Z*a + other.Z*b,
		W: q.W*a + other.W*b,
	}
}

// Lerp is Slerp; it lets rotations be used as keyframe values.
func (q Quat) Lerp(other Quat, t float32) Quat {
	return q.Slerp(other, t)
}

// Compare reports whether q and other describe the same rotation within
// tolerance. q and -q are treated as equal.
func (q Quat) Compare(other Quat, tolerance float32) bool {
	return math32.Abs(math32.Abs(q.Normalized().Dot(other.Normalized()))-1) <= tolerance
}
