package scene

import (
	"github.com/chewxy/math32"
	"github.com/plus3/tween/geom"
)

// Distortion deforms points of an entity's geometry in its local frame.
type Distortion interface {
	Distort(p geom.Vec3) geom.Vec3
}

// ScaleDistortion scales points component-wise about the local origin.
type ScaleDistortion struct {
	Scale geom.Vec3
}

func (d ScaleDistortion) Distort(p geom.Vec3) geom.Vec3 {
	return p.Mul(d.Scale)
}

// TwistDistortion rotates points around Axis by Rate radians per unit of
// distance along the axis.
type TwistDistortion struct {
	Axis geom.Vec3
	Rate float32
}

func (d TwistDistortion) Distort(p geom.Vec3) geom.Vec3 {
	axis := d.Axis.Normalized()
	if axis.LengthSquared() == 0 || d.Rate == 0 {
		return p
	}
	along := p.Dot(axis)
	if math32.Abs(along) < geom.Epsilon {
		return p
	}
	return geom.NewQuatFromAxisAngle(axis, along*d.Rate).Rotate(p)
}
