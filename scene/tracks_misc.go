package scene

import "github.com/plus3/tween/geom"

// AxisLimit restricts one coordinate of an entity's origin.
type AxisLimit uint8

const (
	Free AxisLimit = iota
	AtMost
	Exactly
	AtLeast
)

// AxisConstraint pairs a limit with its value.
type AxisConstraint struct {
	Limit AxisLimit
	Value float32
}

func (c AxisConstraint) apply(v float32) float32 {
	switch c.Limit {
	case AtMost:
		return min(v, c.Value)
	case Exactly:
		return c.Value
	case AtLeast:
		return max(v, c.Value)
	default:
		return v
	}
}

// ConstraintTrack keeps its owner within per-axis limits and can turn it
// to face another entity.
type ConstraintTrack struct {
	TrackInfo
	X, Y, Z    AxisConstraint
	FaceToward *Ref
	Up         geom.Vec3
}

func NewConstraintTrack(name string) *ConstraintTrack {
	return &ConstraintTrack{
		TrackInfo: TrackInfo{Label: name},
		Up:        geom.NewVec3(0, 1, 0),
	}
}

// Facing turns the owner's Z axis toward ref.
func (t *ConstraintTrack) Facing(ref Ref) *ConstraintTrack {
	t.FaceToward = &ref
	return t
}

func (t *ConstraintTrack) Dependencies() []EntityId {
	return refDependencies(t.FaceToward)
}

func (t *ConstraintTrack) Affects() Affect {
	return AffectsOther
}

func (t *ConstraintTrack) Constrains() bool {
	return true
}

func (t *ConstraintTrack) Apply(frame *TrackFrame) error {
	coords := frame.Owner.Transform()
	o := coords.Origin
	coords.SetOrigin(geom.NewVec3(t.X.apply(o.X), t.Y.apply(o.Y), t.Z.apply(o.Z)))

	if t.FaceToward != nil {
		if target, ok := t.FaceToward.coords(frame); ok {
			dir := target.Origin.Sub(coords.Origin)
			if dir.LengthSquared() > 0 {
				coords.SetOrientation(geom.NewQuatLookAt(dir, t.Up))
			}
		}
	}
	return nil
}

// Flag is a keyframeable boolean. It switches value halfway between keys
// unless the timecourse uses Step smoothing.
type Flag bool

func (f Flag) Lerp(other Flag, t float32) Flag {
	if t < 0.5 {
		return f
	}
	return other
}

// VisibilityTrack shows or hides its owner.
type VisibilityTrack struct {
	TrackInfo
	Keys *Timecourse[Flag]
}

func NewVisibilityTrack(name string, keys ...Keyframe[Flag]) *VisibilityTrack {
	return &VisibilityTrack{
		TrackInfo: TrackInfo{Label: name},
		Keys:      NewTimecourse(Step, keys...),
	}
}

func (t *VisibilityTrack) IsNull() bool {
	return t.Keys.Len() == 0
}

func (t *VisibilityTrack) Affects() Affect {
	return AffectsOther
}

func (t *VisibilityTrack) Apply(frame *TrackFrame) error {
	if v, ok := t.Keys.Evaluate(frame.Time); ok {
		frame.Owner.Visible = bool(v)
	}
	return nil
}

// TextureTrack animates one named texture parameter of its owner.
type TextureTrack struct {
	TrackInfo
	Param string
	Keys  *Timecourse[geom.Scalar]
}

func NewTextureTrack(name, param string, keys *Timecourse[geom.Scalar]) *TextureTrack {
	return &TextureTrack{
		TrackInfo: TrackInfo{Label: name},
		Param:     param,
		Keys:      keys,
	}
}

func (t *TextureTrack) IsNull() bool {
	return t.Keys.Len() == 0 || t.Param == ""
}

func (t *TextureTrack) Affects() Affect {
	return AffectsOther
}

func (t *TextureTrack) Apply(frame *TrackFrame) error {
	v, ok := t.Keys.Evaluate(frame.Time)
	if !ok {
		return nil
	}
	owner := frame.Owner
	if owner.Params == nil {
		owner.Params = make(map[string]float32)
	}
	owner.Params[t.Param] = float32(v)
	return nil
}

// DistortionTrack pushes a distortion built from a keyed amount onto its
// owner's distortion accumulator.
type DistortionTrack struct {
	TrackInfo
	Amount *Timecourse[geom.Scalar]
	Make   func(amount float32) Distortion
}

// NewScaleTrack scales the owner along axis by the keyed amount; the other
// directions keep unit scale.
func NewScaleTrack(name string, axis geom.Vec3, amount *Timecourse[geom.Scalar]) *DistortionTrack {
	return &DistortionTrack{
		TrackInfo: TrackInfo{Label: name},
		Amount:    amount,
		Make: func(a float32) Distortion {
			one := geom.NewVec3One()
			return ScaleDistortion{Scale: one.Add(axis.MulScalar(a - 1))}
		},
	}
}

// NewTwistTrack twists the owner around axis at the keyed rate.
func NewTwistTrack(name string, axis geom.Vec3, rate *Timecourse[geom.Scalar]) *DistortionTrack {
	return &DistortionTrack{
		TrackInfo: TrackInfo{Label: name},
		Amount:    rate,
		Make: func(a float32) Distortion {
			return TwistDistortion{Axis: axis, Rate: a}
		},
	}
}

func (t *DistortionTrack) IsNull() bool {
	return t.Amount.Len() == 0 || t.Make == nil
}

func (t *DistortionTrack) Affects() Affect {
	return AffectsOther
}

func (t *DistortionTrack) Apply(frame *TrackFrame) error {
	if a, ok := t.Amount.Evaluate(frame.Time); ok {
		frame.Owner.AddDistortion(t.Make(float32(a)))
	}
	return nil
}

// NullTrack does nothing. It can group or reserve a slot in a track list.
type NullTrack struct {
	TrackInfo
}

func NewNullTrack(name string) *NullTrack {
	return &NullTrack{TrackInfo: TrackInfo{Label: name}}
}

func (t *NullTrack) IsNull() bool {
	return true
}

func (t *NullTrack) Affects() Affect {
	return AffectsOther
}

func (t *NullTrack) Apply(*TrackFrame) error {
	return nil
}
