package scene

import "github.com/plus3/tween/geom"

// BlendMode selects how a transform track combines its value with what
// earlier-applied tracks produced.
type BlendMode uint8

const (
	// Absolute moves the current value toward the track value by Weight.
	Absolute BlendMode = iota
	// Additive adds Weight times the track value to the current value.
	Additive
)

// PositionTrack drives the origin of its owner from keyframes.
// With a Relative reference the keyed values are expressed in that
// entity's frame (or at one of its joints).
type PositionTrack struct {
	TrackInfo
	Keys     *Timecourse[geom.Vec3]
	Mode     BlendMode
	Weight   float32
	Axes     [3]bool
	Relative *Ref
}

// NewPositionTrack creates an absolute track on all three axes with weight 1.
func NewPositionTrack(name string, keys *Timecourse[geom.Vec3]) *PositionTrack {
	return &PositionTrack{
		TrackInfo: TrackInfo{Label: name},
		Keys:      keys,
		Weight:    1,
		Axes:      [3]bool{true, true, true},
	}
}

// RelativeTo expresses the keyed values in ref's frame.
func (t *PositionTrack) RelativeTo(ref Ref) *PositionTrack {
	t.Relative = &ref
	return t
}

func (t *PositionTrack) IsNull() bool {
	return t.Keys.Len() == 0
}

func (t *PositionTrack) Dependencies() []EntityId {
	return refDependencies(t.Relative)
}

func (t *PositionTrack) Affects() Affect {
	return AffectsPosition
}

func (t *PositionTrack) Apply(frame *TrackFrame) error {
	v, ok := t.Keys.Evaluate(frame.Time)
	if !ok {
		return nil
	}
	if t.Relative != nil {
		if ref, ok := t.Relative.coords(frame); ok {
			if t.Mode == Additive {
				v = ref.Orientation.Rotate(v)
			} else {
				v = ref.FromLocal(v)
			}
		}
	}
	blendPosition(frame.Owner, v, t.Mode, t.Weight, t.Axes)
	return nil
}

func blendPosition(owner *Entity, v geom.Vec3, mode BlendMode, weight float32, axes [3]bool) {
	cur := owner.Coords.Origin
	var next geom.Vec3
	switch {
	case mode == Additive:
		next = cur.Add(v.MulScalar(weight))
	case weight >= 1:
		next = v
	default:
		next = cur.Lerp(v, weight)
	}
	if axes[0] {
		cur.X = next.X
	}
	if axes[1] {
		cur.Y = next.Y
	}
	if axes[2] {
		cur.Z = next.Z
	}
	owner.Transform().SetOrigin(cur)
}

// RotationTrack drives the orientation of its owner from keyframes.
// With a Relative entity the keyed rotation is applied on top of that
// entity's orientation.
type RotationTrack struct {
	TrackInfo
	Keys     *Timecourse[geom.Quat]
	Mode     BlendMode
	Weight   float32
	Relative EntityId
}

func NewRotationTrack(name string, keys *Timecourse[geom.Quat]) *RotationTrack {
	return &RotationTrack{
		TrackInfo: TrackInfo{Label: name},
		Keys:      keys,
		Weight:    1,
	}
}

func (t *RotationTrack) IsNull() bool {
	return t.Keys.Len() == 0
}

func (t *RotationTrack) Dependencies() []EntityId {
	if t.Relative == 0 {
		return nil
	}
	return []EntityId{t.Relative}
}

func (t *RotationTrack) Affects() Affect {
	return AffectsRotation
}

func (t *RotationTrack) Apply(frame *TrackFrame) error {
	q, ok := t.Keys.Evaluate(frame.Time)
	if !ok {
		return nil
	}
	if t.Relative != 0 {
		if ref, ok := frame.Resolve(t.Relative); ok {
			q = ref.Coords.Orientation.Mul(q)
		}
	}
	blendRotation(frame.Owner, q, t.Mode, t.Weight)
	return nil
}

func blendRotation(owner *Entity, q geom.Quat, mode BlendMode, weight float32) {
	cur := owner.Coords.Orientation
	var next geom.Quat
	switch {
	case mode == Additive:
		next = geom.NewQuatIdentity().Slerp(q, weight).Mul(cur)
	case weight >= 1:
		next = q
	default:
		next = cur.Slerp(q, weight)
	}
	owner.Transform().SetOrientation(next.Normalized())
}

// Procedure computes a track value from the frame. It may read the entities
// the track declares as dependencies.
type Procedure[T any] func(frame *TrackFrame) (T, error)

// ProceduralPositionTrack drives the origin from a Go procedure.
type ProceduralPositionTrack struct {
	TrackInfo
	Proc   Procedure[geom.Vec3]
	Deps   []EntityId
	Mode   BlendMode
	Weight float32
}

func NewProceduralPositionTrack(name string, proc Procedure[geom.Vec3], deps ...EntityId) *ProceduralPositionTrack {
	return &ProceduralPositionTrack{
		TrackInfo: TrackInfo{Label: name},
		Proc:      proc,
		Deps:      deps,
		Weight:    1,
	}
}

func (t *ProceduralPositionTrack) IsNull() bool {
	return t.Proc == nil
}

func (t *ProceduralPositionTrack) Dependencies() []EntityId {
	return t.Deps
}

func (t *ProceduralPositionTrack) Affects() Affect {
	return AffectsPosition
}

func (t *ProceduralPositionTrack) Apply(frame *TrackFrame) error {
	v, err := t.Proc(frame)
	if err != nil {
		return err
	}
	blendPosition(frame.Owner, v, t.Mode, t.Weight, [3]bool{true, true, true})
	return nil
}

// ProceduralRotationTrack drives the orientation from a Go procedure.
type ProceduralRotationTrack struct {
	TrackInfo
	Proc   Procedure[geom.Quat]
	Deps   []EntityId
	Mode   BlendMode
	Weight float32
}

func NewProceduralRotationTrack(name string, proc Procedure[geom.Quat], deps ...EntityId) *ProceduralRotationTrack {
	return &ProceduralRotationTrack{
		TrackInfo: TrackInfo{Label: name},
		Proc:      proc,
		Deps:      deps,
		Weight:    1,
	}
}

func (t *ProceduralRotationTrack) IsNull() bool {
	return t.Proc == nil
}

func (t *ProceduralRotationTrack) Dependencies() []EntityId {
	return t.Deps
}

func (t *ProceduralRotationTrack) Affects() Affect {
	return AffectsRotation
}

func (t *ProceduralRotationTrack) Apply(frame *TrackFrame) error {
	q, err := t.Proc(frame)
	if err != nil {
		return err
	}
	blendRotation(frame.Owner, q, t.Mode, t.Weight)
	return nil
}
