package scene

import "github.com/plus3/tween/geom"

// Affect is the part of its owner's state a track drives. The evaluator
// uses it to decide what to reset before tracks are applied.
type Affect uint8

const (
	// AffectsOther tracks are applied but do not reset any baseline state.
	AffectsOther Affect = iota
	AffectsPosition
	AffectsRotation
	AffectsPose
)

func (a Affect) String() string {
	switch a {
	case AffectsPosition:
		return "position"
	case AffectsRotation:
		return "rotation"
	case AffectsPose:
		return "pose"
	default:
		return "other"
	}
}

// affectOf classifies a track, treating values outside the known set as
// AffectsOther.
func affectOf(t Track) Affect {
	if a := t.Affects(); a <= AffectsPose {
		return a
	}
	return AffectsOther
}

// TrackFrame is what a track sees while it is applied.
type TrackFrame struct {
	Time  float64
	Owner *Entity
	Store *EntityStore
}

// Resolve looks up a dependency by id.
func (f *TrackFrame) Resolve(id EntityId) (*Entity, bool) {
	if f.Store == nil {
		return nil, false
	}
	return f.Store.Lookup(id)
}

// Track is a unit of time-driven behavior owned by a single entity.
// Implementations can embed TrackInfo for the common flags.
type Track interface {
	Name() string
	Enabled() bool

	// IsNull reports that applying the track would do nothing.
	IsNull() bool

	// Dependencies lists the entities whose evaluated state Apply reads.
	Dependencies() []EntityId

	Affects() Affect

	// Constrains marks tracks that keep an entity internally consistent
	// (constraints, IK) and must still run after a direct edit.
	Constrains() bool

	Apply(frame *TrackFrame) error
}

// TrackInfo carries the name and enabled flag shared by all tracks, along
// with defaults for the optional parts of the Track interface.
type TrackInfo struct {
	Label    string
	Disabled bool
}

func (t *TrackInfo) Name() string {
	return t.Label
}

func (t *TrackInfo) Enabled() bool {
	return !t.Disabled
}

func (t *TrackInfo) SetEnabled(enabled bool) {
	t.Disabled = !enabled
}

func (t *TrackInfo) IsNull() bool {
	return false
}

func (t *TrackInfo) Dependencies() []EntityId {
	return nil
}

func (t *TrackInfo) Constrains() bool {
	return false
}

// live reports whether a track takes part in evaluation.
func live(t Track) bool {
	return t.Enabled() && !t.IsNull()
}

// Ref points at an entity, or at one joint of its skeleton when Joint >= 0.
type Ref struct {
	Entity EntityId
	Joint  int
}

// EntityRef refers to the entity's own coordinate frame.
func EntityRef(id EntityId) Ref {
	return Ref{Entity: id, Joint: -1}
}

// JointRef refers to a joint of the entity's skeleton.
func JointRef(id EntityId, joint int) Ref {
	return Ref{Entity: id, Joint: joint}
}

// coords resolves the reference to a world frame. Joint references use the
// joint position with the entity's orientation.
func (r Ref) coords(f *TrackFrame) (geom.Coords, bool) {
	e, ok := f.Resolve(r.Entity)
	if !ok {
		return geom.Coords{}, false
	}
	origin, ok := e.JointPosition(r.Joint)
	if !ok {
		return geom.Coords{}, false
	}
	return geom.Coords{Origin: origin, Orientation: e.Coords.Orientation}, true
}

func refDependencies(refs ...*Ref) []EntityId {
	var deps []EntityId
	for _, r := range refs {
		if r != nil && r.Entity != 0 {
			deps = append(deps, r.Entity)
		}
	}
	return deps
}
