package scene

import "github.com/plus3/tween/geom"

// EntityId is the stable identity of an entity. Zero means "no entity".
type EntityId uint32

// Entity is a node of the scene graph: a coordinate frame, an optional pose,
// and the ordered list of tracks that animate it.
type Entity struct {
	Name   string
	Coords geom.Coords

	// Parent is only used for hierarchy queries. It never orders evaluation.
	Parent EntityId

	Visible  bool
	Params   map[string]float32
	Geometry Geometry

	id         EntityId
	tracks     []Track
	pose       *Pose
	distortion []Distortion
}

// NewEntity creates a visible entity at coords. The id is assigned when the
// entity is added to an EntityStore.
func NewEntity(name string, coords geom.Coords, tracks ...Track) *Entity {
	return &Entity{
		Name:    name,
		Coords:  coords,
		Visible: true,
		tracks:  tracks,
	}
}

// RestoreEntity creates an entity that keeps a previously assigned id,
// e.g. when a scene is rebuilt from saved data.
func RestoreEntity(id EntityId, name string, coords geom.Coords, tracks ...Track) *Entity {
	e := NewEntity(name, coords, tracks...)
	e.id = id
	return e
}

func (e *Entity) Id() EntityId {
	return e.id
}

// Tracks returns the tracks in list order. Evaluation applies them last to first.
func (e *Entity) Tracks() []Track {
	return e.tracks
}

// AddTrack appends a track to the end of the list, so it is applied first.
func (e *Entity) AddTrack(track Track) {
	e.tracks = append(e.tracks, track)
}

// SetTracks replaces the whole track list.
func (e *Entity) SetTracks(tracks ...Track) {
	e.tracks = tracks
}

// Track returns the first track with the given name.
func (e *Entity) Track(name string) (Track, bool) {
	for _, t := range e.tracks {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Transform gives tracks and editors mutable access to the coordinate frame.
func (e *Entity) Transform() *geom.Coords {
	return &e.Coords
}

// Pose returns the current pose, or nil when none is set.
func (e *Entity) Pose() *Pose {
	return e.pose
}

func (e *Entity) SetPose(p *Pose) {
	e.pose = p
}

func (e *Entity) AddDistortion(d Distortion) {
	e.distortion = append(e.distortion, d)
}

func (e *Entity) ClearDistortion() {
	e.distortion = e.distortion[:0]
}

func (e *Entity) Distortions() []Distortion {
	return e.distortion
}

// Distort runs p through every accumulated distortion in the order they were added.
func (e *Entity) Distort(p geom.Vec3) geom.Vec3 {
	for _, d := range e.distortion {
		p = d.Distort(p)
	}
	return p
}

// ClearCachedMeshes drops any derived geometry. Safe to call repeatedly.
func (e *Entity) ClearCachedMeshes() {
	if e.Geometry != nil {
		e.Geometry.ClearCache()
	}
}

// ApplyPoseKeyframe hands the pose to the geometry payload.
func (e *Entity) ApplyPoseKeyframe(p *Pose) {
	if e.Geometry != nil && p != nil {
		e.Geometry.ApplyPose(p)
	}
}

// Skeleton returns the skeleton of the geometry payload, if it has one.
func (e *Entity) Skeleton() *Skeleton {
	if s, ok := e.Geometry.(Skeletal); ok {
		return s.Skeleton()
	}
	return nil
}

// JointPosition returns the world position of a joint under the entity's
// current pose. A negative joint yields the entity origin.
func (e *Entity) JointPosition(joint int) (geom.Vec3, bool) {
	if joint < 0 {
		return e.Coords.Origin, true
	}
	skel := e.Skeleton()
	if skel == nil {
		return geom.Vec3{}, false
	}
	local, ok := skel.JointOffset(joint, e.pose)
	if !ok {
		return geom.Vec3{}, false
	}
	return e.Coords.FromLocal(local), true
}
