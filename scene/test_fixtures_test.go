package scene_test

import (
	"github.com/plus3/tween/geom"
	"github.com/plus3/tween/scene"
)

// recorder is a ChangeNotifier that remembers every notification.
type recorder struct {
	order  []scene.EntityId
	counts map[scene.EntityId]int
}

func newRecorder() *recorder {
	return &recorder{counts: make(map[scene.EntityId]int)}
}

func (r *recorder) Notify(_ int, e *scene.Entity) {
	r.order = append(r.order, e.Id())
	r.counts[e.Id()]++
}

func (r *recorder) reset() {
	r.order = nil
	r.counts = make(map[scene.EntityId]int)
}

// countingTrack counts applications and runs an optional function.
type countingTrack struct {
	scene.TrackInfo
	deps       []scene.EntityId
	affect     scene.Affect
	constrains bool
	applies    int
	fn         func(frame *scene.TrackFrame) error
}

func newCounting(name string, affect scene.Affect, deps ...scene.EntityId) *countingTrack {
	return &countingTrack{
		TrackInfo: scene.TrackInfo{Label: name},
		deps:      deps,
		affect:    affect,
	}
}

func (t *countingTrack) Dependencies() []scene.EntityId {
	return t.deps
}

func (t *countingTrack) Affects() scene.Affect {
	return t.affect
}

func (t *countingTrack) Constrains() bool {
	return t.constrains
}

func (t *countingTrack) Apply(frame *scene.TrackFrame) error {
	t.applies++
	if t.fn != nil {
		return t.fn(frame)
	}
	return nil
}

// follow returns a procedure that places its owner at offset from target.
func follow(target scene.EntityId, offset geom.Vec3) scene.Procedure[geom.Vec3] {
	return func(frame *scene.TrackFrame) (geom.Vec3, error) {
		e, ok := frame.Resolve(target)
		if !ok {
			return frame.Owner.Coords.Origin, nil
		}
		return e.Coords.Origin.Add(offset), nil
	}
}

func vecKeys(keys ...scene.Keyframe[geom.Vec3]) *scene.Timecourse[geom.Vec3] {
	return scene.NewTimecourse(scene.Linear, keys...)
}

func newArmSkeleton() *scene.Skeleton {
	skel, err := scene.NewSkeleton(
		scene.Joint{Name: "shoulder", Parent: -1},
		scene.Joint{Name: "hand", Parent: 0, Offset: geom.NewVec3(0, 2, 0)},
	)
	if err != nil {
		panic(err)
	}
	return skel
}

type snapshot struct {
	coords     geom.Coords
	pose       *scene.Pose
	visible    bool
	distortion int
	params     map[string]float32
}

func snapshotStore(store *scene.EntityStore) map[scene.EntityId]snapshot {
	out := make(map[scene.EntityId]snapshot, store.Len())
	for _, e := range store.All() {
		params := make(map[string]float32, len(e.Params))
		for k, v := range e.Params {
			params[k] = v
		}
		out[e.Id()] = snapshot{
			coords:     e.Coords,
			pose:       e.Pose().Clone(),
			visible:    e.Visible,
			distortion: len(e.Distortions()),
			params:     params,
		}
	}
	return out
}
