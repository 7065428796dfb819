package main

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/plus3/tween/geom"
	"github.com/plus3/tween/internal/config"
	"github.com/plus3/tween/scene"
)

const (
	keyframeSpan = 10.0
	armJoints    = 3
)

// trackKind is one entry of the weighted track mix.
type trackKind struct {
	name   string
	weight int
	build  func(g *rigGenerator, i int) scene.Track
}

// rigGenerator populates a store with entities whose tracks depend on one
// another at random.
type rigGenerator struct {
	cfg      config.RigConfig
	rng      *rand.Rand
	store    *scene.EntityStore
	ids      []scene.EntityId
	skeleton *scene.Skeleton
	kinds    []trackKind
	counts   map[string]int
	links    int
}

func newRigGenerator(cfg config.RigConfig) *rigGenerator {
	skel, err := scene.NewSkeleton(
		scene.Joint{Name: "root", Parent: -1},
		scene.Joint{Name: "elbow", Parent: 0, Offset: geom.NewVec3(0, 1, 0)},
		scene.Joint{Name: "tip", Parent: 1, Offset: geom.NewVec3(0, 1, 0)},
	)
	if err != nil {
		panic(err)
	}

	g := &rigGenerator{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		skeleton: skel,
		counts:   make(map[string]int),
	}
	mix := cfg.Mix
	g.kinds = []trackKind{
		{"position", mix.Position, (*rigGenerator).positionTrack},
		{"rotation", mix.Rotation, (*rigGenerator).rotationTrack},
		{"procedural", mix.Procedural, (*rigGenerator).proceduralTrack},
		{"pose", mix.Pose, (*rigGenerator).poseTrack},
		{"ik", mix.IK, (*rigGenerator).ikTrack},
		{"constraint", mix.Constraint, (*rigGenerator).constraintTrack},
		{"visibility", mix.Visibility, (*rigGenerator).visibilityTrack},
		{"texture", mix.Texture, (*rigGenerator).textureTrack},
		{"distortion", mix.Distortion, (*rigGenerator).distortionTrack},
	}
	return g
}

// Build creates the store. Every third entity carries a skinned mesh so
// pose and IK tracks have something to drive.
func (g *rigGenerator) Build(store *scene.EntityStore) {
	g.store = store
	g.ids = g.ids[:0]
	for i := range g.cfg.Entities {
		e := scene.NewEntity(fmt.Sprintf("e%05d", i), geom.NewCoordsAt(g.randomVec(20)))
		if i%3 == 0 {
			e.Geometry = scene.NewSkinnedMesh(g.skeleton)
		}
		g.ids = append(g.ids, store.Add(e))
	}

	total := g.cfg.Mix.Total()
	for i, id := range g.ids {
		e, _ := store.Lookup(id)
		n := 1 + g.rng.Intn(3)
		for range n {
			kind := g.pick(total)
			if t := kind.build(g, i); t != nil {
				e.AddTrack(t)
				g.counts[kind.name]++
			}
		}
	}
}

func (g *rigGenerator) pick(total int) trackKind {
	r := g.rng.Intn(total)
	for _, k := range g.kinds {
		if r < k.weight {
			return k
		}
		r -= k.weight
	}
	return g.kinds[0]
}

// target picks a dependency for entity i, or 0 when the entity should not
// depend on anything. Most edges point backwards in store order.
func (g *rigGenerator) target(i int) scene.EntityId {
	if g.cfg.MaxDeps == 0 || g.links >= g.cfg.MaxDeps*len(g.ids) {
		return 0
	}
	var j int
	switch {
	case g.rng.Float64() < g.cfg.BackEdges:
		j = g.rng.Intn(len(g.ids))
	case i > 0:
		j = g.rng.Intn(i)
	default:
		return 0
	}
	if j == i {
		return 0
	}
	g.links++
	return g.ids[j]
}

func (g *rigGenerator) hasSkeleton(id scene.EntityId) bool {
	e, ok := g.store.Lookup(id)
	return ok && e.Skeleton() != nil
}

func (g *rigGenerator) randomVec(scale float32) geom.Vec3 {
	return geom.NewVec3(
		(g.rng.Float32()*2-1)*scale,
		(g.rng.Float32()*2-1)*scale,
		(g.rng.Float32()*2-1)*scale,
	)
}

func (g *rigGenerator) randomQuat() geom.Quat {
	axis := g.randomVec(1)
	if axis.LengthSquared() == 0 {
		axis = geom.NewVec3(0, 1, 0)
	}
	return geom.NewQuatFromAxisAngle(axis, g.rng.Float32()*math32.Pi)
}

func (g *rigGenerator) smoothing() scene.Smoothing {
	return scene.Smoothing(g.rng.Intn(3))
}

func (g *rigGenerator) keyTimes() []float64 {
	n := 2 + g.rng.Intn(3)
	times := make([]float64, n)
	for k := range times {
		times[k] = keyframeSpan * float64(k) / float64(n-1)
	}
	return times
}

func (g *rigGenerator) positionTrack(i int) scene.Track {
	tc := scene.NewTimecourse[geom.Vec3](g.smoothing())
	for _, t := range g.keyTimes() {
		tc.Set(t, g.randomVec(5))
	}
	track := scene.NewPositionTrack("position", tc)
	if dep := g.target(i); dep != 0 {
		if g.hasSkeleton(dep) {
			track.RelativeTo(scene.JointRef(dep, armJoints-1))
		} else {
			track.RelativeTo(scene.EntityRef(dep))
		}
	}
	if g.rng.Intn(4) == 0 {
		track.Mode = scene.Additive
		track.Weight = 0.5
	}
	return track
}

func (g *rigGenerator) rotationTrack(i int) scene.Track {
	tc := scene.NewTimecourse[geom.Quat](g.smoothing())
	for _, t := range g.keyTimes() {
		tc.Set(t, g.randomQuat())
	}
	track := scene.NewRotationTrack("rotation", tc)
	track.Relative = g.target(i)
	return track
}

func (g *rigGenerator) proceduralTrack(i int) scene.Track {
	dep := g.target(i)
	if dep == 0 {
		return nil
	}
	offset := g.randomVec(2)
	orbit := func(frame *scene.TrackFrame) (geom.Vec3, error) {
		e, ok := frame.Resolve(dep)
		if !ok {
			return frame.Owner.Coords.Origin, nil
		}
		angle := float32(frame.Time)
		spin := geom.NewQuatFromAxisAngle(geom.NewVec3(0, 1, 0), angle)
		return e.Coords.Origin.Add(spin.Rotate(offset)), nil
	}
	return scene.NewProceduralPositionTrack("orbit", orbit, dep)
}

func (g *rigGenerator) poseTrack(i int) scene.Track {
	if !g.hasSkeleton(g.ids[i]) {
		return nil
	}
	tc := scene.NewTimecourse[*scene.Pose](scene.Linear)
	for _, t := range g.keyTimes() {
		p := scene.NewPose(armJoints)
		for j := range armJoints {
			p.SetRotation(j, g.randomQuat())
		}
		tc.Set(t, p)
	}
	return scene.NewPoseTrack("pose", tc)
}

func (g *rigGenerator) ikTrack(i int) scene.Track {
	if !g.hasSkeleton(g.ids[i]) {
		return nil
	}
	dep := g.target(i)
	if dep == 0 {
		return nil
	}
	return scene.NewIKTrack("reach", scene.IKGoal{Joint: armJoints - 1, Target: scene.EntityRef(dep)})
}

func (g *rigGenerator) constraintTrack(i int) scene.Track {
	track := scene.NewConstraintTrack("floor")
	track.Y = scene.AxisConstraint{Limit: scene.AtLeast, Value: 0}
	if dep := g.target(i); dep != 0 {
		track.Facing(scene.EntityRef(dep))
	}
	return track
}

func (g *rigGenerator) visibilityTrack(int) scene.Track {
	var keys []scene.Keyframe[scene.Flag]
	for k, t := range g.keyTimes() {
		keys = append(keys, scene.Key(t, scene.Flag(k%2 == 0)))
	}
	return scene.NewVisibilityTrack("visible", keys...)
}

func (g *rigGenerator) textureTrack(int) scene.Track {
	tc := scene.NewTimecourse[geom.Scalar](scene.Smooth)
	for _, t := range g.keyTimes() {
		tc.Set(t, geom.Scalar(g.rng.Float32()))
	}
	return scene.NewTextureTrack("texture", "roughness", tc)
}

func (g *rigGenerator) distortionTrack(int) scene.Track {
	tc := scene.NewTimecourse[geom.Scalar](scene.Linear)
	for _, t := range g.keyTimes() {
		tc.Set(t, geom.Scalar(0.5+g.rng.Float32()))
	}
	if g.rng.Intn(2) == 0 {
		return scene.NewTwistTrack("twist", geom.NewVec3(0, 1, 0), tc)
	}
	return scene.NewScaleTrack("stretch", geom.NewVec3(0, 1, 0), tc)
}

// edit moves a few random entities the way a user dragging them would.
func (g *rigGenerator) edit(n int) []scene.EntityId {
	edited := make([]scene.EntityId, 0, n)
	for range n {
		id := g.ids[g.rng.Intn(len(g.ids))]
		e, ok := g.store.Lookup(id)
		if !ok {
			continue
		}
		e.Transform().SetOrigin(e.Coords.Origin.Add(g.randomVec(0.25)))
		edited = append(edited, id)
	}
	return edited
}
