package scene

import "fmt"

// PoseTrack drives the skeletal pose of its owner from keyframed poses.
type PoseTrack struct {
	TrackInfo
	Keys   *Timecourse[*Pose]
	Weight float32
}

func NewPoseTrack(name string, keys *Timecourse[*Pose]) *PoseTrack {
	return &PoseTrack{
		TrackInfo: TrackInfo{Label: name},
		Keys:      keys,
		Weight:    1,
	}
}

func (t *PoseTrack) IsNull() bool {
	return t.Keys.Len() == 0
}

func (t *PoseTrack) Affects() Affect {
	return AffectsPose
}

func (t *PoseTrack) Apply(frame *TrackFrame) error {
	p, ok := t.Keys.Evaluate(frame.Time)
	if !ok {
		return nil
	}
	owner := frame.Owner
	cur := owner.Pose()
	if cur == nil || t.Weight >= 1 {
		owner.SetPose(p.Clone())
		return nil
	}
	owner.SetPose(cur.Lerp(p, t.Weight))
	return nil
}

// IKGoal asks for the bone ending at Joint to point at Target.
type IKGoal struct {
	Joint  int
	Target Ref
}

// IKTrack aims bones of its owner's skeleton at other entities.
type IKTrack struct {
	TrackInfo
	Goals []IKGoal
}

func NewIKTrack(name string, goals ...IKGoal) *IKTrack {
	return &IKTrack{
		TrackInfo: TrackInfo{Label: name},
		Goals:     goals,
	}
}

func (t *IKTrack) IsNull() bool {
	return len(t.Goals) == 0
}

func (t *IKTrack) Dependencies() []EntityId {
	var deps []EntityId
	for _, g := range t.Goals {
		if g.Target.Entity != 0 {
			deps = append(deps, g.Target.Entity)
		}
	}
	return deps
}

func (t *IKTrack) Affects() Affect {
	return AffectsPose
}

func (t *IKTrack) Constrains() bool {
	return true
}

func (t *IKTrack) Apply(frame *TrackFrame) error {
	owner := frame.Owner
	skel := owner.Skeleton()
	if skel == nil {
		return ErrNoSkeleton
	}
	pose := owner.Pose()
	for _, g := range t.Goals {
		target, ok := g.Target.coords(frame)
		if !ok {
			continue
		}
		next, err := skel.Aim(pose, g.Joint, owner.Coords.ToLocal(target.Origin))
		if err != nil {
			return fmt.Errorf("ik goal: %w", err)
		}
		pose = next
	}
	if pose == nil {
		pose = NewPose(skel.Len())
	}
	owner.SetPose(pose)
	return nil
}
