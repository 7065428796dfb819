package scene

import (
	"fmt"

	"github.com/plus3/tween/geom"
)

// Geometry is the payload an entity renders. The evaluator only needs to
// hand it poses and to drop its derived caches.
type Geometry interface {
	ApplyPose(p *Pose)
	ClearCache()
}

// Skeletal is implemented by geometry that carries a skeleton.
type Skeletal interface {
	Skeleton() *Skeleton
}

// Joint is one bone of a skeleton. Offset is the rest position relative to
// the parent joint, in the parent's frame. Root joints have Parent -1.
type Joint struct {
	Name   string
	Parent int
	Offset geom.Vec3
}

// Skeleton is an ordered joint hierarchy; every parent precedes its children.
type Skeleton struct {
	joints []Joint
}

// NewSkeleton validates the joint order and builds a skeleton.
func NewSkeleton(joints ...Joint) (*Skeleton, error) {
	for i, j := range joints {
		if j.Parent >= i || j.Parent < -1 {
			return nil, fmt.Errorf("joint %d (%s): parent %d must precede it", i, j.Name, j.Parent)
		}
	}
	return &Skeleton{joints: joints}, nil
}

func (s *Skeleton) Len() int {
	return len(s.joints)
}

func (s *Skeleton) Joint(i int) (Joint, bool) {
	if i < 0 || i >= len(s.joints) {
		return Joint{}, false
	}
	return s.joints[i], true
}

// forward computes the position and accumulated rotation of every joint up
// to and including last, in the owner's local frame.
func (s *Skeleton) forward(p *Pose, last int) ([]geom.Vec3, []geom.Quat) {
	pos := make([]geom.Vec3, last+1)
	rot := make([]geom.Quat, last+1)
	for i := 0; i <= last; i++ {
		j := s.joints[i]
		local := p.Rotation(i)
		if j.Parent < 0 {
			pos[i] = j.Offset
			rot[i] = local
			continue
		}
		pos[i] = pos[j.Parent].Add(rot[j.Parent].Rotate(j.Offset))
		rot[i] = rot[j.Parent].Mul(local)
	}
	return pos, rot
}

// JointOffset returns the position of a joint in the owner's local frame
// under pose p. A nil pose is the rest pose.
func (s *Skeleton) JointOffset(joint int, p *Pose) (geom.Vec3, bool) {
	if joint < 0 || joint >= len(s.joints) {
		return geom.Vec3{}, false
	}
	pos, _ := s.forward(p, joint)
	return pos[joint], true
}

// Aim rotates the parent of joint so that the bone ending at joint points
// at target, given in the owner's local frame. It returns the updated pose.
func (s *Skeleton) Aim(p *Pose, joint int, target geom.Vec3) (*Pose, error) {
	if joint < 0 || joint >= len(s.joints) {
		return p, fmt.Errorf("%w: %d", ErrUnknownJoint, joint)
	}
	parent := s.joints[joint].Parent
	if parent < 0 {
		return p, nil
	}
	pos, rot := s.forward(p, joint)

	current := pos[joint].Sub(pos[parent])
	desired := target.Sub(pos[parent])
	if desired.LengthSquared() == 0 || current.LengthSquared() == 0 {
		return p, nil
	}
	delta := geom.NewQuatBetween(current, desired)

	// rot[parent] = rot[grand] * local, and we want delta * rot[parent].
	grand := geom.NewQuatIdentity()
	if gp := s.joints[parent].Parent; gp >= 0 {
		grand = rot[gp]
	}
	local := grand.Conjugate().Mul(delta).Mul(rot[parent])

	out := p.Clone()
	if out == nil {
		out = NewPose(len(s.joints))
	}
	out.SetRotation(parent, local.Normalized())
	return out, nil
}

// Pose holds one local rotation per joint. Joints beyond the slice are at rest.
type Pose struct {
	Rotations []geom.Quat
}

// NewPose returns a rest pose for n joints.
func NewPose(n int) *Pose {
	p := &Pose{Rotations: make([]geom.Quat, n)}
	for i := range p.Rotations {
		p.Rotations[i] = geom.NewQuatIdentity()
	}
	return p
}

// Rotation returns the local rotation of joint i. It is safe on a nil pose.
func (p *Pose) Rotation(i int) geom.Quat {
	if p == nil || i >= len(p.Rotations) {
		return geom.NewQuatIdentity()
	}
	return p.Rotations[i]
}

func (p *Pose) SetRotation(i int, q geom.Quat) {
	for len(p.Rotations) <= i {
		p.Rotations = append(p.Rotations, geom.NewQuatIdentity())
	}
	p.Rotations[i] = q
}

func (p *Pose) Clone() *Pose {
	if p == nil {
		return nil
	}
	return &Pose{Rotations: append([]geom.Quat(nil), p.Rotations...)}
}

// Lerp blends two poses joint by joint.
func (p *Pose) Lerp(other *Pose, t float32) *Pose {
	n := max(len(p.rotations()), len(other.rotations()))
	out := &Pose{Rotations: make([]geom.Quat, n)}
	for i := range n {
		out.Rotations[i] = p.Rotation(i).Slerp(other.Rotation(i), t)
	}
	return out
}

func (p *Pose) rotations() []geom.Quat {
	if p == nil {
		return nil
	}
	return p.Rotations
}

// SkinnedMesh is geometry driven by a skeleton. It keeps the posed joint
// positions of the last applied pose until the cache is cleared.
type SkinnedMesh struct {
	skeleton *Skeleton
	applied  *Pose
	posed    []geom.Vec3

	PoseApplications int
	CacheClears      int
}

func NewSkinnedMesh(skeleton *Skeleton) *SkinnedMesh {
	return &SkinnedMesh{skeleton: skeleton}
}

func (m *SkinnedMesh) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *SkinnedMesh) ApplyPose(p *Pose) {
	m.applied = p.Clone()
	m.posed = nil
	if n := m.skeleton.Len(); n > 0 {
		m.posed, _ = m.skeleton.forward(m.applied, n-1)
	}
	m.PoseApplications++
}

func (m *SkinnedMesh) ClearCache() {
	m.applied = nil
	m.posed = nil
	m.CacheClears++
}

// AppliedPose returns the last pose handed to the mesh, or nil after a clear.
func (m *SkinnedMesh) AppliedPose() *Pose {
	return m.applied
}

// PosedJoints returns the cached joint positions in the owner's local frame.
func (m *SkinnedMesh) PosedJoints() []geom.Vec3 {
	return m.posed
}
