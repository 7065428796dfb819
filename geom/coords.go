package geom

// Coords is the position and orientation of an object in the world.
// The orientation is stored as a rotation; the basis vectors are derived.
type Coords struct {
	Origin      Vec3
	Orientation Quat
}

// NewCoords returns coordinates at the world origin with identity orientation.
func NewCoords() Coords {
	return Coords{Orientation: NewQuatIdentity()}
}

func NewCoordsAt(origin Vec3) Coords {
	return Coords{Origin: origin, Orientation: NewQuatIdentity()}
}

func (c *Coords) SetOrigin(origin Vec3) {
	c.Origin = origin
}

func (c *Coords) SetOrientation(orientation Quat) {
	c.Orientation = orientation
}

// ResetOrigin moves the origin to the zero vector.
func (c *Coords) ResetOrigin() {
	c.Origin = Vec3{}
}

// ResetOrientation sets the orientation to identity.
func (c *Coords) ResetOrientation() {
	c.Orientation = NewQuatIdentity()
}

// XDir, UpDir and ZDir return the rotation basis.
func (c Coords) XDir() Vec3 {
	return c.Orientation.Rotate(Vec3{X: 1})
}

func (c Coords) UpDir() Vec3 {
	return c.Orientation.Rotate(Vec3{Y: 1})
}

func (c Coords) ZDir() Vec3 {
	return c.Orientation.Rotate(Vec3{Z: 1})
}

// FromLocal maps a point expressed in these coordinates to world space.
func (c Coords) FromLocal(p Vec3) Vec3 {
	return c.Orientation.Rotate(p).Add(c.Origin)
}

// ToLocal maps a world space point into these coordinates.
func (c Coords) ToLocal(p Vec3) Vec3 {
	return c.Orientation.Conjugate().Rotate(p.Sub(c.Origin))
}

// Compare reports whether both origin and orientation match within tolerance.
func (c Coords) Compare(other Coords, tolerance float32) bool {
	return c.Origin.Compare(other.Origin, tolerance) && c.Orientation.Compare(other.Orientation, tolerance)
}
