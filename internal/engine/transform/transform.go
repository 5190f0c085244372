// Package transform holds the placement of a drawable in the world.
package transform

import "github.com/Faultbox/skylark/pkg/math"

// Transform is the position, rotation and scale a renderer reads to place a
// mesh. Vertex data is never touched; Matrix is built once per draw.
type Transform struct {
	Position math.Vec3
	Scale    math.Vec3
	Rotation math.Quat
}

// New returns a transform at position with uniform scale and no rotation.
func New(position math.Vec3, scale float32) Transform {
	return Transform{
		Position: position,
		Scale:    math.Vec3{X: scale, Y: scale, Z: scale},
		Rotation: math.QuatIdentity(),
	}
}

// Translate moves the transform by delta.
func (t *Transform) Translate(delta math.Vec3) {
	t.Position = t.Position.Add(delta)
}

// Rotate turns the transform by angle radians about axis in world space.
// A zero axis is a no-op.
func (t *Transform) Rotate(angle float32, axis math.Vec3) {
	if axis.IsZero() {
		return
	}
	t.RotateBy(math.QuatFromAxisAngle(axis.Normalize(), angle))
}

// RotateBy applies q after the current rotation.
func (t *Transform) RotateBy(q math.Quat) {
	t.Rotation = q.Mul(t.Rotation).Normalize()
}

// Rescale multiplies the scale per axis.
func (t *Transform) Rescale(x, y, z float32) {
	t.Scale.X *= x
	t.Scale.Y *= y
	t.Scale.Z *= z
}

// Matrix returns the model matrix (translation * rotation * scale).
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Position, t.Rotation, t.Scale)
}

// Forward returns the local +Z axis in world space.
func (t Transform) Forward() math.Vec3 {
	return t.Rotation.RotateVec3(math.UnitZ)
}
