// Package camera provides the free-look follow camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/skylark/pkg/math"
)

// Pitch limits in radians (~±85.9°). Past these the basis would flip at the poles.
const (
	MinPitch float32 = -1.5
	MaxPitch float32 = 1.5
)

// DefaultLookSpeed scales pointer motion into radians per second.
const DefaultLookSpeed float32 = 0.1

// lookDistance is how far ahead of the camera the look target sits.
const lookDistance = 10

// Basis is an orthonormal right-handed frame.
type Basis struct {
	Forward math.Vec3
	Right   math.Vec3
	Up      math.Vec3
}

// BasisFromAngles derives the frame for yaw and pitch (radians) against the
// world up axis.
func BasisFromAngles(yaw, pitch float32) Basis {
	cy, sy := gomath.Cos(float64(yaw)), gomath.Sin(float64(yaw))
	cp, sp := gomath.Cos(float64(pitch)), gomath.Sin(float64(pitch))

	forward := math.Vec3{
		X: float32(cy * cp),
		Y: float32(sp),
		Z: float32(sy * cp),
	}.Normalize()
	right := forward.Cross(math.WorldUp).Normalize()
	up := right.Cross(forward).Normalize()

	return Basis{Forward: forward, Right: right, Up: up}
}

// FollowCamera orbits a tracked target using accumulated yaw and pitch.
// Yaw and pitch are the only persisted angular state; the basis is rebuilt
// from them on every update so no drift accumulates.
type FollowCamera struct {
	Yaw   float32
	Pitch float32
	Roll  float32 // stored, not used by the basis

	// Offset from the target in the camera's own frame:
	// X lateral (positive is left), Y vertical, Z along forward.
	Offset math.Vec3

	LookSpeed float32

	// Projection
	FOV  float32 // radians
	Near float32
	Far  float32

	basis    Basis
	position math.Vec3
}

// New creates a camera at the given angles, already positioned relative to target.
func New(yaw, pitch float32, offset, target math.Vec3) *FollowCamera {
	c := &FollowCamera{
		Yaw:       yaw,
		Pitch:     clampPitch(pitch),
		Offset:    offset,
		LookSpeed: DefaultLookSpeed,
		FOV:       gomath.Pi / 4,
		Near:      0.1,
		Far:       10000,
	}
	c.rebuild(target)
	return c
}

// Update integrates pointer motion into yaw and pitch, rebuilds the basis
// and re-places the camera relative to target.
func (c *FollowCamera) Update(dt float32, pointerDelta math.Vec2, target math.Vec3) {
	c.Yaw += pointerDelta.X * dt * c.LookSpeed
	c.Pitch += pointerDelta.Y * dt * -c.LookSpeed
	c.Pitch = clampPitch(c.Pitch)
	c.rebuild(target)
}

func (c *FollowCamera) rebuild(target math.Vec3) {
	c.basis = BasisFromAngles(c.Yaw, c.Pitch)
	c.position = target.
		Add(c.basis.Forward.Scale(c.Offset.Z)).
		Add(c.basis.Right.Neg().Scale(c.Offset.X)).
		Add(c.basis.Up.Scale(c.Offset.Y))
}

func clampPitch(p float32) float32 {
	if p > MaxPitch {
		return MaxPitch
	}
	if p < MinPitch {
		return MinPitch
	}
	return p
}

// Basis returns the current frame.
func (c *FollowCamera) Basis() Basis { return c.basis }

// Forward returns the current forward vector.
func (c *FollowCamera) Forward() math.Vec3 { return c.basis.Forward }

// Right returns the current right vector.
func (c *FollowCamera) Right() math.Vec3 { return c.basis.Right }

// Up returns the current up vector.
func (c *FollowCamera) Up() math.Vec3 { return c.basis.Up }

// Position returns the camera position in world space.
func (c *FollowCamera) Position() math.Vec3 { return c.position }

// LookTarget returns the point the camera looks at.
func (c *FollowCamera) LookTarget() math.Vec3 {
	return c.position.Add(c.basis.Forward.Scale(lookDistance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *FollowCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.position, c.LookTarget(), c.basis.Up)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *FollowCamera) Projection(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}
