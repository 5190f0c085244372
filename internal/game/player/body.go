// Package player implements the player ship's motion model.
package player

import (
	gomath "math"

	"github.com/Faultbox/skylark/pkg/math"
)

// Defaults for a newly spawned ship.
const (
	DefaultMaxSpeed        float32 = 200
	DefaultStabilizerPower float32 = 1
	DefaultTurnRate        float32 = 10
	DefaultAcceleration    float32 = 200
)

// Body is a force-driven rigid body with automatic velocity damping.
//
// Stabilizing is true except on a tick where a non-zero force was applied.
// Damping only ever shrinks velocity toward zero; it never reverses it.
type Body struct {
	Velocity    math.Vec3
	MaxSpeed    float32
	Position    math.Vec3
	Orientation math.Quat

	Stabilizing     bool
	StabilizerPower float32

	// TurnRate scales how fast the facing closes on its heading, per second.
	TurnRate float32
}

// New creates a body at rest at position.
func New(position math.Vec3, maxSpeed float32) *Body {
	return &Body{
		MaxSpeed:        maxSpeed,
		Position:        position,
		Orientation:     math.QuatIdentity(),
		Stabilizing:     true,
		StabilizerPower: DefaultStabilizerPower,
		TurnRate:        DefaultTurnRate,
	}
}

// AddForce accumulates dir*magnitude into velocity and caps the speed at
// MaxSpeed, preserving direction. dir is used as given: a non-unit dir
// scales the effective magnitude.
func (b *Body) AddForce(dir math.Vec3, magnitude float32) {
	b.Velocity = b.Velocity.Add(dir.Scale(magnitude)).ClampLength(0, b.MaxSpeed)
	if !dir.IsZero() {
		b.Stabilizing = false
	}
}

// Step integrates position and applies damping. Call it once per tick after
// all forces for the tick. It returns the translation made this tick.
func (b *Body) Step(dt float32) math.Vec3 {
	last := b.Position
	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	if b.Stabilizing {
		b.Stabilize(dt)
	} else {
		b.Stabilizing = true
	}

	return b.Position.Sub(last)
}

// Stabilize decays velocity toward zero by StabilizerPower*dt, clamped to [0, 1].
func (b *Body) Stabilize(dt float32) {
	t := clamp01(b.StabilizerPower * dt)
	b.Velocity = b.Velocity.Lerp(math.Vec3{}, t)
}

// Facing returns the body's nose direction (local +Z) in world space.
func (b *Body) Facing() math.Vec3 {
	return b.Orientation.RotateVec3(math.UnitZ)
}

// Speed returns the velocity magnitude.
func (b *Body) Speed() float32 {
	return b.Velocity.Length()
}

// AlignOrientation turns the facing part of the way toward heading and
// returns the rotation applied this tick.
//
// The step covers 1-exp(-TurnRate*dt) of the remaining arc. Turn speed is
// proportional to angular distance, the heading is never overshot, and
// long frames slow the turn instead of snapping onto the heading.
// A zero heading leaves the orientation unchanged.
func (b *Body) AlignOrientation(heading math.Vec3, dt float32) math.Quat {
	target := heading.Normalize()
	if target.IsZero() {
		return math.QuatIdentity()
	}

	arc := math.QuatBetween(b.Facing(), target)
	t := clamp01(1 - float32(gomath.Exp(float64(-b.TurnRate*dt))))
	step := math.QuatIdentity().Slerp(arc, t).Normalize()

	b.Orientation = step.Mul(b.Orientation).Normalize()
	return step
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
