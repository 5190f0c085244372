package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/skylark/pkg/math"
)

const tol = 1e-5

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func assertOrthonormal(t *testing.T, b Basis) {
	t.Helper()
	for name, v := range map[string]math.Vec3{"forward": b.Forward, "right": b.Right, "up": b.Up} {
		if l := v.Length(); abs(l-1) > tol {
			t.Errorf("%s length = %v, want 1", name, l)
		}
	}
	if d := b.Forward.Dot(b.Right); abs(d) > tol {
		t.Errorf("forward·right = %v", d)
	}
	if d := b.Forward.Dot(b.Up); abs(d) > tol {
		t.Errorf("forward·up = %v", d)
	}
	if d := b.Right.Dot(b.Up); abs(d) > tol {
		t.Errorf("right·up = %v", d)
	}
	// Right-handed: right × up points back along -forward for this convention.
	if got := b.Right.Cross(b.Up); got.Distance(b.Forward.Neg()) > 1e-4 {
		t.Errorf("right×up = %v, want %v", got, b.Forward.Neg())
	}
}

func TestBasisOrthonormal(t *testing.T) {
	for yaw := float32(-7); yaw <= 7; yaw += 0.37 {
		for pitch := MinPitch; pitch <= MaxPitch; pitch += 0.25 {
			assertOrthonormal(t, BasisFromAngles(yaw, pitch))
		}
	}
}

func TestBasisAtZero(t *testing.T) {
	b := BasisFromAngles(0, 0)
	if b.Forward.Distance(math.UnitX) > tol {
		t.Errorf("forward = %v, want +X", b.Forward)
	}
	if b.Right.Distance(math.UnitZ) > tol {
		t.Errorf("right = %v, want +Z", b.Right)
	}
	if b.Up.Distance(math.UnitY) > tol {
		t.Errorf("up = %v, want +Y", b.Up)
	}
}

func TestNewDerivesInitialPose(t *testing.T) {
	target := math.Vec3{X: 0, Y: 1, Z: 0}
	c := New(1.18, 0, math.Vec3{Z: -50}, target)

	assertOrthonormal(t, c.Basis())
	want := target.Add(c.Forward().Scale(-50))
	if c.Position().Distance(want) > 1e-3 {
		t.Errorf("position = %v, want %v", c.Position(), want)
	}
}

func TestPitchClamp(t *testing.T) {
	tests := []struct {
		name  string
		dy    float32
		steps int
		want  float32
	}{
		{"pointer down saturates low", 1e6, 3, MinPitch},
		{"pointer up saturates high", -1e6, 3, MaxPitch},
		{"small motion stays inside", 1, 1, -0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(0, 0, math.Vec3{}, math.Vec3{})
			for i := 0; i < tt.steps; i++ {
				c.Update(1, math.Vec2{Y: tt.dy}, math.Vec3{})
				if c.Pitch < MinPitch || c.Pitch > MaxPitch {
					t.Fatalf("pitch %v escaped [%v, %v]", c.Pitch, MinPitch, MaxPitch)
				}
			}
			if abs(c.Pitch-tt.want) > tol {
				t.Errorf("pitch = %v, want %v", c.Pitch, tt.want)
			}
		})
	}
}

func TestPitchClampAbsorbsExcess(t *testing.T) {
	c := New(0, 0, math.Vec3{}, math.Vec3{})
	for i := 0; i < 10; i++ {
		c.Update(1, math.Vec2{Y: -1000}, math.Vec3{})
	}
	// One step back the other way must leave the limit immediately.
	c.Update(1, math.Vec2{Y: 1}, math.Vec3{})
	if want := MaxPitch - 0.1; abs(c.Pitch-want) > tol {
		t.Errorf("pitch = %v, want %v", c.Pitch, want)
	}
}

func TestYawIsNotWrapped(t *testing.T) {
	c := New(0, 0, math.Vec3{}, math.Vec3{})
	c.Update(1, math.Vec2{X: 1000}, math.Vec3{})
	if abs(c.Yaw-100) > 1e-4 {
		t.Errorf("yaw = %v, want 100", c.Yaw)
	}
}

func TestUpdateScalesByDt(t *testing.T) {
	c := New(0, 0, math.Vec3{}, math.Vec3{})
	c.Update(0.5, math.Vec2{X: 4, Y: 2}, math.Vec3{})
	if abs(c.Yaw-0.2) > tol {
		t.Errorf("yaw = %v, want 0.2", c.Yaw)
	}
	if abs(c.Pitch+0.1) > tol {
		t.Errorf("pitch = %v, want -0.1", c.Pitch)
	}
}

func TestPositionFollowsOffset(t *testing.T) {
	target := math.Vec3{X: 5, Y: 6, Z: 7}
	offset := math.Vec3{X: 2, Y: 3, Z: -50}
	c := New(0.3, 0.2, offset, math.Vec3{})
	c.Update(1.0/60, math.Vec2{X: 12, Y: -4}, target)

	b := c.Basis()
	want := target.
		Add(b.Forward.Scale(offset.Z)).
		Add(b.Right.Scale(-offset.X)).
		Add(b.Up.Scale(offset.Y))
	if c.Position().Distance(want) > 1e-3 {
		t.Errorf("position = %v, want %v", c.Position(), want)
	}
}

func TestViewMatrixCentersLookTarget(t *testing.T) {
	c := New(1.18, 0.4, math.Vec3{Z: -50}, math.Vec3{Y: 1})
	v := c.ViewMatrix()
	p := v.TransformVec3(c.LookTarget())
	// The look target sits straight ahead, down the -Z view axis.
	if abs(p.X) > 1e-3 || abs(p.Y) > 1e-3 || abs(p.Z+lookDistance) > 1e-3 {
		t.Errorf("look target in view space = %v, want (0,0,-%d)", p, lookDistance)
	}
}

func TestProjectionUsesFOV(t *testing.T) {
	c := New(0, 0, math.Vec3{}, math.Vec3{})
	p := c.Projection(1)
	want := float32(1 / gomath.Tan(float64(c.FOV)/2))
	if abs(p[5]-want) > 1e-5 {
		t.Errorf("projection[5] = %v, want %v", p[5], want)
	}
}
