package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestTranslateTransform(t *testing.T) {
	m := Translate(Vec3{10, 20, 30})
	if got := m.TransformVec3(Vec3{1, 2, 3}); got != (Vec3{11, 22, 33}) {
		t.Errorf("TransformVec3: got %v, want (11, 22, 33)", got)
	}
}

func TestCompose(t *testing.T) {
	pos := Vec3{100, 10, 600}
	rot := QuatFromAxisAngle(UnitY, math.Pi/2)
	scale := Vec3{2, 2, 2}
	m := Compose(pos, rot, scale)

	// Scale first, then rotate, then translate.
	got := m.TransformVec3(UnitX)
	want := pos.Add(rot.RotateVec3(UnitX.Scale(2)))
	if !near(got, want, 1e-4) {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
}

func TestLookAtMatchesMathgl(t *testing.T) {
	eye := Vec3{3, 4, -50}
	center := Vec3{0, 1, 0}
	up := UnitY

	got := LookAt(eye, center, up)
	want := mgl32.LookAtV(mgl32.Vec3{eye.X, eye.Y, eye.Z}, mgl32.Vec3{center.X, center.Y, center.Z}, mgl32.Vec3{0, 1, 0})
	for i := range got {
		if abs(got[i]-want[i]) > 1e-4 {
			t.Errorf("LookAt element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPerspectiveMatchesMathgl(t *testing.T) {
	fov := float32(math.Pi / 4)
	got := Perspective(fov, 1260.0/768.0, 0.1, 10000)
	want := mgl32.Perspective(fov, 1260.0/768.0, 0.1, 10000)
	for i := range got {
		if abs(got[i]-want[i]) > 1e-3 {
			t.Errorf("Perspective element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
