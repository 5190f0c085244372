package transform

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/skylark/pkg/math"
)

func near(a, b math.Vec3) bool {
	return a.Distance(b) < 1e-4
}

func TestNew(t *testing.T) {
	tr := New(math.Vec3{X: 0, Y: 1, Z: 0}, 3)
	if tr.Scale != (math.Vec3{X: 3, Y: 3, Z: 3}) {
		t.Errorf("scale = %v, want uniform 3", tr.Scale)
	}
	if tr.Rotation != math.QuatIdentity() {
		t.Errorf("rotation = %v, want identity", tr.Rotation)
	}
}

func TestTranslateAccumulates(t *testing.T) {
	tr := New(math.Vec3{}, 1)
	tr.Translate(math.Vec3{X: 1, Y: 2, Z: 3})
	tr.Translate(math.Vec3{X: -1, Y: 0, Z: 1})
	if want := (math.Vec3{X: 0, Y: 2, Z: 4}); tr.Position != want {
		t.Errorf("position = %v, want %v", tr.Position, want)
	}
}

func TestRotate(t *testing.T) {
	tr := New(math.Vec3{}, 1)
	tr.Rotate(gomath.Pi/2, math.UnitY)
	if got := tr.Forward(); !near(got, math.UnitX) {
		t.Errorf("forward after yaw 90 = %v, want +X", got)
	}

	before := tr.Rotation
	tr.Rotate(1, math.Vec3{})
	if tr.Rotation != before {
		t.Error("rotation about a zero axis should be ignored")
	}
}

func TestRescale(t *testing.T) {
	tr := New(math.Vec3{}, 2)
	tr.Rescale(1, 0.5, 3)
	if want := (math.Vec3{X: 2, Y: 1, Z: 6}); tr.Scale != want {
		t.Errorf("scale = %v, want %v", tr.Scale, want)
	}
}

func TestMatrixLeavesSourceUntouched(t *testing.T) {
	tr := New(math.Vec3{X: 10, Y: 0, Z: 0}, 10)
	vertex := math.Vec3{X: 1, Y: 0, Z: 0}
	m := tr.Matrix()

	if got := m.TransformVec3(vertex); !near(got, math.Vec3{X: 20, Y: 0, Z: 0}) {
		t.Errorf("transformed vertex = %v, want (20,0,0)", got)
	}
	if vertex != (math.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Error("source vertex was modified")
	}
}
