package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
	if !m.IsIdentity() {
		t.Error("IsIdentity should be true")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translation(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M: got %v, want %v", result, m)
	}
}

func TestTranslation(t *testing.T) {
	m := Translation(5, 10, 15)

	// Translation lives in column 4 (indices 12, 13, 14)
	if m.At(0, 3) != 5 || m.At(1, 3) != 10 || m.At(2, 3) != 15 {
		t.Errorf("Translation: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestHomogeneousRowFixed(t *testing.T) {
	m := FromArray([16]float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})
	if m.At(3, 0) != 0 || m.At(3, 1) != 0 || m.At(3, 2) != 0 || m.At(3, 3) != 1 {
		t.Errorf("homogeneous row = (%v, %v, %v, %v), want (0, 0, 0, 1)",
			m.At(3, 0), m.At(3, 1), m.At(3, 2), m.At(3, 3))
	}
	if m.At(0, 3) != 13 {
		t.Errorf("At(0, 3) = %v, want 13", m.At(0, 3))
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translation(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scaling(2, 3, 4)
	got := m.TransformPoint(Vec3{1, 2, 3})
	want := Vec3{2, 6, 12}
	if got != want {
		t.Errorf("TransformPoint with scale: got %v, want %v", got, want)
	}
}

func TestRotateY90(t *testing.T) {
	m := Rotation(Vec3{0, 1, 0}, 90)
	got := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become (0,0,-1)
	if !got.ApproxEqual(Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("Rotate Y 90: got %v, want (0, 0, -1)", got)
	}
}

func TestRotationNormalizesAxis(t *testing.T) {
	a := Rotation(Vec3{0, 0, 5}, 90).TransformPoint(Vec3{1, 0, 0})
	b := Rotation(Vec3{0, 0, 1}, 90).TransformPoint(Vec3{1, 0, 0})
	if !a.ApproxEqual(b, 1e-12) {
		t.Errorf("scaled axis rotation = %v, unit axis rotation = %v", a, b)
	}
	if !b.ApproxEqual(Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("Rotate Z 90: got %v, want (0, 1, 0)", b)
	}
}

func TestComposeOrder(t *testing.T) {
	// The most recently added transform applies first.
	m := Identity().Translate(10, 0, 0).Scale(2, 2, 2)
	got := m.TransformPoint(Vec3{1, 0, 0})
	want := Vec3{12, 0, 0}
	if got != want {
		t.Errorf("translate then scale: got %v, want %v", got, want)
	}
}

func TestComposeDoesNotMutate(t *testing.T) {
	base := Translation(1, 2, 3)
	before := base
	_ = base.Rotate(Vec3{1, 0, 0}, 45)
	_ = base.Scale(3, 3, 3)
	if base != before {
		t.Error("composition mutated its receiver")
	}
}

func TestDeterminant3(t *testing.T) {
	if d := Scaling(-1, 1, 1).Determinant3(); d != -1 {
		t.Errorf("mirror determinant = %v, want -1", d)
	}
	if d := Rotation(Vec3{1, 1, 0}, 33).Determinant3(); math.Abs(d-1) > 1e-12 {
		t.Errorf("rotation determinant = %v, want 1", d)
	}
}
