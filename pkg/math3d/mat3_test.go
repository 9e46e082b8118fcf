package math3d

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestMat3Cols(t *testing.T) {
	m := M3Cols(V3(1, 2, 3), V3(4, 5, 6), V3(7, 8, 9))
	want := Mat3{{1, 4, 7}, {2, 5, 8}, {3, 6, 9}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("M3Cols mismatch (-want +got):\n%s", diff)
	}
	if got := m.Col(1); got != V3(4, 5, 6) {
		t.Errorf("Col(1) = %v, want (4,5,6)", got)
	}
	if got := m.SetCol(2, V3(0, 0, 0)).Col(2); got != Zero3() {
		t.Errorf("SetCol(2) = %v, want zero", got)
	}
}

func TestMat3Inverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat3
	}{
		{"identity", Identity3()},
		{"rotation", RotationX(30).Mul(RotationY(-70)).Mul(RotationZ(12))},
		{"camera basis", M3Cols(V3(1, 0, 0), V3(0, -1, 0), V3(-320, 240, -554.256))},
		{"general", Mat3{{2, 1, 0}, {0, 3, 1}, {1, 0, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.m.Inverse()
			if err != nil {
				t.Fatalf("Inverse: %v", err)
			}
			if diff := cmp.Diff(Identity3(), tt.m.Mul(inv), approx); diff != "" {
				t.Errorf("m * inv != I (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(Identity3(), inv.Mul(tt.m), approx); diff != "" {
				t.Errorf("inv * m != I (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMat3InverseSingular(t *testing.T) {
	m := M3Cols(V3(1, 2, 3), V3(2, 4, 6), V3(0, 0, 1))
	if _, err := m.Inverse(); !errors.Is(err, ErrSingular) {
		t.Errorf("Inverse error = %v, want ErrSingular", err)
	}
}

func TestRotationMatrices(t *testing.T) {
	tests := []struct {
		name string
		m    Mat3
		in   Vec3
		want Vec3
	}{
		{"x 90", RotationX(90), V3(0, 1, 0), V3(0, 0, 1)},
		{"y 90", RotationY(90), V3(0, 0, 1), V3(1, 0, 0)},
		{"z 90", RotationZ(90), V3(1, 0, 0), V3(0, 1, 0)},
		{"z -90", RotationZ(-90), V3(1, 0, 0), V3(0, -1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.MulVec(tt.in); !got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("MulVec = %v, want %v", got, tt.want)
			}
			if d := tt.m.Det(); d < 1-1e-12 || d > 1+1e-12 {
				t.Errorf("Det = %v, want 1", d)
			}
		})
	}
}

func TestTranspose(t *testing.T) {
	m := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	want := Mat3{{1, 4, 7}, {2, 5, 8}, {3, 6, 9}}
	if diff := cmp.Diff(want, m.Transpose()); diff != "" {
		t.Errorf("Transpose mismatch (-want +got):\n%s", diff)
	}
}
