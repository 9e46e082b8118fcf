package math3d

import (
	"testing"
)

func BenchmarkMat3Mul(b *testing.B) {
	m1 := RotationX(30)
	m2 := RotationY(45)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat3MulVec(b *testing.B) {
	m := RotationX(30).Mul(RotationY(45))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec(v)
	}
}

func BenchmarkMat3Inverse(b *testing.B) {
	m := M3Cols(V3(1, 0, 0), V3(0, -1, 0), V3(-320, 240, -554))

	for b.Loop() {
		_, _ = m.Inverse()
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkVec3Dot(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Dot(v2)
	}
}

func BenchmarkRotateAbout(b *testing.B) {
	p := V3(10, 20, 30)
	origin := V3(1, 1, 1)
	axis := V3(0.3, 0.9, 0.1)

	for b.Loop() {
		_ = p.RotateAbout(origin, axis, 33)
	}
}
