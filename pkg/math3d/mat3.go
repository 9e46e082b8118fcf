package math3d

import (
	"errors"
	"math"
)

// ErrSingular is returned when inverting a matrix with a zero determinant.
var ErrSingular = errors.New("math3d: singular matrix")

// Mat3 is a 3x3 matrix stored as three row vectors.
type Mat3 [3]Vec3

// M3Rows builds a matrix from its rows.
func M3Rows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{r0, r1, r2}
}

// M3Cols builds a matrix whose columns are a, b and c.
func M3Cols(a, b, c Vec3) Mat3 {
	return Mat3{
		{a.X, b.X, c.X},
		{a.Y, b.Y, c.Y},
		{a.Z, b.Z, c.Z},
	}
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Row returns row i.
func (m Mat3) Row(i int) Vec3 {
	return m[i]
}

// Col returns column i.
func (m Mat3) Col(i int) Vec3 {
	return Vec3{m[0].Axis(i), m[1].Axis(i), m[2].Axis(i)}
}

// SetCol returns a copy of m with column i replaced by v.
func (m Mat3) SetCol(i int, v Vec3) Mat3 {
	m[0] = m[0].SetAxis(i, v.X)
	m[1] = m[1].SetAxis(i, v.Y)
	m[2] = m[2].SetAxis(i, v.Z)
	return m
}

// MulVec returns m * v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{m[0].Dot(v), m[1].Dot(v), m[2].Dot(v)}
}

// Mul returns the matrix product m * n.
func (m Mat3) Mul(n Mat3) Mat3 {
	c0, c1, c2 := n.Col(0), n.Col(1), n.Col(2)
	var r Mat3
	for i := range 3 {
		r[i] = Vec3{m[i].Dot(c0), m[i].Dot(c1), m[i].Dot(c2)}
	}
	return r
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return M3Rows(m.Col(0), m.Col(1), m.Col(2))
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0].Dot(m[1].Cross(m[2]))
}

// Inverse returns the inverse of m, built from cross products of its
// columns: with columns a, b, c the rows of the inverse are b×c, c×a and
// a×b divided by a·(b×c).
func (m Mat3) Inverse() (Mat3, error) {
	a, b, c := m.Col(0), m.Col(1), m.Col(2)
	bc := b.Cross(c)
	det := a.Dot(bc)
	if det == 0 || math.IsNaN(det) {
		return Mat3{}, ErrSingular
	}
	inv := 1 / det
	return Mat3{
		bc.Scale(inv),
		c.Cross(a).Scale(inv),
		a.Cross(b).Scale(inv),
	}, nil
}

// RotationX returns a rotation of deg degrees about the X axis.
func RotationX(deg float64) Mat3 {
	s, c := math.Sincos(Deg2Rad(deg))
	return Mat3{
		{1, 0, 0},
		{0, c, -s},
		{0, s, c},
	}
}

// RotationY returns a rotation of deg degrees about the Y axis.
func RotationY(deg float64) Mat3 {
	s, c := math.Sincos(Deg2Rad(deg))
	return Mat3{
		{c, 0, s},
		{0, 1, 0},
		{-s, 0, c},
	}
}

// RotationZ returns a rotation of deg degrees about the Z axis.
func RotationZ(deg float64) Mat3 {
	s, c := math.Sincos(Deg2Rad(deg))
	return Mat3{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}
