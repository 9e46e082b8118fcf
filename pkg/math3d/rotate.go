package math3d

import "math"

// RotateAbout rotates point a by deg degrees about the axis through origin.
// Positive angles follow the right-hand rule around axis. A zero axis
// leaves a unchanged.
func (a Vec3) RotateAbout(origin, axis Vec3, deg float64) Vec3 {
	basis, ok := axisFrame(axis)
	if !ok {
		return a
	}
	local := basis.MulVec(a.Sub(origin))
	local = RotationZ(deg).MulVec(local)
	return basis.Transpose().MulVec(local).Add(origin)
}

// RotateDirection rotates direction a by deg degrees about axis.
func (a Vec3) RotateDirection(axis Vec3, deg float64) Vec3 {
	return a.RotateAbout(Vec3{}, axis, deg)
}

// axisFrame returns an orthonormal frame whose rows are u, v and the
// normalized axis, with u × v == axis.
func axisFrame(axis Vec3) (Mat3, bool) {
	w, err := axis.Unit()
	if err != nil {
		return Mat3{}, false
	}
	helper := Vec3{0, 1, 0}
	if math.Abs(w.X) < math.Abs(w.Y) {
		helper = Vec3{1, 0, 0}
	}
	u := helper.Cross(w).Normalize()
	v := w.Cross(u)
	return Mat3{u, v, w}, true
}
