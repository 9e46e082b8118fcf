package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// ErrDegeneratePose is returned by Pose when the look direction is zero or
// parallel to the up hint.
var ErrDegeneratePose = errors.New("render: degenerate camera pose")

// Camera is a planar pinhole camera.
//
// The basis vector a points one pixel to the right on the image plane, b
// points one pixel down and c points from the eye to the top-left corner of
// the image plane. A world point P maps to the image point (u, v) with
// P - C = (a*u + b*v + c) * z for some z > 0.
//
// The basis is only reachable through methods so the cached inverse of
// [a|b|c] always matches it.
type Camera struct {
	center  math3d.Vec3
	a, b, c math3d.Vec3
	w, h    int

	inv math3d.Mat3
}

// NewCamera creates a camera at the origin looking down -Z with the given
// horizontal field of view in degrees and resolution in pixels.
func NewCamera(hfovDeg float64, w, h int) *Camera {
	half := math3d.Deg2Rad(hfovDeg) / 2
	cam := &Camera{
		a: math3d.V3(1, 0, 0),
		b: math3d.V3(0, -1, 0),
		c: math3d.V3(-float64(w)/2, float64(h)/2, -float64(w)/(2*math.Tan(half))),
		w: w,
		h: h,
	}
	cam.updateMatrices()
	return cam
}

// newCameraFromBasis builds a camera from raw basis vectors, as read back
// from a saved camera path.
func newCameraFromBasis(a, b, c, center math3d.Vec3, w, h int) (*Camera, error) {
	cam := &Camera{center: center, a: a, b: b, c: c, w: w, h: h}
	m := math3d.M3Cols(a, b, c)
	inv, err := m.Inverse()
	if err != nil {
		return nil, fmt.Errorf("camera basis: %w", err)
	}
	cam.inv = inv
	return cam, nil
}

// updateMatrices recomputes the cached inverse. Every basis mutation ends
// here. A degenerate basis is a programming error and leaves the previous
// inverse in place.
func (cam *Camera) updateMatrices() {
	inv, err := math3d.M3Cols(cam.a, cam.b, cam.c).Inverse()
	if err != nil {
		return
	}
	cam.inv = inv
}

// Width returns the image width in pixels.
func (cam *Camera) Width() int { return cam.w }

// Height returns the image height in pixels.
func (cam *Camera) Height() int { return cam.h }

// Position returns the eye position C.
func (cam *Camera) Position() math3d.Vec3 { return cam.center }

// Right returns the basis vector a.
func (cam *Camera) Right() math3d.Vec3 { return cam.a }

// Down returns the basis vector b.
func (cam *Camera) Down() math3d.Vec3 { return cam.b }

// Principal returns the basis vector c.
func (cam *Camera) Principal() math3d.Vec3 { return cam.c }

// ViewDirection returns the unit view direction a×b.
func (cam *Camera) ViewDirection() math3d.Vec3 {
	return cam.a.Cross(cam.b).Normalize()
}

// FocalLength returns the distance from the eye to the image plane in
// pixel units.
func (cam *Camera) FocalLength() float64 {
	return cam.ViewDirection().Dot(cam.c)
}

// SetPosition moves the eye without changing the orientation.
func (cam *Camera) SetPosition(p math3d.Vec3) {
	cam.center = p
}

// Clone returns an independent copy of the camera.
func (cam *Camera) Clone() *Camera {
	cp := *cam
	return &cp
}

// Project maps a world point to image coordinates. The returned vector holds
// (u, v, 1/z) where z is the camera-space depth, so nearer points get larger
// third components. ok is false when the point is on or behind the eye plane;
// callers skip the primitive in that case.
func (cam *Camera) Project(p math3d.Vec3) (proj math3d.Vec3, ok bool) {
	q := cam.inv.MulVec(p.Sub(cam.center))
	if q.Z <= 0 {
		return math3d.Vec3{}, false
	}
	return math3d.V3(q.X/q.Z, q.Y/q.Z, 1/q.Z), true
}

// Unproject is the inverse of Project: it returns the world point seen at
// image coordinates (u, v) with inverse depth invDepth.
func (cam *Camera) Unproject(u, v, invDepth float64) math3d.Vec3 {
	return cam.center.Add(cam.Ray(u, v).Scale(1 / invDepth))
}

// Ray returns the unnormalized viewing direction through image point (u, v).
func (cam *Camera) Ray(u, v float64) math3d.Vec3 {
	return cam.c.Add(cam.a.Scale(u)).Add(cam.b.Scale(v))
}

// rotateBasis rotates a, b and c by deg degrees about dir.
func (cam *Camera) rotateBasis(dir math3d.Vec3, deg float64) {
	cam.a = cam.a.RotateDirection(dir, deg)
	cam.b = cam.b.RotateDirection(dir, deg)
	cam.c = cam.c.RotateDirection(dir, deg)
	cam.updateMatrices()
}

// Pan rotates the camera about its down vector b.
func (cam *Camera) Pan(deg float64) {
	cam.rotateBasis(cam.b, deg)
}

// Tilt rotates the camera about its right vector a.
func (cam *Camera) Tilt(deg float64) {
	cam.rotateBasis(cam.a, deg)
}

// Roll rotates the camera about its view direction.
func (cam *Camera) Roll(deg float64) {
	cam.rotateBasis(cam.ViewDirection(), deg)
}

// TranslateRight moves the eye t pixel widths along a.
func (cam *Camera) TranslateRight(t float64) {
	cam.center = cam.center.Add(cam.a.Scale(t))
}

// TranslateUp moves the eye t pixel heights against b.
func (cam *Camera) TranslateUp(t float64) {
	cam.center = cam.center.Sub(cam.b.Scale(t))
}

// TranslateForward moves the eye t units along the view direction.
func (cam *Camera) TranslateForward(t float64) {
	cam.center = cam.center.Add(cam.ViewDirection().Scale(t))
}

// Zoom pushes the image plane s units along the view direction, which
// lengthens the focal length for positive s.
func (cam *Camera) Zoom(s float64) {
	cam.c = cam.c.Add(cam.ViewDirection().Scale(s))
	cam.updateMatrices()
}

// RevolveLeftRight orbits the camera about the axis b through center.
func (cam *Camera) RevolveLeftRight(center math3d.Vec3, deg float64) {
	cam.revolve(center, cam.b, deg)
}

// RevolveUpDown orbits the camera about the axis -a through center.
func (cam *Camera) RevolveUpDown(center math3d.Vec3, deg float64) {
	cam.revolve(center, cam.a.Negate(), deg)
}

func (cam *Camera) revolve(center, axis math3d.Vec3, deg float64) {
	cam.center = cam.center.RotateAbout(center, axis, deg)
	cam.rotateBasis(axis, deg)
}

// Pose moves the eye to center and points it at lookAt, keeping the focal
// length. up only needs to be roughly up. The camera is left untouched when
// the pose is degenerate.
func (cam *Camera) Pose(center, lookAt, up math3d.Vec3) error {
	f := cam.FocalLength()

	vd, err := lookAt.Sub(center).Unit()
	if err != nil {
		return fmt.Errorf("pose look direction: %w", ErrDegeneratePose)
	}
	a, err := vd.Cross(up).Unit()
	if err != nil {
		return fmt.Errorf("pose up hint parallel to view: %w", ErrDegeneratePose)
	}
	b := vd.Cross(a).Normalize()

	cam.center = center
	cam.a = a
	cam.b = b
	cam.c = vd.Scale(f).
		Sub(a.Scale(float64(cam.w) / 2)).
		Sub(b.Scale(float64(cam.h) / 2))
	cam.updateMatrices()
	return nil
}

// Interpolate returns a camera between cam (t = 0) and other (t = 1) by
// linear interpolation of the eye and basis vectors. The endpoints are
// returned as exact copies.
func (cam *Camera) Interpolate(other *Camera, t float64) *Camera {
	switch t {
	case 0:
		return cam.Clone()
	case 1:
		return other.Clone()
	}
	out := &Camera{
		center: cam.center.Lerp(other.center, t),
		a:      cam.a.Lerp(other.a, t),
		b:      cam.b.Lerp(other.b, t),
		c:      cam.c.Lerp(other.c, t),
		w:      cam.w,
		h:      cam.h,
		inv:    cam.inv,
	}
	out.updateMatrices()
	return out
}

// Visualize draws this camera as seen through viewer: the eye, the image
// plane rectangle placed at distance scale along each corner ray, and the
// four frustum edges.
func (cam *Camera) Visualize(viewer *Camera, fb *Framebuffer, scale float64, col math3d.Vec3) {
	w, h := float64(cam.w), float64(cam.h)
	s := scale / cam.FocalLength()
	corners := [4]math3d.Vec3{
		cam.Unproject(0, 0, 1/s),
		cam.Unproject(w, 0, 1/s),
		cam.Unproject(w, h, 1/s),
		cam.Unproject(0, h, 1/s),
	}
	for i := range corners {
		next := corners[(i+1)%4]
		fb.Draw3DSegment(corners[i], next, col, col, viewer)
		fb.Draw3DSegment(cam.center, corners[i], col, col, viewer)
	}
	fb.Draw3DPoint(cam.center, viewer, 5, col)
}
