package render

import (
	"github.com/taigrr/pinhole/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// PlaneThrough returns the plane with normal n containing p.
func PlaneThrough(n, p math3d.Vec3) Plane {
	return Plane{Normal: n, D: -n.Dot(p)}
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the volume a camera sees: four side planes through the eye
// and the image edges, and the eye plane itself. A pinhole camera has no
// far plane. Each plane's normal points inward.
type Frustum struct {
	Planes [5]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumTop
	FrustumBottom
	FrustumNear
)

// Frustum returns the camera's view volume.
func (cam *Camera) Frustum() Frustum {
	w, h := float64(cam.w), float64(cam.h)
	ray := cam.Ray
	inside := ray(w/2, h/2)

	// Corner rays pairwise span the side planes.
	sides := [4]struct {
		idx    int
		r0, r1 math3d.Vec3
	}{
		{FrustumTop, ray(0, 0), ray(w, 0)},
		{FrustumRight, ray(w, 0), ray(w, h)},
		{FrustumBottom, ray(w, h), ray(0, h)},
		{FrustumLeft, ray(0, h), ray(0, 0)},
	}

	var f Frustum
	for _, s := range sides {
		n := s.r0.Cross(s.r1)
		if n.Dot(inside) < 0 {
			n = n.Negate()
		}
		f.Planes[s.idx] = PlaneThrough(n, cam.center)
	}
	f.Planes[FrustumNear] = PlaneThrough(cam.ViewDirection(), cam.center)

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// BoundsOf returns the AABB of every point of src.
func BoundsOf(src PointSource) AABB {
	if src.VertexCount() == 0 {
		return AABB{}
	}
	b := AABB{Min: src.Position(0), Max: src.Position(0)}
	for i := 1; i < src.VertexCount(); i++ {
		p := src.Position(i)
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// HalfSize returns half the dimensions (extents from center).
func (b AABB) HalfSize() math3d.Vec3 {
	return b.Size().Scale(0.5)
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Returns true if any part of the AABB may be visible; boxes near a
// frustum edge can pass without being visible.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		// The "positive vertex" is the corner furthest along the normal. If
		// it is outside, the whole box is.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB tests if the AABB is completely inside the frustum.
func (f Frustum) ContainsAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		// The "negative vertex" is the corner closest along the normal.
		nVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Min.X, box.Max.X),
			selectComponent(plane.Normal.Y >= 0, box.Min.Y, box.Max.Y),
			selectComponent(plane.Normal.Z >= 0, box.Min.Z, box.Max.Z),
		)
		if plane.DistanceToPoint(nVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere tests if a sphere intersects the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
