package render

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// DefaultShadowBias is the inverse-depth margin a point must be behind a
// recorded occluder before it counts as shadowed.
const DefaultShadowBias = 0.01

// PointSource is anything with vertex positions, such as a mesh.
type PointSource interface {
	VertexCount() int
	Position(i int) math3d.Vec3
}

// TriangleSource is a PointSource with triangle connectivity.
type TriangleSource interface {
	PointSource
	TriangleCount() int
	Triangle(i int) [3]int
}

// ShadowMap records the nearest occluders around a point light in the depth
// buffers of a cube map.
type ShadowMap struct {
	cube *CubeMap
	Bias float64
}

// NewShadowMap creates a shadow map with size×size faces for a light at pos.
func NewShadowMap(size int, pos math3d.Vec3) *ShadowMap {
	return &ShadowMap{
		cube: NewCubeMap(size, pos),
		Bias: DefaultShadowBias,
	}
}

// Position returns the light position.
func (sm *ShadowMap) Position() math3d.Vec3 {
	return sm.cube.Center()
}

// SetPosition moves the light. Recorded depths are not cleared.
func (sm *ShadowMap) SetPosition(p math3d.Vec3) {
	sm.cube.SetCenter(p)
}

// Cube exposes the underlying cube map, mostly for debugging views of the
// depth faces.
func (sm *ShadowMap) Cube() *CubeMap {
	return sm.cube
}

// Clear forgets every recorded occluder.
func (sm *ShadowMap) Clear() {
	sm.cube.ClearDepth()
}

// project finds the face for p and its texel. ok is false if p is behind
// that face's camera or outside its image.
func (sm *ShadowMap) project(p math3d.Vec3) (face, u, v int, z float64, ok bool) {
	face = FaceFor(p.Sub(sm.cube.Center()))
	q, ok := sm.cube.cams[face].Project(p)
	if !ok {
		return face, 0, 0, 0, false
	}
	u, v = int(math.Floor(q.X)), int(math.Floor(q.Y))
	if !sm.cube.faces[face].InBounds(u, v) {
		return face, 0, 0, 0, false
	}
	return face, u, v, q.Z, true
}

// Accumulate records p as an occluder, keeping the nearest one per texel.
func (sm *ShadowMap) Accumulate(p math3d.Vec3) {
	face, u, v, z, ok := sm.project(p)
	if !ok {
		return
	}
	sm.cube.faces[face].testAndSetDepth(u, v, z)
}

// AccumulatePoints records every vertex of src.
func (sm *ShadowMap) AccumulatePoints(src PointSource) {
	for i := range src.VertexCount() {
		sm.Accumulate(src.Position(i))
	}
}

// AccumulateSurfaces rasterizes every triangle of src into the depth of each
// face that sees all three of its vertices. This covers texels between
// vertices that AccumulatePoints leaves empty. Each texel keeps the farthest
// depth its surface reaches inside it, so a receiver never shadows itself.
func (sm *ShadowMap) AccumulateSurfaces(src TriangleSource) {
	for i := range src.TriangleCount() {
		tri := src.Triangle(i)
		p := [3]math3d.Vec3{src.Position(tri[0]), src.Position(tri[1]), src.Position(tri[2])}
		for f := range faceCount {
			v, ok := projectTriangle(sm.cube.cams[f], p)
			if !ok {
				continue
			}
			sm.cube.faces[f].drawFarthestDepthTriangle(v)
		}
	}
}

// IsOccluded reports whether something recorded lies between the light and
// p. Points the chosen face cannot see are never occluded, and neither is a
// point that is itself the recorded occluder.
func (sm *ShadowMap) IsOccluded(p math3d.Vec3) bool {
	face, u, v, z, ok := sm.project(p)
	if !ok {
		return false
	}
	return z < sm.cube.faces[face].Depth[v*sm.cube.size+u]-sm.Bias
}
