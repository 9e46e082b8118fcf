package render

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// perspectiveEpsilon keeps perspective-correct division finite when every
// vertex has zero inverse depth.
const perspectiveEpsilon = 1e-9

// edge is the line function A*x + B*y + C. Zero on the edge, positive on the
// side of the triangle's interior once oriented.
type edge struct {
	A, B, C float64
}

// edgeCoeffs returns the edge function through (x0, y0) and (x1, y1).
func edgeCoeffs(x0, y0, x1, y1 float64) edge {
	return edge{
		A: y0 - y1,
		B: x1 - x0,
		C: x0*y1 - x1*y0,
	}
}

func (e edge) eval(x, y float64) float64 {
	return e.A*x + e.B*y + e.C
}

// triangleSetup is a screen-space triangle ready for scan conversion.
// Edge i is the edge opposite vertex i, so edge i divided by twice the
// triangle area is the barycentric weight of vertex i.
type triangleSetup struct {
	edges                  [3]edge
	invArea                float64
	minX, maxX, minY, maxY int
}

// setupTriangle prepares v (x, y in pixels) for scanning into fb. ok is
// false when the triangle has no area or misses the framebuffer.
func (fb *Framebuffer) setupTriangle(v [3]math3d.Vec3) (s triangleSetup, ok bool) {
	s.edges = [3]edge{
		edgeCoeffs(v[1].X, v[1].Y, v[2].X, v[2].Y),
		edgeCoeffs(v[2].X, v[2].Y, v[0].X, v[0].Y),
		edgeCoeffs(v[0].X, v[0].Y, v[1].X, v[1].Y),
	}

	area2 := s.edges[0].eval(v[0].X, v[0].Y)
	if area2 == 0 || math.IsNaN(area2) || math.IsInf(area2, 0) {
		return s, false
	}

	// Orient every edge so the opposite vertex is on its positive side.
	for i := range s.edges {
		if s.edges[i].eval(v[i].X, v[i].Y) < 0 {
			s.edges[i] = edge{-s.edges[i].A, -s.edges[i].B, -s.edges[i].C}
		}
	}
	s.invArea = 1 / math.Abs(area2)

	// Bounding box (clamped to screen)
	s.minX, s.maxX = pixelSpan(min3(v[0].X, v[1].X, v[2].X), max3(v[0].X, v[1].X, v[2].X), fb.Width)
	s.minY, s.maxY = pixelSpan(min3(v[0].Y, v[1].Y, v[2].Y), max3(v[0].Y, v[1].Y, v[2].Y), fb.Height)

	return s, s.minX <= s.maxX && s.minY <= s.maxY
}

// pixelSpan returns the pixel range [first, last] covering [lo, hi] within
// n pixels. Clamping happens in float64 so far-off coordinates never reach
// the int conversion. first > last when nothing is covered.
func pixelSpan(lo, hi float64, n int) (first, last int) {
	lo = math.Min(math.Max(math.Floor(lo), 0), float64(n))
	hi = math.Max(math.Min(math.Ceil(hi), float64(n-1)), -1)
	return int(lo), int(hi)
}

// weights returns the barycentric weights at (x, y).
func (s *triangleSetup) weights(x, y float64) (w0, w1, w2 float64) {
	w0 = s.edges[0].eval(x, y) * s.invArea
	w1 = s.edges[1].eval(x, y) * s.invArea
	return w0, w1, 1 - w0 - w1
}

// scan calls fn for every covered pixel with its barycentric weights.
// Edge functions are evaluated at pixel centers and stepped incrementally.
func (s *triangleSetup) scan(fn func(u, v int, w0, w1, w2 float64)) {
	e0, e1, e2 := s.edges[0], s.edges[1], s.edges[2]

	px := float64(s.minX) + 0.5
	py := float64(s.minY) + 0.5

	r0 := e0.eval(px, py)
	r1 := e1.eval(px, py)
	r2 := e2.eval(px, py)

	for y := s.minY; y <= s.maxY; y++ {
		d0, d1, d2 := r0, r1, r2

		for x := s.minX; x <= s.maxX; x++ {
			if d0 >= 0 && d1 >= 0 && d2 >= 0 {
				w0 := d0 * s.invArea
				w1 := d1 * s.invArea
				fn(x, y, w0, w1, 1-w0-w1)
			}

			// Step in X direction
			d0 += e0.A
			d1 += e1.A
			d2 += e2.A
		}

		// Step in Y direction
		r0 += e0.B
		r1 += e1.B
		r2 += e2.B
	}
}

// depthSlope returns the change in interpolated inverse depth per pixel
// along x and y.
func (s *triangleSetup) depthSlope(v [3]math3d.Vec3) (dx, dy float64) {
	for i, e := range s.edges {
		dx += e.A * v[i].Z
		dy += e.B * v[i].Z
	}
	return dx * s.invArea, dy * s.invArea
}

// blend returns w0*a + w1*b + w2*c.
func blend(a, b, c math3d.Vec3, w0, w1, w2 float64) math3d.Vec3 {
	return math3d.Vec3{
		X: a.X*w0 + b.X*w1 + c.X*w2,
		Y: a.Y*w0 + b.Y*w1 + c.Y*w2,
		Z: a.Z*w0 + b.Z*w1 + c.Z*w2,
	}
}

// Draw2DTriangle rasterizes a projected triangle. Each vertex holds
// (u, v, inverse depth); colors and depth interpolate affinely.
func (fb *Framebuffer) Draw2DTriangle(v [3]math3d.Vec3, c [3]math3d.Vec3) {
	s, ok := fb.setupTriangle(v)
	if !ok {
		return
	}
	s.scan(func(u, y int, w0, w1, w2 float64) {
		z := v[0].Z*w0 + v[1].Z*w1 + v[2].Z*w2
		if fb.IsFarther(u, y, z) {
			return
		}
		fb.SetWithDepth(u, y, z, ColorFromVec(blend(c[0], c[1], c[2], w0, w1, w2)))
	})
}

// Draw3DTriangle projects p through cam and rasterizes it with per-vertex
// colors. Triangles with any vertex behind the camera are skipped.
func (fb *Framebuffer) Draw3DTriangle(p [3]math3d.Vec3, c [3]math3d.Vec3, cam *Camera) {
	v, ok := projectTriangle(cam, p)
	if !ok {
		return
	}
	fb.Draw2DTriangle(v, c)
}

// Draw2DTexturedTriangle rasterizes a projected triangle with
// perspective-correct texture coordinates. The texture's wrap modes select
// plain or mirror tiling.
func (fb *Framebuffer) Draw2DTexturedTriangle(v [3]math3d.Vec3, uv [3]math3d.Vec2, tex *Texture) {
	s, ok := fb.setupTriangle(v)
	if !ok {
		return
	}
	s.scan(func(u, y int, w0, w1, w2 float64) {
		z := v[0].Z*w0 + v[1].Z*w1 + v[2].Z*w2
		if fb.IsFarther(u, y, z) {
			return
		}
		p0, p1, p2 := w0*v[0].Z, w1*v[1].Z, w2*v[2].Z
		inv := 1 / (p0 + p1 + p2 + perspectiveEpsilon)
		tu := (p0*uv[0].X + p1*uv[1].X + p2*uv[2].X) * inv
		tv := (p0*uv[0].Y + p1*uv[1].Y + p2*uv[2].Y) * inv
		fb.SetWithDepth(u, y, z, tex.Sample(tu, tv))
	})
}

// Draw2DReflectiveTriangle rasterizes a projected triangle whose color comes
// from env in the direction of the view ray reflected about the
// perspective-correct interpolated normal. cam is the camera that produced
// v.
func (fb *Framebuffer) Draw2DReflectiveTriangle(v [3]math3d.Vec3, n [3]math3d.Vec3, cam *Camera, env *CubeMap) {
	s, ok := fb.setupTriangle(v)
	if !ok {
		return
	}
	s.scan(func(u, y int, w0, w1, w2 float64) {
		z := v[0].Z*w0 + v[1].Z*w1 + v[2].Z*w2
		if fb.IsFarther(u, y, z) {
			return
		}
		p0, p1, p2 := w0*v[0].Z, w1*v[1].Z, w2*v[2].Z
		inv := 1 / (p0 + p1 + p2 + perspectiveEpsilon)
		normal := blend(n[0], n[1], n[2], p0, p1, p2).Scale(inv).Normalize()

		px := cam.Unproject(float64(u)+0.5, float64(y)+0.5, z)
		view := px.Sub(cam.Position())
		fb.SetWithDepth(u, y, z, env.Color(view.Reflect(normal)))
	})
}

// Draw2DDepthTriangle writes only the depth of a projected triangle.
func (fb *Framebuffer) Draw2DDepthTriangle(v [3]math3d.Vec3) {
	s, ok := fb.setupTriangle(v)
	if !ok {
		return
	}
	s.scan(func(u, y int, w0, w1, w2 float64) {
		fb.testAndSetDepth(u, y, v[0].Z*w0+v[1].Z*w1+v[2].Z*w2)
	})
}

// drawFarthestDepthTriangle is Draw2DDepthTriangle recording, per pixel,
// the smallest inverse depth the triangle's plane takes anywhere inside
// that pixel. Any point of the surface then lies at or in front of its own
// record, however steeply the surface is seen.
func (fb *Framebuffer) drawFarthestDepthTriangle(v [3]math3d.Vec3) {
	s, ok := fb.setupTriangle(v)
	if !ok {
		return
	}
	dx, dy := s.depthSlope(v)
	slack := 0.5 * (math.Abs(dx) + math.Abs(dy))
	s.scan(func(u, y int, w0, w1, w2 float64) {
		fb.testAndSetDepth(u, y, v[0].Z*w0+v[1].Z*w1+v[2].Z*w2-slack)
	})
}

// Draw2DSegment draws a projected segment with DDA stepping. Color and depth
// interpolate affinely. The segment is clipped to the framebuffer before
// stepping, so only visible pixels are visited.
func (fb *Framebuffer) Draw2DSegment(p0, p1, c0, c1 math3d.Vec3) {
	t0, t1, ok := clipSegment(p0.X, p0.Y, p1.X, p1.Y, float64(fb.Width), float64(fb.Height))
	if !ok {
		return
	}
	if t0 > 0 || t1 < 1 {
		p0, p1 = p0.Lerp(p1, t0), p0.Lerp(p1, t1)
		c0, c1 = c0.Lerp(c1, t0), c0.Lerp(c1, t1)
	}
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		fb.SetWithDepthSafe(int(math.Floor(p0.X)), int(math.Floor(p0.Y)), p0.Z, ColorFromVec(c0))
		return
	}
	for i := range steps + 1 {
		t := float64(i) / float64(steps)
		p := p0.Lerp(p1, t)
		fb.SetWithDepthSafe(int(math.Floor(p.X)), int(math.Floor(p.Y)), p.Z, ColorFromVec(c0.Lerp(c1, t)))
	}
}

// Draw3DSegment projects a world-space segment through cam and draws it.
// Segments with an endpoint behind the camera are skipped.
func (fb *Framebuffer) Draw3DSegment(p0, p1, c0, c1 math3d.Vec3, cam *Camera) {
	q0, ok0 := cam.Project(p0)
	q1, ok1 := cam.Project(p1)
	if !ok0 || !ok1 {
		return
	}
	fb.Draw2DSegment(q0, q1, c0, c1)
}

// Draw2DPoint draws a size×size square centered on the projected point p.
func (fb *Framebuffer) Draw2DPoint(p math3d.Vec3, size int, c math3d.Vec3) {
	reach := float64(size)
	if !(p.X > -reach && p.X < float64(fb.Width)+reach && p.Y > -reach && p.Y < float64(fb.Height)+reach) {
		return
	}
	col := ColorFromVec(c)
	u0 := int(math.Floor(p.X)) - size/2
	v0 := int(math.Floor(p.Y)) - size/2
	for v := v0; v < v0+size; v++ {
		for u := u0; u < u0+size; u++ {
			fb.SetWithDepthSafe(u, v, p.Z, col)
		}
	}
}

// Draw3DPoint projects p through cam and draws it as a square marker.
func (fb *Framebuffer) Draw3DPoint(p math3d.Vec3, cam *Camera, size int, c math3d.Vec3) {
	q, ok := cam.Project(p)
	if !ok {
		return
	}
	fb.Draw2DPoint(q, size, c)
}

// VisualizePointLight draws a light marker: a square at pos and three
// axis-aligned strokes of the given world-space radius.
func (fb *Framebuffer) VisualizePointLight(pos math3d.Vec3, cam *Camera, radius float64, c math3d.Vec3) {
	for axis := range 3 {
		d := math3d.Vec3{}.SetAxis(axis, radius)
		fb.Draw3DSegment(pos.Sub(d), pos.Add(d), c, c, cam)
	}
	fb.Draw3DPoint(pos, cam, 7, c)
}

// projectTriangle projects the three vertices of p. ok is false if any
// vertex is behind the camera.
func projectTriangle(cam *Camera, p [3]math3d.Vec3) (v [3]math3d.Vec3, ok bool) {
	for i := range p {
		if v[i], ok = cam.Project(p[i]); !ok {
			return v, false
		}
	}
	return v, true
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
