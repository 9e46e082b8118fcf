package models

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// gridSteps returns the number of grid cells along an edge of length l.
// Cells are about two units wide so lighting has vertices to work with.
func gridSteps(l float64) int {
	return max(1, int(math.Ceil(math.Abs(l)/2)))
}

// addGrid appends a (uSteps+1)×(vSteps+1) grid of vertices spanning
// origin + u*i + v*j and its two triangles per cell.
func (m *Mesh) addGrid(origin, u, v math3d.Vec3, uSteps, vSteps int, normal, color math3d.Vec3) {
	base := len(m.Vertices)
	uVerts := uSteps + 1

	for j := range vSteps + 1 {
		for i := range uVerts {
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: origin.Add(u.Scale(float64(i))).Add(v.Scale(float64(j))),
				Normal:   normal,
				Color:    color,
				UV:       math3d.V2(float64(i)/float64(uSteps), float64(j)/float64(vSteps)),
			})
		}
	}

	for j := range vSteps {
		for i := range uSteps {
			p00 := base + j*uVerts + i
			p10 := p00 + 1
			p01 := p00 + uVerts
			p11 := p01 + 1
			m.Faces = append(m.Faces,
				Face{V: [3]int{p00, p10, p11}},
				Face{V: [3]int{p00, p11, p01}},
			)
		}
	}
}

// NewBox creates an axis-aligned box between two opposite corners. Each
// side is a grid of roughly two-unit cells with its own outward normals.
func NewBox(p0, p1, color math3d.Vec3) *Mesh {
	lo, hi := p0.Min(p1), p0.Max(p1)
	size := hi.Sub(lo)
	xs, ys, zs := gridSteps(size.X), gridSteps(size.Y), gridSteps(size.Z)

	dx := math3d.V3(size.X/float64(xs), 0, 0)
	dy := math3d.V3(0, size.Y/float64(ys), 0)
	dz := math3d.V3(0, 0, size.Z/float64(zs))

	m := NewMesh("box")
	m.addGrid(lo, dx, dy, xs, ys, math3d.V3(0, 0, -1), color)
	m.addGrid(math3d.V3(lo.X, lo.Y, hi.Z), dx, dy, xs, ys, math3d.V3(0, 0, 1), color)
	m.addGrid(lo, dx, dz, xs, zs, math3d.V3(0, -1, 0), color)
	m.addGrid(math3d.V3(lo.X, hi.Y, lo.Z), dx, dz, xs, zs, math3d.V3(0, 1, 0), color)
	m.addGrid(lo, dy, dz, ys, zs, math3d.V3(-1, 0, 0), color)
	m.addGrid(math3d.V3(hi.X, lo.Y, lo.Z), dy, dz, ys, zs, math3d.V3(1, 0, 0), color)

	m.HasNormals, m.HasColors, m.HasTexCoords = true, true, true
	m.CalculateBounds()
	return m
}

// NewPlane creates a horizontal grid of side size centered on center,
// facing +Y.
func NewPlane(center math3d.Vec3, size float64, color math3d.Vec3) *Mesh {
	steps := gridSteps(size)
	d := size / float64(steps)
	origin := center.Sub(math3d.V3(size/2, 0, size/2))

	m := NewMesh("plane")
	m.addGrid(origin, math3d.V3(d, 0, 0), math3d.V3(0, 0, d), steps, steps, math3d.Up(), color)

	m.HasNormals, m.HasColors, m.HasTexCoords = true, true, true
	m.CalculateBounds()
	return m
}

// NewQuad creates a two-triangle quad from corners given in order around
// its edge. Texture coordinates run from (0,0) at p0 to (1,1) at p2.
func NewQuad(p0, p1, p2, p3, color math3d.Vec3) *Mesh {
	normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	uvs := [4]math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1), math3d.V2(0, 1)}

	m := NewMesh("quad")
	for i, p := range [4]math3d.Vec3{p0, p1, p2, p3} {
		m.Vertices = append(m.Vertices, MeshVertex{Position: p, Normal: normal, Color: color, UV: uvs[i]})
	}
	m.Faces = []Face{{V: [3]int{0, 1, 2}}, {V: [3]int{0, 2, 3}}}

	m.HasNormals, m.HasColors, m.HasTexCoords = true, true, true
	m.CalculateBounds()
	return m
}

// NewCylinder creates a capped cylinder along Y with the given number of
// steps around its circumference (at least 3).
func NewCylinder(center math3d.Vec3, radius, height float64, steps int, color math3d.Vec3) *Mesh {
	steps = max(3, steps)
	half := height / 2
	m := NewMesh("cylinder")

	ring := func(y float64, normal func(dir math3d.Vec3) math3d.Vec3) int {
		base := len(m.Vertices)
		for i := range steps {
			a := 2 * math.Pi * float64(i) / float64(steps)
			dir := math3d.V3(math.Cos(a), 0, math.Sin(a))
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: center.Add(dir.Scale(radius)).Add(math3d.V3(0, y, 0)),
				Normal:   normal(dir),
				Color:    color,
				UV:       math3d.V2(float64(i)/float64(steps), (y+half)/height),
			})
		}
		return base
	}
	addCap := func(y float64, n math3d.Vec3) {
		rim := ring(y, func(math3d.Vec3) math3d.Vec3 { return n })
		mid := len(m.Vertices)
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: center.Add(math3d.V3(0, y, 0)),
			Normal:   n,
			Color:    color,
			UV:       math3d.V2(0.5, 0.5),
		})
		for i := range steps {
			m.Faces = append(m.Faces, Face{V: [3]int{rim + i, rim + (i+1)%steps, mid}})
		}
	}

	addCap(-half, math3d.V3(0, -1, 0))
	addCap(half, math3d.Up())

	// Sides get their own rings so the caps keep flat normals.
	radial := func(dir math3d.Vec3) math3d.Vec3 { return dir }
	bottom := ring(-half, radial)
	top := ring(half, radial)
	for i := range steps {
		j := (i + 1) % steps
		m.Faces = append(m.Faces,
			Face{V: [3]int{bottom + i, bottom + j, top + i}},
			Face{V: [3]int{bottom + j, top + j, top + i}},
		)
	}

	m.HasNormals, m.HasColors, m.HasTexCoords = true, true, true
	m.CalculateBounds()
	return m
}
