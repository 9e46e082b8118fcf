// Package models provides triangle meshes for pinhole: procedural
// primitives, the .bin and glTF loaders, per-vertex lighting and drawing
// through a render.Camera.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// ErrBadIndex is returned when a face refers to a vertex that does not exist.
var ErrBadIndex = errors.New("models: triangle index out of range")

// Mesh represents a 3D mesh with vertices and triangle faces.
//
// Optional vertex attributes are all-or-nothing: the Has* flags say which
// ones are meaningful for every vertex. Lit colors are derived by the
// lighting functions and may be recomputed every frame.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	HasNormals   bool
	HasColors    bool
	HasTexCoords bool
	HasLit       bool

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    math3d.Vec3 // RGB in 0-1 range
	Lit      math3d.Vec3 // Color after lighting
	UV       math3d.Vec2
}

// Face represents a triangle face.
type Face struct {
	V [3]int // Indices into Mesh.Vertices
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// Validate checks that every face index addresses a vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, v := range f.V {
			if v < 0 || v >= n {
				return fmt.Errorf("face %d vertex %d of %d: %w", i, v, n, ErrBadIndex)
			}
		}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) math3d.Vec3 {
	return m.Vertices[i].Position
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// Triangle returns the vertex indices of face i.
func (m *Mesh) Triangle(i int) [3]int {
	return m.Faces[i].V
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the average vertex position.
func (m *Mesh) Center() math3d.Vec3 {
	if len(m.Vertices) == 0 {
		return math3d.Vec3{}
	}
	var sum math3d.Vec3
	for _, v := range m.Vertices {
		sum = sum.Add(v.Position)
	}
	return sum.Div(float64(len(m.Vertices)))
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// CalculateNormals computes face normals and assigns them to vertices.
// Vertices shared between faces keep the normal of the last face.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		normal := m.faceNormal(f).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = normal
		}
	}
	m.HasNormals = true
}

// CalculateSmoothNormals computes area-weighted averaged normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	// Accumulate unnormalized face normals per vertex
	for _, f := range m.Faces {
		normal := m.faceNormal(f)
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
	m.HasNormals = true
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// SetColor gives every vertex the same color.
func (m *Mesh) SetColor(c math3d.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
	m.HasColors = true
}

// Translate moves every vertex by d.
func (m *Mesh) Translate(d math3d.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Add(d)
	}
	m.BoundsMin = m.BoundsMin.Add(d)
	m.BoundsMax = m.BoundsMax.Add(d)
}

// SetCenter translates the mesh so its center lands on p.
func (m *Mesh) SetCenter(p math3d.Vec3) {
	m.Translate(p.Sub(m.Center()))
}

// Scale scales the mesh by s about its center.
func (m *Mesh) Scale(s float64) {
	c := m.Center()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = c.Add(v.Position.Sub(c).Scale(s))
	}
	m.CalculateBounds()
}

// RotateAbout rotates positions and normals by deg degrees about the axis
// through origin.
func (m *Mesh) RotateAbout(origin, axis math3d.Vec3, deg float64) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = v.Position.RotateAbout(origin, axis, deg)
		v.Normal = v.Normal.RotateDirection(axis, deg)
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = make([]MeshVertex, len(m.Vertices))
	clone.Faces = make([]Face, len(m.Faces))
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return &clone
}
