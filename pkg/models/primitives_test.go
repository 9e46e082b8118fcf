package models

import (
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
)

func TestPrimitiveCounts(t *testing.T) {
	gray := math3d.V3(0.5, 0.5, 0.5)

	tests := []struct {
		name        string
		mesh        *Mesh
		verts, tris int
		min, max    math3d.Vec3
	}{
		{
			name:  "box",
			mesh:  NewBox(math3d.V3(2, 2, 2), math3d.V3(-2, -2, -2), gray),
			verts: 6 * 9, tris: 6 * 8,
			min: math3d.V3(-2, -2, -2), max: math3d.V3(2, 2, 2),
		},
		{
			name:  "flat box",
			mesh:  NewBox(math3d.V3(0, 0, 0), math3d.V3(4, 1, 0), gray),
			verts: 2*(3*2) + 2*(3*2) + 2*(2*2), tris: 2*(2*2) + 2*(2*2) + 2*2,
			min: math3d.V3(0, 0, 0), max: math3d.V3(4, 1, 0),
		},
		{
			name:  "plane",
			mesh:  NewPlane(math3d.V3(0, -1, 0), 10, gray),
			verts: 36, tris: 50,
			min: math3d.V3(-5, -1, -5), max: math3d.V3(5, -1, 5),
		},
		{
			name:  "quad",
			mesh:  NewQuad(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0), gray),
			verts: 4, tris: 2,
			min: math3d.V3(0, 0, 0), max: math3d.V3(1, 1, 0),
		},
		{
			name:  "cylinder",
			mesh:  NewCylinder(math3d.V3(0, 0, 0), 1, 4, 8, gray),
			verts: 2*9 + 2*8, tris: 2*8 + 2*8,
			min: math3d.V3(-1, -2, -1), max: math3d.V3(1, 2, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.mesh
			if m.VertexCount() != tt.verts {
				t.Errorf("VertexCount = %d, want %d", m.VertexCount(), tt.verts)
			}
			if m.TriangleCount() != tt.tris {
				t.Errorf("TriangleCount = %d, want %d", m.TriangleCount(), tt.tris)
			}
			if err := m.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !m.BoundsMin.ApproxEqual(tt.min, 1e-9) || !m.BoundsMax.ApproxEqual(tt.max, 1e-9) {
				t.Errorf("bounds = %v..%v, want %v..%v", m.BoundsMin, m.BoundsMax, tt.min, tt.max)
			}
			if !m.HasNormals || !m.HasColors || !m.HasTexCoords {
				t.Error("primitive missing attributes")
			}
		})
	}
}

func TestBoxNormalsPointOutward(t *testing.T) {
	m := NewBox(math3d.V3(-3, -1, -2), math3d.V3(3, 1, 2), math3d.V3(1, 1, 1))
	c := m.Center()
	for i, v := range m.Vertices {
		if v.Normal.Dot(v.Position.Sub(c)) <= 0 {
			t.Fatalf("vertex %d normal %v points inward at %v", i, v.Normal, v.Position)
		}
	}
}

func TestCylinderMinimumSteps(t *testing.T) {
	m := NewCylinder(math3d.Zero3(), 1, 1, 1, math3d.V3(1, 1, 1))
	if got := m.VertexCount(); got != 2*4+2*3 {
		t.Errorf("VertexCount = %d, want %d", got, 2*4+2*3)
	}
}

func TestQuadNormal(t *testing.T) {
	m := NewQuad(math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(2, 2, 0), math3d.V3(0, 2, 0), math3d.V3(1, 1, 1))
	for i, v := range m.Vertices {
		if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-12) {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}
	if got := m.Vertices[2].UV; got != math3d.V2(1, 1) {
		t.Errorf("UV at p2 = %v, want (1, 1)", got)
	}
}
