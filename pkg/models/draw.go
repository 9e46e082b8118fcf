package models

import (
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

// RenderMode selects how Draw colors triangles.
type RenderMode int

const (
	ModeColors      RenderMode = iota // Per-vertex colors
	ModeLit                           // Lit colors, falling back to colors
	ModeTextured                      // Texture with its own wrap modes
	ModeMirrorTiled                   // Texture tiled with mirroring
	ModeReflective                    // Environment reflected about normals
)

var modeNames = map[string]RenderMode{
	"colors":   ModeColors,
	"lit":      ModeLit,
	"textured": ModeTextured,
	"mirror":   ModeMirrorTiled,
	"reflect":  ModeReflective,
}

// ParseRenderMode returns the mode named s. ok is false for unknown names.
func ParseRenderMode(s string) (mode RenderMode, ok bool) {
	mode, ok = modeNames[s]
	return mode, ok
}

func (m RenderMode) String() string {
	for name, mode := range modeNames {
		if mode == m {
			return name
		}
	}
	return "unknown"
}

// DrawOptions configures Draw.
type DrawOptions struct {
	Mode    RenderMode
	Texture *render.Texture // ModeTextured and ModeMirrorTiled
	Env     *render.CubeMap // ModeReflective
}

// Draw rasterizes the mesh into fb as seen by cam. Triangles with a vertex
// behind the camera are skipped. Modes whose inputs are missing fall back
// to per-vertex colors.
func (m *Mesh) Draw(cam *render.Camera, fb *render.Framebuffer, opts DrawOptions) {
	if m.culled(cam) {
		return
	}
	proj, visible := m.project(cam)

	mode := opts.Mode
	var tex *render.Texture
	switch mode {
	case ModeTextured, ModeMirrorTiled:
		if opts.Texture == nil || !m.HasTexCoords {
			mode = ModeColors
			break
		}
		tex = opts.Texture
		if mode == ModeMirrorTiled {
			mirrored := *tex
			mirrored.SetWrap(render.WrapMirror)
			tex = &mirrored
		}
	case ModeReflective:
		if opts.Env == nil || !m.HasNormals {
			mode = ModeColors
		}
	case ModeLit:
		if !m.HasLit {
			mode = ModeColors
		}
	}

	for _, f := range m.Faces {
		i0, i1, i2 := f.V[0], f.V[1], f.V[2]
		if !visible[i0] || !visible[i1] || !visible[i2] {
			continue
		}
		v := [3]math3d.Vec3{proj[i0], proj[i1], proj[i2]}
		a, b, c := &m.Vertices[i0], &m.Vertices[i1], &m.Vertices[i2]

		switch mode {
		case ModeTextured, ModeMirrorTiled:
			fb.Draw2DTexturedTriangle(v, [3]math3d.Vec2{a.UV, b.UV, c.UV}, tex)
		case ModeReflective:
			fb.Draw2DReflectiveTriangle(v, [3]math3d.Vec3{a.Normal, b.Normal, c.Normal}, cam, opts.Env)
		case ModeLit:
			fb.Draw2DTriangle(v, [3]math3d.Vec3{a.Lit, b.Lit, c.Lit})
		default:
			fb.Draw2DTriangle(v, [3]math3d.Vec3{a.Color, b.Color, c.Color})
		}
	}
}

// culled reports whether the mesh lies entirely outside cam's view. Stale
// bounds are recomputed for the test without being stored.
func (m *Mesh) culled(cam *render.Camera) bool {
	if len(m.Vertices) == 0 {
		return true
	}
	box := render.NewAABB(m.BoundsMin, m.BoundsMax)
	if !box.ContainsPoint(m.Vertices[0].Position) {
		box = render.BoundsOf(m)
	}
	return !cam.Frustum().IntersectAABB(box)
}

// project projects every vertex once per draw.
func (m *Mesh) project(cam *render.Camera) ([]math3d.Vec3, []bool) {
	proj := make([]math3d.Vec3, len(m.Vertices))
	visible := make([]bool, len(m.Vertices))
	for i, v := range m.Vertices {
		proj[i], visible[i] = cam.Project(v.Position)
	}
	return proj, visible
}

// DrawWireframe draws every triangle edge with interpolated vertex colors,
// or lit colors when lit is set and available.
func (m *Mesh) DrawWireframe(cam *render.Camera, fb *render.Framebuffer, lit bool) {
	color := func(v *MeshVertex) math3d.Vec3 {
		if lit && m.HasLit {
			return v.Lit
		}
		return v.Color
	}
	if m.culled(cam) {
		return
	}
	for _, f := range m.Faces {
		for k := range 3 {
			a, b := &m.Vertices[f.V[k]], &m.Vertices[f.V[(k+1)%3]]
			fb.Draw3DSegment(a.Position, b.Position, color(a), color(b), cam)
		}
	}
}

// DrawPoints draws every vertex as a size×size square.
func (m *Mesh) DrawPoints(cam *render.Camera, fb *render.Framebuffer, size int, color math3d.Vec3) {
	if m.culled(cam) {
		return
	}
	for _, v := range m.Vertices {
		fb.Draw3DPoint(v.Position, cam, size, color)
	}
}

// DrawNormals draws each vertex normal as a red segment of the given
// length.
func (m *Mesh) DrawNormals(cam *render.Camera, fb *render.Framebuffer, length float64) {
	if !m.HasNormals {
		return
	}
	red := math3d.V3(1, 0, 0)
	for _, v := range m.Vertices {
		tip := v.Position.Add(v.Normal.Normalize().Scale(length))
		fb.Draw3DSegment(v.Position, tip, red, red, cam)
	}
}
