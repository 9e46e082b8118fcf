// Package scene ties meshes, a camera, a light and optional shadow and
// environment maps together and renders frames from them.
package scene

import (
	"github.com/golang/glog"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/models"
	"github.com/taigrr/pinhole/pkg/render"
)

// Object is a mesh placed in a scene with the options used to draw it.
type Object struct {
	Mesh       *models.Mesh
	Options    models.DrawOptions
	CastShadow bool
	Wireframe  bool
}

// Scene holds everything needed to render a frame. Fields may be changed
// between frames; nil Light, Shadows and Env disable those stages.
type Scene struct {
	Camera      *render.Camera
	Framebuffer *render.Framebuffer
	Objects     []*Object
	Light       *models.Light
	Shadows     *render.ShadowMap
	Env         *render.CubeMap
	Background  render.Color
	Shading     models.Shading
	ShowLight   bool // Draw a marker at a point light
}

// New creates an empty scene rendering through cam into a framebuffer of
// the camera's size.
func New(cam *render.Camera) *Scene {
	return &Scene{
		Camera:      cam,
		Framebuffer: render.NewFramebuffer(cam.Width(), cam.Height()),
		Background:  render.RGB(30, 30, 40),
		Shading:     models.DefaultShading(),
	}
}

// Add appends an object.
func (s *Scene) Add(obj *Object) {
	s.Objects = append(s.Objects, obj)
}

// SetCamera switches the camera, replacing the framebuffer when the image
// size changes.
func (s *Scene) SetCamera(cam *render.Camera) {
	s.Camera = cam
	if fb := s.Framebuffer; fb == nil || fb.Width != cam.Width() || fb.Height != cam.Height() {
		s.Framebuffer = render.NewFramebuffer(cam.Width(), cam.Height())
	}
}

// Center returns the middle of the combined bounds of all objects, or the
// origin for an empty scene.
func (s *Scene) Center() math3d.Vec3 {
	if len(s.Objects) == 0 {
		return math3d.Zero3()
	}
	lo, hi := s.Objects[0].Mesh.BoundsMin, s.Objects[0].Mesh.BoundsMax
	for _, obj := range s.Objects[1:] {
		lo = lo.Min(obj.Mesh.BoundsMin)
		hi = hi.Max(obj.Mesh.BoundsMax)
	}
	return lo.Add(hi).Scale(0.5)
}

// directional reports whether the light is directional rather than a point
// light.
func (s *Scene) directional() bool {
	return s.Light.Direction != math3d.Zero3()
}

// RenderFrame renders the scene into the framebuffer: shadow casters are
// accumulated, every object is lit, the objects are rasterized and the
// environment fills whatever they leave uncovered.
func (s *Scene) RenderFrame() {
	var occ models.Occluder
	if s.Light != nil && s.Shadows != nil && !s.directional() {
		s.Shadows.SetPosition(s.Light.Position)
		s.Shadows.Clear()
		for _, obj := range s.Objects {
			if obj.CastShadow {
				s.Shadows.AccumulateSurfaces(obj.Mesh)
			}
		}
		occ = s.Shadows
	}

	if s.Light != nil {
		eye := s.Camera.Position()
		for _, obj := range s.Objects {
			if s.directional() {
				obj.Mesh.LightDirectional(*s.Light, eye, s.Shading)
			} else {
				obj.Mesh.LightPoint(*s.Light, eye, s.Shading, occ)
			}
		}
	}

	fb := s.Framebuffer
	fb.Reset(s.Background)
	for _, obj := range s.Objects {
		if obj.Wireframe {
			obj.Mesh.DrawWireframe(s.Camera, fb, s.Light != nil)
			continue
		}
		obj.Mesh.Draw(s.Camera, fb, obj.Options)
	}

	if s.Env != nil {
		s.Env.RenderEnvironment(s.Camera, fb)
	}
	if s.ShowLight && s.Light != nil && !s.directional() {
		fb.VisualizePointLight(s.Light.Position, s.Camera, 5, s.Light.Color)
	}
	glog.V(1).Infof("rendered %d objects at %v", len(s.Objects), s.Camera.Position())
}
