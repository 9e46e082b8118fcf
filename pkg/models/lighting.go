package models

import (
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Light is a point or directional light source.
type Light struct {
	Position  math3d.Vec3 // Point lights
	Direction math3d.Vec3 // Directional lights: the direction light travels
	Color     math3d.Vec3 // RGB intensity in 0-1 range
}

// NewPointLight creates a white point light.
func NewPointLight(pos math3d.Vec3) Light {
	return Light{Position: pos, Color: math3d.V3(1, 1, 1)}
}

// Shading holds the Phong parameters shared by every vertex.
type Shading struct {
	Ambient     float64 // Fraction of the color present without any light
	SpecularExp float64 // Phong exponent; 0 disables highlights
}

// DefaultShading returns the shading used when a scene sets none.
func DefaultShading() Shading {
	return Shading{Ambient: 0.2, SpecularExp: 32}
}

// Occluder answers shadow queries. *render.ShadowMap implements it.
type Occluder interface {
	IsOccluded(p math3d.Vec3) bool
}

// LightPoint computes lit colors for a point light. Vertices occ reports
// as occluded keep only the ambient term; occ may be nil.
func (m *Mesh) LightPoint(l Light, eye math3d.Vec3, sh Shading, occ Occluder) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		if occ != nil && occ.IsOccluded(v.Position) {
			v.Lit = v.Color.Scale(sh.Ambient)
			continue
		}
		v.Lit = shade(v.Color, v.Normal, l.Position.Sub(v.Position), eye.Sub(v.Position), l.Color, sh)
	}
	m.HasLit = true
}

// LightDirectional computes lit colors for a directional light.
func (m *Mesh) LightDirectional(l Light, eye math3d.Vec3, sh Shading) {
	toLight := l.Direction.Negate()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Lit = shade(v.Color, v.Normal, toLight, eye.Sub(v.Position), l.Color, sh)
	}
	m.HasLit = true
}

// shade evaluates ambient + diffuse + specular for one vertex.
func shade(color, normal, toLight, toEye, lightColor math3d.Vec3, sh Shading) math3d.Vec3 {
	n := normal.Normalize()
	l := toLight.Normalize()
	ka := sh.Ambient

	diffuse := math.Max(0, n.Dot(l))
	out := color.Scale(ka).Add(color.Mul(lightColor).Scale((1 - ka) * diffuse))

	if sh.SpecularExp > 0 && diffuse > 0 {
		r := l.Negate().Reflect(n)
		if s := r.Dot(toEye.Normalize()); s > 0 {
			out = out.Add(lightColor.Scale(math.Pow(s, sh.SpecularExp)))
		}
	}
	return out
}
