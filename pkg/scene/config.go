package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/models"
	"github.com/taigrr/pinhole/pkg/render"
)

// ErrConfig is wrapped by every validation error from Config.Validate.
var ErrConfig = errors.New("scene: invalid config")

// Config defaults.
const (
	DefaultWidth      = 640
	DefaultHeight     = 480
	DefaultHFOV       = 60
	DefaultShadowSize = 512
)

// Vec is a JSON triple.
type Vec [3]float64

// V3 converts v to a vector.
func (v Vec) V3() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

// CameraCfg poses the scene camera.
type CameraCfg struct {
	Position Vec  `json:"position"`
	LookAt   Vec  `json:"lookAt"`
	Up       *Vec `json:"up,omitempty"` // defaults to +Y
}

// LightCfg is a point light, or a directional one when Direction is set.
type LightCfg struct {
	Position   Vec  `json:"position"`
	Direction  Vec  `json:"direction"`
	Color      *Vec `json:"color,omitempty"` // defaults to white
	Shadows    bool `json:"shadows,omitempty"`
	ShadowSize int  `json:"shadowSize,omitempty"`
	Show       bool `json:"show,omitempty"`
}

// ShadingCfg overrides models.DefaultShading.
type ShadingCfg struct {
	Ambient     float64 `json:"ambient"`
	SpecularExp float64 `json:"specularExp"`
}

// RotateCfg rotates an object about its center.
type RotateCfg struct {
	Axis Vec     `json:"axis"`
	Deg  float64 `json:"deg"`
}

// ObjectCfg describes one object: a primitive or a mesh file.
//
// Types: "box" (Min, Max), "plane" (Center, Size), "quad" (Corners),
// "cylinder" (Center, Radius, Height, Steps) and "mesh" (Path, .bin, .glb
// or .gltf).
type ObjectCfg struct {
	Type    string  `json:"type"`
	Path    string  `json:"path,omitempty"`
	Min     Vec     `json:"min"`
	Max     Vec     `json:"max"`
	Center  Vec     `json:"center"`
	Size    float64 `json:"size,omitempty"`
	Corners []Vec   `json:"corners,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Steps   int     `json:"steps,omitempty"`
	Color   *Vec    `json:"color,omitempty"`

	Scale     float64    `json:"scale,omitempty"`
	Translate Vec        `json:"translate"`
	Rotate    *RotateCfg `json:"rotate,omitempty"`

	Mode       string `json:"mode,omitempty"`    // models.ParseRenderMode names
	Texture    string `json:"texture,omitempty"` // image file
	CastShadow *bool  `json:"castShadow,omitempty"`
	Wireframe  bool   `json:"wireframe,omitempty"`
}

// Config is a JSON scene description.
type Config struct {
	Width       int         `json:"width,omitempty"`
	Height      int         `json:"height,omitempty"`
	HFOV        float64     `json:"hfov,omitempty"`
	Camera      CameraCfg   `json:"camera"`
	Light       *LightCfg   `json:"light,omitempty"`
	Shading     *ShadingCfg `json:"shading,omitempty"`
	Environment string      `json:"environment,omitempty"` // cube cross image
	Background  *[3]uint8   `json:"background,omitempty"`
	Objects     []ObjectCfg `json:"objects"`

	// dir resolves relative asset paths; it is the config file's directory.
	dir string
}

// LoadConfig reads, defaults and validates a JSON scene file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseConfig decodes, defaults and validates a JSON scene. Relative asset
// paths resolve against the working directory.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.HFOV == 0 {
		c.HFOV = DefaultHFOV
	}
	if c.Camera.Up == nil {
		c.Camera.Up = &Vec{0, 1, 0}
	}
	if c.Light != nil && c.Light.ShadowSize <= 0 {
		c.Light.ShadowSize = DefaultShadowSize
	}
}

// Validate reports the first problem that would stop Build.
func (c *Config) Validate() error {
	if c.HFOV <= 0 || c.HFOV >= 180 {
		return fmt.Errorf("hfov %v outside (0, 180): %w", c.HFOV, ErrConfig)
	}
	if c.Camera.Position == c.Camera.LookAt {
		return fmt.Errorf("camera looks at its own position: %w", ErrConfig)
	}
	for i, o := range c.Objects {
		if err := o.validate(); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	return nil
}

func (o *ObjectCfg) validate() error {
	switch o.Type {
	case "box", "plane", "cylinder":
	case "quad":
		if len(o.Corners) != 4 {
			return fmt.Errorf("quad needs 4 corners, got %d: %w", len(o.Corners), ErrConfig)
		}
	case "mesh":
		switch strings.ToLower(filepath.Ext(o.Path)) {
		case ".bin", ".glb", ".gltf":
		default:
			return fmt.Errorf("unsupported mesh file %q: %w", o.Path, ErrConfig)
		}
	default:
		return fmt.Errorf("unknown object type %q: %w", o.Type, ErrConfig)
	}
	if o.Mode != "" {
		if _, ok := models.ParseRenderMode(o.Mode); !ok {
			return fmt.Errorf("unknown render mode %q: %w", o.Mode, ErrConfig)
		}
	}
	if o.Scale < 0 {
		return fmt.Errorf("negative scale %v: %w", o.Scale, ErrConfig)
	}
	return nil
}

// resolve makes a relative asset path relative to the config file.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// Build creates the scene. Mesh, texture and environment files that fail
// to load are logged and left out.
func (c *Config) Build() (*Scene, error) {
	cam := render.NewCamera(c.HFOV, c.Width, c.Height)
	if err := cam.Pose(c.Camera.Position.V3(), c.Camera.LookAt.V3(), c.Camera.Up.V3()); err != nil {
		return nil, fmt.Errorf("pose camera: %w", err)
	}

	s := New(cam)
	if c.Background != nil {
		s.Background = render.RGB(c.Background[0], c.Background[1], c.Background[2])
	}
	if c.Shading != nil {
		s.Shading = models.Shading{Ambient: c.Shading.Ambient, SpecularExp: c.Shading.SpecularExp}
	}

	if l := c.Light; l != nil {
		light := models.NewPointLight(l.Position.V3())
		light.Direction = l.Direction.V3()
		if l.Color != nil {
			light.Color = l.Color.V3()
		}
		s.Light = &light
		s.ShowLight = l.Show
		if l.Shadows {
			s.Shadows = render.NewShadowMap(l.ShadowSize, light.Position)
		}
	}

	if c.Environment != "" {
		env, err := render.LoadCubeMap(c.resolve(c.Environment))
		if err != nil {
			glog.Warningf("skipping environment: %v", err)
		} else {
			s.Env = env
		}
	}

	for i := range c.Objects {
		obj, err := c.buildObject(&c.Objects[i], s.Env)
		if err != nil {
			glog.Errorf("skipping object %d: %v", i, err)
			continue
		}
		s.Add(obj)
	}
	glog.Infof("built scene with %d objects", len(s.Objects))
	return s, nil
}

func (c *Config) buildObject(o *ObjectCfg, env *render.CubeMap) (*Object, error) {
	color := math3d.V3(1, 1, 1)
	if o.Color != nil {
		color = o.Color.V3()
	}

	var (
		mesh     *models.Mesh
		embedded *render.Texture
		err      error
	)
	switch o.Type {
	case "box":
		mesh = models.NewBox(o.Min.V3(), o.Max.V3(), color)
	case "plane":
		mesh = models.NewPlane(o.Center.V3(), o.Size, color)
	case "quad":
		mesh = models.NewQuad(o.Corners[0].V3(), o.Corners[1].V3(), o.Corners[2].V3(), o.Corners[3].V3(), color)
	case "cylinder":
		mesh = models.NewCylinder(o.Center.V3(), o.Radius, o.Height, o.Steps, color)
	case "mesh":
		mesh, embedded, err = loadMesh(c.resolve(o.Path))
		if err != nil {
			return nil, err
		}
		if o.Color != nil {
			mesh.SetColor(color)
		}
	}

	if o.Scale > 0 {
		mesh.Scale(o.Scale)
	}
	if o.Rotate != nil {
		mesh.RotateAbout(mesh.Center(), o.Rotate.Axis.V3(), o.Rotate.Deg)
	}
	mesh.Translate(o.Translate.V3())
	mesh.CalculateBounds()

	obj := &Object{
		Mesh:       mesh,
		CastShadow: o.CastShadow == nil || *o.CastShadow,
		Wireframe:  o.Wireframe,
	}
	obj.Options.Mode = models.ModeLit
	if o.Mode != "" {
		obj.Options.Mode, _ = models.ParseRenderMode(o.Mode)
	}
	obj.Options.Env = env
	obj.Options.Texture = embedded
	if o.Texture != "" {
		tex, err := render.LoadTexture(c.resolve(o.Texture))
		if err != nil {
			glog.Warningf("object %s: %v", mesh.Name, err)
		} else {
			obj.Options.Texture = tex
		}
	}
	return obj, nil
}

// loadMesh loads a mesh file by extension. glTF files may also carry a
// texture.
func loadMesh(path string) (*models.Mesh, *render.Texture, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		mesh, img, err := models.LoadGLBWithTexture(path)
		if err != nil {
			return nil, nil, err
		}
		if img == nil {
			return mesh, nil, nil
		}
		return mesh, render.TextureFromImage(img), nil
	default:
		mesh, err := models.LoadBin(path)
		return mesh, nil, err
	}
}

// LoadMesh loads a .bin, .glb or .gltf mesh file.
func LoadMesh(path string) (*models.Mesh, error) {
	mesh, _, err := loadMesh(path)
	return mesh, err
}
