package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/models"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"camera": {"position": [0, 0, 10], "lookAt": [0, 0, 0]}}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	want := &Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		HFOV:   DefaultHFOV,
		Camera: CameraCfg{Position: Vec{0, 0, 10}, Up: &Vec{0, 1, 0}},
	}
	if diff := cmp.Diff(want, cfg, cmp.AllowUnexported(Config{})); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigLightDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"camera": {"position": [0, 0, 10], "lookAt": [0, 0, 0]},
		"light": {"position": [0, 10, 0], "shadows": true}
	}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Light.ShadowSize != DefaultShadowSize {
		t.Errorf("ShadowSize = %d, want %d", cfg.Light.ShadowSize, DefaultShadowSize)
	}
}

func TestParseConfigErrors(t *testing.T) {
	const cam = `"camera": {"position": [0, 0, 10], "lookAt": [0, 0, 0]}`
	tests := []struct {
		name      string
		json      string
		errConfig bool
	}{
		{"bad json", `{"camera": `, false},
		{"hfov", `{"hfov": 180, ` + cam + `}`, true},
		{"camera", `{"camera": {"position": [1, 1, 1], "lookAt": [1, 1, 1]}}`, true},
		{"object type", `{` + cam + `, "objects": [{"type": "sphere"}]}`, true},
		{"quad corners", `{` + cam + `, "objects": [{"type": "quad", "corners": [[0,0,0],[1,0,0],[1,1,0]]}]}`, true},
		{"mesh format", `{` + cam + `, "objects": [{"type": "mesh", "path": "teapot.obj"}]}`, true},
		{"mode", `{` + cam + `, "objects": [{"type": "box", "mode": "toon"}]}`, true},
		{"scale", `{` + cam + `, "objects": [{"type": "box", "scale": -2}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.json))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrConfig); got != tt.errConfig {
				t.Errorf("errors.Is(err, ErrConfig) = %v, want %v (err %v)", got, tt.errConfig, err)
			}
		})
	}
}

func TestConfigBuild(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"width": 80, "height": 60, "hfov": 90,
		"camera": {"position": [0, 20, 40], "lookAt": [0, 0, 0]},
		"light": {"position": [0, 30, 0], "color": [1, 0.5, 0.5], "shadows": true, "shadowSize": 64},
		"shading": {"ambient": 0.3, "specularExp": 8},
		"background": [10, 20, 30],
		"objects": [
			{"type": "plane", "center": [0, 0, 0], "size": 40, "castShadow": false},
			{"type": "box", "min": [-5, 0, -5], "max": [5, 10, 5], "color": [1, 0, 0], "translate": [0, 1, 0]},
			{"type": "cylinder", "center": [10, 5, 0], "radius": 2, "height": 10, "steps": 8, "mode": "colors"},
			{"type": "quad", "corners": [[0,0,0],[1,0,0],[1,1,0],[0,1,0]], "wireframe": true, "rotate": {"axis": [0, 1, 0], "deg": 90}}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	s, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if s.Camera.Width() != 80 || s.Camera.Height() != 60 {
		t.Errorf("camera = %dx%d, want 80x60", s.Camera.Width(), s.Camera.Height())
	}
	if s.Camera.Position() != math3d.V3(0, 20, 40) {
		t.Errorf("camera at %v", s.Camera.Position())
	}
	if s.Light == nil || s.Light.Color != math3d.V3(1, 0.5, 0.5) {
		t.Fatalf("Light = %+v", s.Light)
	}
	if s.Shadows == nil || s.Shadows.Cube().Size() != 64 {
		t.Error("shadow map missing or wrong size")
	}
	if s.Shading != (models.Shading{Ambient: 0.3, SpecularExp: 8}) {
		t.Errorf("Shading = %+v", s.Shading)
	}
	if s.Background.R != 10 || s.Background.G != 20 || s.Background.B != 30 {
		t.Errorf("Background = %v", s.Background)
	}
	if len(s.Objects) != 4 {
		t.Fatalf("built %d objects, want 4", len(s.Objects))
	}

	plane, box, cyl, quad := s.Objects[0], s.Objects[1], s.Objects[2], s.Objects[3]
	if plane.CastShadow || !box.CastShadow {
		t.Errorf("CastShadow = %v, %v, want false, true", plane.CastShadow, box.CastShadow)
	}
	if box.Options.Mode != models.ModeLit || cyl.Options.Mode != models.ModeColors {
		t.Errorf("modes = %v, %v, want lit, colors", box.Options.Mode, cyl.Options.Mode)
	}
	if box.Mesh.BoundsMin != math3d.V3(-5, 1, -5) {
		t.Errorf("translated box BoundsMin = %v", box.Mesh.BoundsMin)
	}
	if box.Mesh.Vertices[0].Color != math3d.V3(1, 0, 0) {
		t.Errorf("box color = %v", box.Mesh.Vertices[0].Color)
	}
	if !quad.Wireframe {
		t.Error("quad not wireframe")
	}
	if n := quad.Mesh.Vertices[0].Normal; !n.ApproxEqual(math3d.V3(1, 0, 0), 1e-9) {
		t.Errorf("rotated quad normal = %v, want +X", n)
	}

	s.RenderFrame()
}

func TestLoadConfigAssets(t *testing.T) {
	dir := t.TempDir()
	quad := models.NewQuad(
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0),
		math3d.V3(0, 0, 1),
	)
	if err := quad.SaveBin(filepath.Join(dir, "quad.bin")); err != nil {
		t.Fatalf("SaveBin: %v", err)
	}

	path := filepath.Join(dir, "scene.json")
	data := `{
		"camera": {"position": [0, 0, 5], "lookAt": [0, 0, 0]},
		"environment": "missing-cross.png",
		"objects": [
			{"type": "mesh", "path": "quad.bin", "scale": 2, "texture": "missing.png", "mode": "textured"},
			{"type": "mesh", "path": "missing.bin"},
			{"type": "mesh", "path": "missing.glb"}
		]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	s, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if s.Env != nil {
		t.Error("Env set from a missing file")
	}
	if len(s.Objects) != 1 {
		t.Fatalf("built %d objects, want 1 (missing meshes skipped)", len(s.Objects))
	}
	obj := s.Objects[0]
	if obj.Mesh.Name != "quad.bin" {
		t.Errorf("Name = %q", obj.Mesh.Name)
	}
	if obj.Options.Texture != nil {
		t.Error("texture set from a missing file")
	}
	if got := obj.Mesh.Size(); !got.ApproxEqual(math3d.V3(2, 2, 0), 1e-6) {
		t.Errorf("scaled Size = %v, want (2, 2, 0)", got)
	}

	// Falls back to per-vertex colors without a texture.
	s.RenderFrame()
	if got := s.Framebuffer.Get(320, 240); got.B != 255 || got.R != 0 {
		t.Errorf("center = %v, want blue", got)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error")
	}
}

func TestLoadMesh(t *testing.T) {
	dir := t.TempDir()
	box := models.NewBox(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1), math3d.V3(1, 1, 1))
	path := filepath.Join(dir, "box.bin")
	if err := box.SaveBin(path); err != nil {
		t.Fatalf("SaveBin: %v", err)
	}

	m, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if m.TriangleCount() != box.TriangleCount() {
		t.Errorf("TriangleCount = %d, want %d", m.TriangleCount(), box.TriangleCount())
	}
}
