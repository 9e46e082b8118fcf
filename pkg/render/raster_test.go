package render

import (
	"math"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
)

var (
	vecRed   = math3d.V3(1, 0, 0)
	vecGreen = math3d.V3(0, 1, 0)
	vecBlue  = math3d.V3(0, 0, 1)
)

func solid(c math3d.Vec3) [3]math3d.Vec3 {
	return [3]math3d.Vec3{c, c, c}
}

func TestTriangleWeights(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	v := [3]math3d.Vec3{
		math3d.V3(5, 3, 1),
		math3d.V3(60, 20, 1),
		math3d.V3(17, 58, 1),
	}

	s, ok := fb.setupTriangle(v)
	if !ok {
		t.Fatal("setupTriangle rejected a valid triangle")
	}

	// Weights are 1 at their own vertex and 0 at the others.
	for i := range v {
		w0, w1, w2 := s.weights(v[i].X, v[i].Y)
		got := [3]float64{w0, w1, w2}
		for j := range got {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(got[j]-want) > 1e-9 {
				t.Errorf("weight %d at vertex %d = %v, want %v", j, i, got[j], want)
			}
		}
	}

	covered := 0
	s.scan(func(u, y int, w0, w1, w2 float64) {
		covered++
		if sum := w0 + w1 + w2; math.Abs(sum-1) > 1e-9 {
			t.Errorf("pixel (%d, %d) weights sum to %v", u, y, sum)
		}
		for _, w := range []float64{w0, w1, w2} {
			if w < -1e-9 {
				t.Errorf("pixel (%d, %d) has negative weight %v", u, y, w)
			}
		}
	})
	if covered == 0 {
		t.Error("scan covered no pixels")
	}
}

func TestTriangleWindingIndependent(t *testing.T) {
	ccw := [3]math3d.Vec3{math3d.V3(2, 2, 1), math3d.V3(30, 4, 1), math3d.V3(10, 28, 1)}
	cw := [3]math3d.Vec3{ccw[0], ccw[2], ccw[1]}

	a := NewFramebuffer(32, 32)
	b := NewFramebuffer(32, 32)
	a.Draw2DTriangle(ccw, solid(vecRed))
	b.Draw2DTriangle(cw, solid(vecRed))

	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			t.Fatalf("pixel %d differs between windings: %v vs %v", i, a.Pixels[i], b.Pixels[i])
		}
	}
}

func TestTriangleRejects(t *testing.T) {
	tests := []struct {
		name string
		v    [3]math3d.Vec3
	}{
		{"degenerate", [3]math3d.Vec3{math3d.V3(1, 1, 1), math3d.V3(5, 5, 1), math3d.V3(9, 9, 1)}},
		{"offscreen", [3]math3d.Vec3{math3d.V3(-50, -50, 1), math3d.V3(-40, -50, 1), math3d.V3(-45, -40, 1)}},
		{"nan", [3]math3d.Vec3{math3d.V3(math.NaN(), 1, 1), math3d.V3(5, 1, 1), math3d.V3(3, 9, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(16, 16)
			fb.Draw2DTriangle(tt.v, solid(vecRed))
			for i, z := range fb.Depth {
				if z != 0 {
					t.Fatalf("pixel %d written", i)
				}
			}
		})
	}
}

func TestTriangleDepthOrder(t *testing.T) {
	near := [3]math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(32, 0, 1), math3d.V3(0, 32, 1)}
	far := [3]math3d.Vec3{math3d.V3(0, 0, 0.5), math3d.V3(32, 0, 0.5), math3d.V3(0, 32, 0.5)}

	tests := []struct {
		name  string
		draws func(fb *Framebuffer)
	}{
		{"near first", func(fb *Framebuffer) {
			fb.Draw2DTriangle(near, solid(vecGreen))
			fb.Draw2DTriangle(far, solid(vecRed))
		}},
		{"far first", func(fb *Framebuffer) {
			fb.Draw2DTriangle(far, solid(vecRed))
			fb.Draw2DTriangle(near, solid(vecGreen))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(32, 32)
			tt.draws(fb)
			if got := fb.Get(5, 5); got != ColorGreen {
				t.Errorf("pixel = %v, want %v", got, ColorGreen)
			}
			if got := fb.DepthAt(5, 5); math.Abs(got-1) > 1e-9 {
				t.Errorf("depth = %v, want 1", got)
			}
		})
	}
}

func TestTriangleEqualDepthOverwrites(t *testing.T) {
	v := [3]math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(16, 0, 1), math3d.V3(0, 16, 1)}
	fb := NewFramebuffer(16, 16)
	fb.Draw2DTriangle(v, solid(vecRed))
	fb.Draw2DTriangle(v, solid(vecBlue))
	if got := fb.Get(2, 2); got != ColorBlue {
		t.Errorf("pixel = %v, want %v", got, ColorBlue)
	}
}

func TestTriangleColorInterpolation(t *testing.T) {
	v := [3]math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(64, 0, 1), math3d.V3(0, 64, 1)}
	fb := NewFramebuffer(64, 64)
	fb.Draw2DTriangle(v, [3]math3d.Vec3{vecRed, vecGreen, vecBlue})

	near := fb.Get(0, 0)
	if near.R < 250 || near.G > 5 || near.B > 5 {
		t.Errorf("pixel next to red vertex = %v", near)
	}
	mid := fb.Get(31, 0)
	if mid.R < 120 || mid.R > 135 || mid.G < 120 || mid.G > 135 {
		t.Errorf("pixel halfway to green vertex = %v", mid)
	}
}

func TestDraw3DTriangle(t *testing.T) {
	cam := NewCamera(90, 200, 200)
	fb := NewFramebuffer(200, 200)

	front := [3]math3d.Vec3{math3d.V3(-50, -50, -100), math3d.V3(50, -50, -100), math3d.V3(0, 50, -100)}
	fb.Draw3DTriangle(front, solid(vecRed), cam)
	if got := fb.Get(100, 100); got != ColorRed {
		t.Errorf("center pixel = %v, want %v", got, ColorRed)
	}
	if got := fb.DepthAt(100, 100); math.Abs(got-1) > 1e-9 {
		t.Errorf("center depth = %v, want 1", got)
	}

	// A vertex behind the eye skips the whole triangle.
	fb.Reset(ColorBlack)
	straddle := [3]math3d.Vec3{math3d.V3(-50, -50, -100), math3d.V3(50, -50, -100), math3d.V3(0, 50, 100)}
	fb.Draw3DTriangle(straddle, solid(vecRed), cam)
	for i, z := range fb.Depth {
		if z != 0 {
			t.Fatalf("pixel %d written by a triangle crossing the eye plane", i)
		}
	}
}

// quad returns two triangles covering the quad p with texture
// coordinates uv, in the order (0, 1, 2) and (0, 2, 3).
func quad(p [4]math3d.Vec3, uv [4]math3d.Vec2) [2]struct {
	p  [3]math3d.Vec3
	uv [3]math3d.Vec2
} {
	return [2]struct {
		p  [3]math3d.Vec3
		uv [3]math3d.Vec2
	}{
		{[3]math3d.Vec3{p[0], p[1], p[2]}, [3]math3d.Vec2{uv[0], uv[1], uv[2]}},
		{[3]math3d.Vec3{p[0], p[2], p[3]}, [3]math3d.Vec2{uv[0], uv[2], uv[3]}},
	}
}

func drawTexturedQuad(t *testing.T, fb *Framebuffer, cam *Camera, p [4]math3d.Vec3, uv [4]math3d.Vec2, tex *Texture) {
	t.Helper()
	for _, tri := range quad(p, uv) {
		v, ok := projectTriangle(cam, tri.p)
		if !ok {
			t.Fatal("quad behind camera")
		}
		fb.Draw2DTexturedTriangle(v, tri.uv, tex)
	}
}

func TestTexturedTriangleFrontal(t *testing.T) {
	cam := NewCamera(90, 200, 200)
	fb := NewFramebuffer(200, 200)

	tex := NewTexture(100, 1)
	for i := range 100 {
		tex.SetPixel(i, 0, RGB(uint8(2*i), 0, 0))
	}

	p := [4]math3d.Vec3{
		math3d.V3(-50, -50, -100),
		math3d.V3(50, -50, -100),
		math3d.V3(50, 50, -100),
		math3d.V3(-50, 50, -100),
	}
	uv := [4]math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1), math3d.V2(0, 1)}
	drawTexturedQuad(t, fb, cam, p, uv, tex)

	for u := 51; u < 149; u++ {
		want := uint8(2 * (u - 50))
		if got := fb.Get(u, 100).R; got != want {
			t.Errorf("pixel (%d, 100).R = %d, want %d", u, got, want)
		}
	}
}

func TestTexturedTrianglePerspective(t *testing.T) {
	cam := NewCamera(90, 200, 200)
	fb := NewFramebuffer(200, 200)

	tex := NewTexture(256, 1)
	for i := range 256 {
		tex.SetPixel(i, 0, RGB(uint8(i), 0, 0))
	}

	// Left edge at depth 100, right edge at depth 300.
	p := [4]math3d.Vec3{
		math3d.V3(-50, -50, -100),
		math3d.V3(50, -50, -300),
		math3d.V3(50, 50, -300),
		math3d.V3(-50, 50, -100),
	}
	uv := [4]math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(1, 1), math3d.V2(0, 1)}
	drawTexturedQuad(t, fb, cam, p, uv, tex)

	// The quad spans u in [50, 116.67) on row 100. Along that row the
	// texture coordinate is s = (100k + 5000) / (10000 - 200k) with
	// k = u - 100 at the pixel center.
	for u := 52; u < 115; u++ {
		k := float64(u) + 0.5 - 100
		s := (100*k + 5000) / (10000 - 200*k)
		want := s * 256
		got := float64(fb.Get(u, 100).R)
		if math.Abs(got-want) > 1.01 {
			t.Errorf("pixel (%d, 100).R = %v, want %.2f", u, got, want)
		}
	}

	// Halfway across the screen the texture is only a quarter through;
	// affine interpolation would give a half.
	if got := fb.Get(83, 100).R; got < 60 || got > 68 {
		t.Errorf("midpoint texel = %d, want about 64", got)
	}
}

func TestReflectiveTriangle(t *testing.T) {
	env := NewCubeMap(8, math3d.Vec3{})
	for i := range faceCount {
		env.Face(i).Clear(RGB(uint8(40*i), 10, 10))
	}

	cam := NewCamera(90, 200, 200)
	fb := NewFramebuffer(200, 200)

	p := [3]math3d.Vec3{math3d.V3(-50, -50, -100), math3d.V3(50, -50, -100), math3d.V3(0, 50, -100)}
	n := [3]math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(0, 0, 1), math3d.V3(0, 0, 1)}
	v, ok := projectTriangle(cam, p)
	if !ok {
		t.Fatal("triangle behind camera")
	}
	fb.Draw2DReflectiveTriangle(v, n, cam, env)

	// A mirror facing the camera reflects what is behind the camera.
	want := env.Face(FacePosZ).Get(0, 0)
	if got := fb.Get(100, 100); got != want {
		t.Errorf("center pixel = %v, want %v", got, want)
	}
}

func TestDraw2DDepthTriangle(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	fb.Clear(ColorWhite)
	fb.Draw2DDepthTriangle([3]math3d.Vec3{math3d.V3(0, 0, 2), math3d.V3(16, 0, 2), math3d.V3(0, 16, 2)})

	if got := fb.DepthAt(2, 2); math.Abs(got-2) > 1e-9 {
		t.Errorf("depth = %v, want 2", got)
	}
	if got := fb.Get(2, 2); got != ColorWhite {
		t.Errorf("color changed to %v", got)
	}
}

func TestFarthestDepthTriangle(t *testing.T) {
	// Depth rises by 0.25 per pixel along x and 0.125 along y.
	v := [3]math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(16, 0, 5), math3d.V3(0, 16, 3)}

	exact := NewFramebuffer(16, 16)
	exact.Draw2DDepthTriangle(v)
	farthest := NewFramebuffer(16, 16)
	farthest.drawFarthestDepthTriangle(v)

	got, want := farthest.DepthAt(4, 4), exact.DepthAt(4, 4)-0.5*(0.25+0.125)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("depth = %v, want %v", got, want)
	}
	// The pixel's corner nearest the triangle's far side.
	if corner := 1 + 0.25*4 + 0.125*4; math.Abs(got-corner) > 1e-9 {
		t.Errorf("depth = %v, want the pixel corner value %v", got, corner)
	}
}

func TestTriangleHugeVertices(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	v := [3]math3d.Vec3{math3d.V3(1e20, -10, 1), math3d.V3(-10, 1e20, 1), math3d.V3(-10, -10, 1)}
	fb.Draw2DTriangle(v, solid(vecRed))

	if got := fb.DepthAt(32, 32); math.Abs(got-1) > 1e-6 {
		t.Errorf("depth = %v, want 1", got)
	}
	if got := fb.Get(63, 63); got != ColorRed {
		t.Errorf("corner pixel = %v, want %v", got, ColorRed)
	}
}

func TestPixelSpan(t *testing.T) {
	tests := []struct {
		name        string
		lo, hi      float64
		first, last int
	}{
		{"inside", 2.5, 7.5, 2, 8},
		{"clamped", -1e20, 1e20, 0, 9},
		{"left of screen", -1e20, -5, 0, -1},
		{"right of screen", 20, 1e20, 10, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := pixelSpan(tt.lo, tt.hi, 10)
			if first != tt.first || last != tt.last {
				t.Errorf("pixelSpan = %d, %d, want %d, %d", first, last, tt.first, tt.last)
			}
		})
	}
}

func TestDraw2DSegment(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	fb.Draw2DSegment(math3d.V3(10, 10, 1), math3d.V3(20, 10, 1), vecRed, vecRed)

	for u := 10; u <= 20; u++ {
		if got := fb.Get(u, 10); got != ColorRed {
			t.Errorf("pixel (%d, 10) = %v, want %v", u, got, ColorRed)
		}
	}
	if got := fb.Get(21, 10); got == ColorRed {
		t.Error("segment overran its end point")
	}

	// Segments running off the framebuffer are clipped per pixel.
	fb.Draw2DSegment(math3d.V3(-10, 5, 1), math3d.V3(40, 5, 1), vecGreen, vecGreen)
	if got := fb.Get(0, 5); got != ColorGreen {
		t.Errorf("pixel (0, 5) = %v, want %v", got, ColorGreen)
	}
}

func TestDraw3DSegmentNearEyePlane(t *testing.T) {
	cam := NewCamera(90, 64, 64)
	fb := NewFramebuffer(64, 64)

	// The second end projects millions of pixels off screen.
	fb.Draw3DSegment(math3d.V3(0, 0, -10), math3d.V3(1, 0, -1e-7), vecRed, vecRed, cam)

	prev := 0.0
	for u := 32; u < 64; u++ {
		z := fb.DepthAt(u, 32)
		if z <= prev {
			t.Fatalf("depth at (%d, 32) = %v, want increasing from %v", u, z, prev)
		}
		prev = z
	}
	if got := fb.DepthAt(31, 32); got != 0 {
		t.Errorf("pixel before the start drawn at depth %v", got)
	}
}

func TestDraw2DSegmentDepth(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	fb.Draw2DSegment(math3d.V3(0, 4, 2), math3d.V3(31, 4, 2), vecRed, vecRed)
	fb.Draw2DSegment(math3d.V3(0, 4, 1), math3d.V3(31, 4, 1), vecBlue, vecBlue)

	if got := fb.Get(15, 4); got != ColorRed {
		t.Errorf("pixel = %v, want nearer %v", got, ColorRed)
	}
}

func TestDraw2DPoint(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	fb.Draw2DPoint(math3d.V3(5.5, 5.5, 1), 3, vecRed)

	for v := range 16 {
		for u := range 16 {
			inside := u >= 4 && u <= 6 && v >= 4 && v <= 6
			if got := fb.Get(u, v) == ColorRed; got != inside {
				t.Errorf("pixel (%d, %d) drawn = %v, want %v", u, v, got, inside)
			}
		}
	}
}

func TestDraw3DPoint(t *testing.T) {
	cam := NewCamera(90, 200, 200)
	fb := NewFramebuffer(200, 200)

	// Lands on the center of pixel (100, 100).
	fb.Draw3DPoint(math3d.V3(0.05, -0.05, -10), cam, 1, vecGreen)
	if got := fb.Get(100, 100); got != ColorGreen {
		t.Errorf("pixel = %v, want %v", got, ColorGreen)
	}

	fb.Reset(ColorBlack)
	fb.Draw3DPoint(math3d.V3(0, 0, 10), cam, 1, vecGreen)
	for i, z := range fb.Depth {
		if z != 0 {
			t.Fatalf("pixel %d written for a point behind the camera", i)
		}
	}
}

func TestVisualizePointLight(t *testing.T) {
	cam := NewCamera(90, 200, 200)
	fb := NewFramebuffer(200, 200)
	fb.VisualizePointLight(math3d.V3(0.5, -0.5, -100), cam, 20, math3d.V3(1, 1, 0))

	if got := fb.Get(100, 100); got != ColorYellow {
		t.Errorf("light center = %v, want %v", got, ColorYellow)
	}
	// The x stroke reaches 20 units either side, 20 pixels at this depth.
	if got := fb.Get(118, 100); got != ColorYellow {
		t.Errorf("x stroke pixel = %v, want %v", got, ColorYellow)
	}
}

func BenchmarkDraw2DTriangle(b *testing.B) {
	fb := NewFramebuffer(320, 240)
	v := [3]math3d.Vec3{math3d.V3(10, 10, 1), math3d.V3(300, 40, 1), math3d.V3(120, 230, 1)}
	c := [3]math3d.Vec3{vecRed, vecGreen, vecBlue}
	for b.Loop() {
		fb.ClearDepth()
		fb.Draw2DTriangle(v, c)
	}
}

func BenchmarkDraw2DTexturedTriangle(b *testing.B) {
	fb := NewFramebuffer(320, 240)
	tex := NewCheckerTexture(64, 64, 8, ColorWhite, ColorBlack)
	v := [3]math3d.Vec3{math3d.V3(10, 10, 1), math3d.V3(300, 40, 0.5), math3d.V3(120, 230, 0.25)}
	uv := [3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(4, 0), math3d.V2(0, 4)}
	for b.Loop() {
		fb.ClearDepth()
		fb.Draw2DTexturedTriangle(v, uv, tex)
	}
}
