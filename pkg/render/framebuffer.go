// Package render implements the software rasterization pipeline: the
// pinhole camera, the framebuffer with its inverse-depth buffer, textures,
// cube maps and shadow maps.
package render

import (
	"image/color"
	"math"
)

// Framebuffer is a color buffer with a parallel depth buffer.
//
// Depth holds inverse camera depth (1/z), so larger values are nearer and
// a cleared buffer (all zero) is infinitely far away. Row 0 is the top of
// the image, matching the camera's downward b vector.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major pixel data
	Depth  []float64    // Row-major inverse depth
}

// NewFramebuffer creates a framebuffer with the given dimensions. The depth
// buffer starts cleared.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
}

// Clear fills the color buffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// ClearDepth resets every depth value to 0 (nothing drawn).
func (fb *Framebuffer) ClearDepth() {
	clear(fb.Depth)
}

// Reset clears both buffers.
func (fb *Framebuffer) Reset(c color.RGBA) {
	fb.Clear(c)
	fb.ClearDepth()
}

// InBounds reports whether (u, v) addresses a pixel.
func (fb *Framebuffer) InBounds(u, v int) bool {
	return u >= 0 && u < fb.Width && v >= 0 && v < fb.Height
}

// Set writes a pixel. The caller guarantees (u, v) is in bounds.
func (fb *Framebuffer) Set(u, v int, c color.RGBA) {
	fb.Pixels[v*fb.Width+u] = c
}

// SetSafe writes a pixel, ignoring out-of-bounds coordinates.
func (fb *Framebuffer) SetSafe(u, v int, c color.RGBA) {
	if !fb.InBounds(u, v) {
		return
	}
	fb.Pixels[v*fb.Width+u] = c
}

// Get returns the color at (u, v). The caller guarantees bounds.
func (fb *Framebuffer) Get(u, v int) color.RGBA {
	return fb.Pixels[v*fb.Width+u]
}

// GetSafe returns the color at (u, v), or transparent black out of bounds.
func (fb *Framebuffer) GetSafe(u, v int) color.RGBA {
	if !fb.InBounds(u, v) {
		return color.RGBA{}
	}
	return fb.Pixels[v*fb.Width+u]
}

// Lookup returns the pixel nearest to normalized coordinates (tu, tv) in
// [0,1], with tv = 0 at the bottom row.
func (fb *Framebuffer) Lookup(tu, tv float64) color.RGBA {
	u := int(tu * float64(fb.Width))
	v := fb.Height - 1 - int(tv*float64(fb.Height))
	u = max(0, min(fb.Width-1, u))
	v = max(0, min(fb.Height-1, v))
	return fb.Pixels[v*fb.Width+u]
}

// DepthAt returns the stored inverse depth at (u, v), or 0 out of bounds.
func (fb *Framebuffer) DepthAt(u, v int) float64 {
	if !fb.InBounds(u, v) {
		return 0
	}
	return fb.Depth[v*fb.Width+u]
}

// SetDepth overwrites the depth at (u, v) without testing it.
func (fb *Framebuffer) SetDepth(u, v int, z float64) {
	if !fb.InBounds(u, v) {
		return
	}
	fb.Depth[v*fb.Width+u] = z
}

// IsFarther reports whether inverse depth z lies behind what is stored at
// (u, v). The caller guarantees bounds.
func (fb *Framebuffer) IsFarther(u, v int, z float64) bool {
	return z < fb.Depth[v*fb.Width+u]
}

// SetWithDepth writes color and depth unless z is farther than the stored
// depth. It reports whether the pixel was written. The caller guarantees
// bounds.
func (fb *Framebuffer) SetWithDepth(u, v int, z float64, c color.RGBA) bool {
	idx := v*fb.Width + u
	if z < fb.Depth[idx] {
		return false
	}
	fb.Depth[idx] = z
	fb.Pixels[idx] = c
	return true
}

// SetWithDepthSafe is SetWithDepth with bounds checking.
func (fb *Framebuffer) SetWithDepthSafe(u, v int, z float64, c color.RGBA) bool {
	if !fb.InBounds(u, v) {
		return false
	}
	return fb.SetWithDepth(u, v, z, c)
}

// testAndSetDepth keeps the larger of z and the stored depth. It is the
// depth-only variant of SetWithDepth used for shadow faces.
func (fb *Framebuffer) testAndSetDepth(u, v int, z float64) bool {
	idx := v*fb.Width + u
	if z < fb.Depth[idx] {
		return false
	}
	fb.Depth[idx] = z
	return true
}

// SetChecker fills the color buffer with a checkerboard of size×size cells.
func (fb *Framebuffer) SetChecker(size int, c0, c1 color.RGBA) {
	if size <= 0 {
		return
	}
	for v := range fb.Height {
		for u := range fb.Width {
			if (u/size+v/size)%2 == 0 {
				fb.Set(u, v, c0)
			} else {
				fb.Set(u, v, c1)
			}
		}
	}
}

// DrawLine draws a line from (x0, y0) to (x1, y1) with DDA stepping. The
// line is clipped to the framebuffer first.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 float64, c color.RGBA) {
	t0, t1, ok := clipSegment(x0, y0, x1, y1, float64(fb.Width), float64(fb.Height))
	if !ok {
		return
	}
	if t0 > 0 || t1 < 1 {
		x0, y0, x1, y1 = x0+(x1-x0)*t0, y0+(y1-y0)*t0, x0+(x1-x0)*t1, y0+(y1-y0)*t1
	}
	dx, dy := x1-x0, y1-y0
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		fb.SetSafe(int(x0), int(y0), c)
		return
	}
	sx, sy := dx/float64(steps), dy/float64(steps)
	x, y := x0, y0
	for range steps + 1 {
		fb.SetSafe(int(math.Floor(x)), int(math.Floor(y)), c)
		x += sx
		y += sy
	}
}

// clipSegment returns the parameter range [t0, t1] of the segment from
// (x0, y0) to (x1, y1) that lies inside [0, w]×[0, h] (Liang-Barsky). ok is
// false when no part of it does or a coordinate is not finite.
func clipSegment(x0, y0, x1, y1, w, h float64) (t0, t1 float64, ok bool) {
	for _, f := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, 0, false
		}
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 = 0, 1
	for _, b := range [4]struct{ p, q float64 }{
		{-dx, x0}, {dx, w - x0},
		{-dy, y0}, {dy, h - y0},
	} {
		if b.p == 0 {
			if b.q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := b.q / b.p
		if b.p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	for py := max(0, y); py < min(fb.Height, y+h); py++ {
		for px := max(0, x); px < min(fb.Width, x+w); px++ {
			fb.Set(px, py, c)
		}
	}
}

// DrawRectOutline draws a rectangle outline.
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c color.RGBA) {
	// Top and bottom
	for px := x; px < x+w; px++ {
		fb.SetSafe(px, y, c)
		fb.SetSafe(px, y+h-1, c)
	}
	// Left and right
	for py := y; py < y+h; py++ {
		fb.SetSafe(x, py, c)
		fb.SetSafe(x+w-1, py, c)
	}
}

// DrawCircle draws a filled circle of radius r centered on (cx, cy).
func (fb *Framebuffer) DrawCircle(cx, cy, r float64, c color.RGBA) {
	minX := max(0, int(math.Floor(cx-r)))
	maxX := min(fb.Width-1, int(math.Ceil(cx+r)))
	minY := max(0, int(math.Floor(cy-r)))
	maxY := min(fb.Height-1, int(math.Ceil(cy+r)))
	r2 := r * r
	for v := minY; v <= maxY; v++ {
		for u := minX; u <= maxX; u++ {
			dx := float64(u) + 0.5 - cx
			dy := float64(v) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				fb.Set(u, v, c)
			}
		}
	}
}
