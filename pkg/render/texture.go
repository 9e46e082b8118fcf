package render

import (
	"image"
	"math"
)

// WrapMode determines how texture coordinates outside [0,1) are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapMirror                 // Tile, reflecting every other tile
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a 2D image for texture mapping. Texture coordinate v = 0 is
// the bottom row of the image.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color    // Row-major pixel data, row 0 at the top
	WrapU      WrapMode   // Horizontal wrap mode
	WrapV      WrapMode   // Vertical wrap mode
	FilterMode FilterMode // Sampling filter mode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		Pixels:     make([]Color, width*height),
		WrapU:      WrapRepeat,
		WrapV:      WrapRepeat,
		FilterMode: FilterNearest,
	}
}

// LoadTexture loads a texture from an image file.
func LoadTexture(path string) (*Texture, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	return TextureFromFramebuffer(FramebufferFromImage(img))
}

// TextureFromFramebuffer creates a texture that shares the color buffer of
// fb. Later draws into fb show up in the texture.
func TextureFromFramebuffer(fb *Framebuffer) *Texture {
	tex := NewTexture(fb.Width, fb.Height)
	tex.Pixels = fb.Pixels
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			cx := x / checkSize
			cy := y / checkSize
			if (cx+cy)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetWrap sets both wrap modes.
func (t *Texture) SetWrap(mode WrapMode) {
	t.WrapU = mode
	t.WrapV = mode
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at texture coordinates (u, v).
func (t *Texture) Sample(u, v float64) Color {
	u = wrapCoord(u, t.WrapU)
	v = wrapCoord(v, t.WrapV)

	// Flip V coordinate (image Y=0 at top, UV V=0 at bottom)
	v = 1.0 - v

	switch t.FilterMode {
	case FilterBilinear:
		return t.sampleBilinear(u, v)
	default:
		return t.sampleNearest(u, v)
	}
}

// wrapCoord reduces a texture coordinate to [0,1).
func wrapCoord(coord float64, mode WrapMode) float64 {
	switch mode {
	case WrapRepeat:
		coord -= math.Floor(coord)
	case WrapMirror:
		tile := math.Floor(coord)
		coord -= tile
		if int64(tile)%2 != 0 {
			coord = 1 - coord
		}
	case WrapClamp:
		coord = math.Max(0, math.Min(1, coord))
	}
	return coord
}

// sampleNearest returns the nearest pixel.
func (t *Texture) sampleNearest(u, v float64) Color {
	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))

	// Clamp to valid range
	x = max(0, min(t.Width-1, x))
	y = max(0, min(t.Height-1, y))

	return t.Pixels[y*t.Width+x]
}

// sampleBilinear returns bilinearly interpolated color.
func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))

	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapPixel(x0+1, t.Width, t.WrapU)
	y1 := wrapPixel(y0+1, t.Height, t.WrapV)
	x0 = wrapPixel(x0, t.Width, t.WrapU)
	y0 = wrapPixel(y0, t.Height, t.WrapV)

	top := lerpColor(t.GetPixel(x0, y0), t.GetPixel(x1, y0), tx)
	bot := lerpColor(t.GetPixel(x0, y1), t.GetPixel(x1, y1), tx)
	return lerpColor(top, bot, ty)
}

// wrapPixel wraps an integer pixel coordinate into [0, size).
func wrapPixel(x, size int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		x %= size
		if x < 0 {
			x += size
		}
	case WrapMirror:
		period := 2 * size
		x %= period
		if x < 0 {
			x += period
		}
		if x >= size {
			x = period - 1 - x
		}
	case WrapClamp:
		x = max(0, min(size-1, x))
	}
	return x
}
