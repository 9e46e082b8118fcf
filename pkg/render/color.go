package render

import (
	"image/color"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
	ColorSky     = color.RGBA{135, 206, 235, 255}
)

// ColorCubeMiss is returned by a cube map lookup that hits no face. Seeing
// it in an image means the face cameras do not cover the sphere.
var ColorCubeMiss = UnpackColor(0xFF0000FF)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// ColorFromVec converts a [0,1] RGB vector to an opaque color. Channels are
// clamped to [0,1] first and rounded to the nearest level.
func ColorFromVec(v math3d.Vec3) Color {
	v = v.Clamp(0, 1)
	return Color{
		R: uint8(v.X*255 + 0.5),
		G: uint8(v.Y*255 + 0.5),
		B: uint8(v.Z*255 + 0.5),
		A: 255,
	}
}

// VecFromColor converts a color to a [0,1] RGB vector.
func VecFromColor(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// PackColor packs a [0,1] RGB vector as 0xAABBGGRR with full alpha.
func PackColor(v math3d.Vec3) uint32 {
	c := ColorFromVec(v)
	return 0xFF000000 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
}

// UnpackColor is the inverse of PackColor.
func UnpackColor(p uint32) Color {
	return Color{
		R: uint8(p),
		G: uint8(p >> 8),
		B: uint8(p >> 16),
		A: uint8(p >> 24),
	}
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}
