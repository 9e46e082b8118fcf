package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Surface displays a framebuffer on a terminal screen. It holds the
// framebuffer by reference; rendering into the framebuffer and displaying
// it stay separate concerns.
type Surface struct {
	fb *Framebuffer
}

var _ uv.Drawable = (*Surface)(nil)

// NewSurface wraps fb for display.
func NewSurface(fb *Framebuffer) *Surface {
	return &Surface{fb: fb}
}

// Framebuffer returns the wrapped framebuffer.
func (s *Surface) Framebuffer() *Framebuffer {
	return s.fb
}

// SetFramebuffer swaps the displayed framebuffer, e.g. after a resize.
func (s *Surface) SetFramebuffer(fb *Framebuffer) {
	s.fb = fb
}

// CellSize returns the framebuffer resolution that maps one-to-one onto a
// terminal of cols×rows cells using half-block characters.
func CellSize(cols, rows int) (w, h int) {
	return cols, rows * 2
}

// Draw implements uv.Drawable. The framebuffer is resampled to the area if
// the sizes differ. Each terminal row shows two framebuffer rows with ▀:
// fg is the top pixel, bg the bottom one.
func (s *Surface) Draw(scr uv.Screen, area uv.Rectangle) {
	if s.fb == nil || area.Dx() <= 0 || area.Dy() <= 0 {
		return
	}
	src := s.fb
	if w, h := CellSize(area.Dx(), area.Dy()); w != src.Width || h != src.Height {
		src = src.Resample(w, h)
	}

	for row := 0; row < area.Dy(); row++ {
		topY := row * 2
		botY := topY + 1

		for col := 0; col < area.Dx(); col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(src.GetSafe(col, topY)),
					Bg: rgbaToColor(src.GetSafe(col, botY)),
				},
			}
			scr.SetCell(area.Min.X+col, area.Min.Y+row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}
