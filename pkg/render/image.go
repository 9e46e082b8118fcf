package render

import (
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// LoadImage decodes a PNG, JPEG, GIF, TIFF or BMP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// FramebufferFromImage copies an image into a new framebuffer with a
// cleared depth buffer.
func FramebufferFromImage(img image.Image) *Framebuffer {
	bounds := img.Bounds()
	fb := NewFramebuffer(bounds.Dx(), bounds.Dy())
	for y := range fb.Height {
		for x := range fb.Width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			fb.Set(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return fb
}

// LoadFramebuffer decodes an image file into a framebuffer.
func LoadFramebuffer(path string) (*Framebuffer, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return FramebufferFromImage(img), nil
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// Resample returns a copy of the color buffer scaled to w×h with bilinear
// filtering. The copy has a cleared depth buffer.
func (fb *Framebuffer) Resample(w, h int) *Framebuffer {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), fb.ToImage(), image.Rect(0, 0, fb.Width, fb.Height), xdraw.Src, nil)
	return FramebufferFromImage(dst)
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return fb.Save(path)
}

// Save encodes the framebuffer to path, choosing PNG, JPEG, TIFF or BMP
// from the file extension. Unknown extensions are written as PNG.
func (fb *Framebuffer) Save(path string) error {
	return SaveImage(path, fb.ToImage())
}

// SaveImage encodes img to path the way Save does.
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
