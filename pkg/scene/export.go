package scene

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"runtime"

	"github.com/golang/glog"
	"github.com/taigrr/pinhole/pkg/render"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// ExportOptions controls ExportFrames.
type ExportOptions struct {
	Dir     string // PNG output directory; empty skips the PNGs
	Prefix  string // File name prefix, "frame" when empty
	GIF     string // Animated GIF path; empty skips the GIF
	Delay   int    // GIF frame delay in 100ths of a second
	Workers int    // Parallel encoders, GOMAXPROCS when <= 0
	Smooth  bool   // Ease the path parameter, see NewPlayer
}

// ExportFrames renders frames cameras along path through s and writes them
// as numbered PNGs and/or an animated GIF. Rendering is sequential since the
// scene is shared; encoding fans out over opts.Workers goroutines.
func ExportFrames(ctx context.Context, s *Scene, path *render.CameraPath, frames int, opts ExportOptions) error {
	if opts.Dir == "" && opts.GIF == "" {
		return fmt.Errorf("export: no output requested")
	}
	player, err := NewPlayer(path, frames, opts.Smooth)
	if err != nil {
		return err
	}
	if opts.Prefix == "" {
		opts.Prefix = "frame"
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	paletted := make([]*image.Paletted, frames)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := 0; ; i++ {
		if gctx.Err() != nil {
			break
		}
		cam, ok := player.Next()
		if !ok {
			break
		}
		s.SetCamera(cam)
		s.RenderFrame()
		img := s.Framebuffer.ToImage()
		glog.V(1).Infof("rendered frame %d/%d", i+1, frames)

		g.Go(func() error {
			if opts.Dir != "" {
				name := filepath.Join(opts.Dir, fmt.Sprintf("%s%04d.png", opts.Prefix, i))
				if err := render.SaveImage(name, img); err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
			}
			if opts.GIF != "" {
				paletted[i] = quantize(img)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("export canceled: %w", err)
	}
	glog.Infof("exported %d frames", frames)

	if opts.GIF != "" {
		if err := writeGIF(opts.GIF, paletted, opts.Delay); err != nil {
			return err
		}
		glog.Infof("wrote %s", opts.GIF)
	}
	return nil
}

// quantize dithers img onto the Plan 9 palette.
func quantize(img image.Image) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	xdraw.FloydSteinberg.Draw(p, p.Bounds(), img, image.Point{})
	return p
}

// writeGIF encodes frames as a looping animated GIF.
func writeGIF(path string, frames []*image.Paletted, delay int) error {
	out := &gif.GIF{
		Image: frames,
		Delay: make([]int, len(frames)),
	}
	for i := range out.Delay {
		out.Delay[i] = delay
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	if err := gif.EncodeAll(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}
