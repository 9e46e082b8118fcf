package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// CameraPath is an ordered list of key cameras used for path animation.
//
// On disk a path is whitespace separated text: the camera count followed by
// "a b c C w h" for every camera, each vector written as three floats.
type CameraPath struct {
	Cameras []*Camera
}

// Append adds an independent copy of cam to the end of the path.
func (p *CameraPath) Append(cam *Camera) {
	p.Cameras = append(p.Cameras, cam.Clone())
}

// Len returns the number of key cameras.
func (p *CameraPath) Len() int {
	return len(p.Cameras)
}

// At returns key camera i.
func (p *CameraPath) At(i int) *Camera {
	return p.Cameras[i]
}

// Sample returns the camera at parameter t in [0,1] along the whole path.
// Segments are evenly spaced in t regardless of their length.
func (p *CameraPath) Sample(t float64) (*Camera, error) {
	n := len(p.Cameras)
	switch {
	case n == 0:
		return nil, errors.New("camera path is empty")
	case n == 1 || t <= 0:
		return p.Cameras[0].Clone(), nil
	case t >= 1:
		return p.Cameras[n-1].Clone(), nil
	}
	f := t * float64(n-1)
	seg := int(math.Floor(f))
	return p.Cameras[seg].Interpolate(p.Cameras[seg+1], f-float64(seg)), nil
}

// WriteTo writes the path in its text format.
func (p *CameraPath) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	write := func(format string, args ...any) error {
		n, err := fmt.Fprintf(bw, format, args...)
		total += int64(n)
		return err
	}

	if err := write("%d\n", len(p.Cameras)); err != nil {
		return total, err
	}
	for _, cam := range p.Cameras {
		for _, v := range []math3d.Vec3{cam.a, cam.b, cam.c, cam.center} {
			if err := write("%g %g %g ", v.X, v.Y, v.Z); err != nil {
				return total, err
			}
		}
		if err := write("%d %d\n", cam.w, cam.h); err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// ReadCameraPath parses a path written by WriteTo.
func ReadCameraPath(r io.Reader) (*CameraPath, error) {
	br := bufio.NewReader(r)

	var count int
	if _, err := fmt.Fscan(br, &count); err != nil {
		return nil, fmt.Errorf("read camera count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("negative camera count %d", count)
	}

	path := &CameraPath{}
	for i := range count {
		var vs [4]math3d.Vec3
		for j := range vs {
			if _, err := fmt.Fscan(br, &vs[j].X, &vs[j].Y, &vs[j].Z); err != nil {
				return nil, fmt.Errorf("read camera %d: %w", i, err)
			}
		}
		var w, h int
		if _, err := fmt.Fscan(br, &w, &h); err != nil {
			return nil, fmt.Errorf("read camera %d size: %w", i, err)
		}
		cam, err := newCameraFromBasis(vs[0], vs[1], vs[2], vs[3], w, h)
		if err != nil {
			return nil, fmt.Errorf("camera %d: %w", i, err)
		}
		path.Cameras = append(path.Cameras, cam)
	}
	return path, nil
}

// SaveFile writes the path to a file.
func (p *CameraPath) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create camera path: %w", err)
	}
	if _, err := p.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write camera path: %w", err)
	}
	return f.Close()
}

// LoadCameraPath reads a path from a file.
func LoadCameraPath(path string) (*CameraPath, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open camera path: %w", err)
	}
	defer f.Close()
	return ReadCameraPath(f)
}
