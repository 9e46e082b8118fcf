package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/taigrr/pinhole/pkg/math3d"
)

// ErrCubeLayout is returned when an environment image does not have the
// 3×4 cross proportions.
var ErrCubeLayout = errors.New("render: environment image is not a 3x4 cube cross")

// Cube face indices.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
	faceCount
)

// CubeMap is six square framebuffers and six 90° cameras sharing a center,
// together covering every direction around it. Face i looks along the axis
// named by the Face* constants.
type CubeMap struct {
	faces   [faceCount]*Framebuffer
	cams    [faceCount]*Camera
	size    int
	center  math3d.Vec3
	prevHit int
}

// NewCubeMap creates an empty cube map with size×size faces centered on
// center.
func NewCubeMap(size int, center math3d.Vec3) *CubeMap {
	cm := &CubeMap{size: size, center: center}
	for i := range faceCount {
		cm.faces[i] = NewFramebuffer(size, size)
		cm.cams[i] = newFaceCamera(i, size, center)
	}
	return cm
}

// newFaceCamera orients a 90° camera for face i. The unrotated camera looks
// down -Z; the others are derived from it by pan and tilt.
func newFaceCamera(i, size int, center math3d.Vec3) *Camera {
	cam := NewCamera(90, size, size)
	switch i {
	case FacePosX:
		cam.Pan(90)
	case FaceNegX:
		cam.Pan(-90)
	case FacePosY:
		cam.Tilt(90)
	case FaceNegY:
		cam.Tilt(-90)
	case FacePosZ:
		cam.Pan(180)
	}
	cam.SetPosition(center)
	return cam
}

// NewCubeMapFromImage slices a cross-layout environment image into a cube
// map centered on the origin. The image must be 3 faces wide and 4 faces
// tall:
//
//	.  +Y  .
//	-X -Z +X
//	.  -Y  .
//	.  +Z  .
//
// with the +Z cell stored upside down.
func NewCubeMapFromImage(img image.Image) (*CubeMap, error) {
	b := img.Bounds()
	fw := b.Dx() / 3
	if fw == 0 || b.Dx() != 3*fw || b.Dy() != 4*fw {
		return nil, fmt.Errorf("%dx%d image: %w", b.Dx(), b.Dy(), ErrCubeLayout)
	}

	src := FramebufferFromImage(img)
	cm := NewCubeMap(fw, math3d.Vec3{})

	copyCell := func(face, cellX, cellY int, flipV bool) {
		dst := cm.faces[face]
		for v := range fw {
			dv := v
			if flipV {
				dv = fw - 1 - v
			}
			for u := range fw {
				dst.Set(u, dv, src.Get(u+cellX*fw, v+cellY*fw))
			}
		}
	}
	copyCell(FacePosY, 1, 0, false)
	copyCell(FaceNegX, 0, 1, false)
	copyCell(FaceNegZ, 1, 1, false)
	copyCell(FacePosX, 2, 1, false)
	copyCell(FaceNegY, 1, 2, false)
	copyCell(FacePosZ, 1, 3, true)

	return cm, nil
}

// LoadCubeMap decodes a cross-layout environment image file.
func LoadCubeMap(path string) (*CubeMap, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	cm, err := NewCubeMapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("load cube map %s: %w", path, err)
	}
	return cm, nil
}

// Size returns the face resolution.
func (cm *CubeMap) Size() int { return cm.size }

// Center returns the shared camera center.
func (cm *CubeMap) Center() math3d.Vec3 { return cm.center }

// Face returns framebuffer i.
func (cm *CubeMap) Face(i int) *Framebuffer { return cm.faces[i] }

// Camera returns the camera of face i.
func (cm *CubeMap) Camera(i int) *Camera { return cm.cams[i] }

// SetCenter moves every face camera to p. Orientations are unchanged.
func (cm *CubeMap) SetCenter(p math3d.Vec3) {
	cm.center = p
	for _, cam := range cm.cams {
		cam.SetPosition(p)
	}
}

// ClearDepth resets the depth buffers of all faces.
func (cm *CubeMap) ClearDepth() {
	for _, f := range cm.faces {
		f.ClearDepth()
	}
}

// FaceFor returns the face whose axis dominates d. Ties prefer X over Y and
// Y over Z.
func FaceFor(d math3d.Vec3) int {
	ax, ay, az := math.Abs(d.X), math.Abs(d.Y), math.Abs(d.Z)
	switch {
	case ax >= ay && ax >= az:
		if d.X > 0 {
			return FacePosX
		}
		return FaceNegX
	case ay >= az:
		if d.Y > 0 {
			return FacePosY
		}
		return FaceNegY
	default:
		if d.Z > 0 {
			return FacePosZ
		}
		return FaceNegZ
	}
}

// Color returns the environment color in direction dir, or ColorCubeMiss if
// no face sees it.
func (cm *CubeMap) Color(dir math3d.Vec3) Color {
	c, _, _ := cm.Lookup(dir)
	return c
}

// Lookup is Color that also reports the face that answered and whether any
// face did. Faces are tried starting from the previous hit, which is usually
// right for neighboring pixels.
func (cm *CubeMap) Lookup(dir math3d.Vec3) (Color, int, bool) {
	p := cm.center.Add(dir)
	for k := range faceCount {
		i := (cm.prevHit + k) % faceCount
		q, ok := cm.cams[i].Project(p)
		if !ok {
			continue
		}
		if q.X < 0 || q.X >= float64(cm.size) || q.Y < 0 || q.Y >= float64(cm.size) {
			continue
		}
		cm.prevHit = i
		return cm.faces[i].bilinear(q.X, q.Y), i, true
	}
	return ColorCubeMiss, -1, false
}

// bilinear blends the four texels around (x, y). Texel (u0, v0) is the one
// containing the point; the neighbors clamp at the last row and column.
func (fb *Framebuffer) bilinear(x, y float64) Color {
	u0, v0 := int(x), int(y)
	u1 := min(u0+1, fb.Width-1)
	v1 := min(v0+1, fb.Height-1)
	fx, fy := x-float64(u0), y-float64(v0)

	top := lerpColor(fb.Get(u0, v0), fb.Get(u1, v0), fx)
	bot := lerpColor(fb.Get(u0, v1), fb.Get(u1, v1), fx)
	return lerpColor(top, bot, fy)
}

// RenderEnvironment fills every pixel of fb that has nothing drawn (depth 0)
// with the environment seen through cam.
func (cm *CubeMap) RenderEnvironment(cam *Camera, fb *Framebuffer) {
	for v := range fb.Height {
		for u := range fb.Width {
			if fb.Depth[v*fb.Width+u] != 0 {
				continue
			}
			fb.Set(u, v, cm.Color(cam.Ray(float64(u)+0.5, float64(v)+0.5)))
		}
	}
}

// RenderFaces calls draw once per face so a scene can be baked into the
// cube map.
func (cm *CubeMap) RenderFaces(draw func(face int, cam *Camera, fb *Framebuffer)) {
	for i := range faceCount {
		draw(i, cm.cams[i], cm.faces[i])
	}
}
