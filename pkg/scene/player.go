package scene

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/pinhole/pkg/render"
)

// smoothFrequency is the angular frequency of the easing spring over a
// path parameter that runs from 0 to 1 in one second of spring time.
const smoothFrequency = 6.0

// Player steps through a camera path a fixed number of frames at a time.
type Player struct {
	path   *render.CameraPath
	frames int
	smooth bool

	spring harmonica.Spring
	pos    float64 // Eased path parameter
	vel    float64
	frame  int
}

// NewPlayer plays path over frames frames. With smooth set, the path
// parameter follows a critically damped spring toward the end of the path
// instead of advancing linearly, so playback starts and stops gently.
func NewPlayer(path *render.CameraPath, frames int, smooth bool) (*Player, error) {
	if path == nil || path.Len() == 0 {
		return nil, errors.New("scene: empty camera path")
	}
	if frames < 1 {
		return nil, fmt.Errorf("scene: frame count %d < 1", frames)
	}
	p := &Player{path: path, frames: frames, smooth: smooth}
	if frames > 1 {
		p.spring = harmonica.NewSpring(1/float64(frames-1), smoothFrequency, 1.0)
	}
	return p, nil
}

// Frames returns the number of frames in one playback.
func (p *Player) Frames() int { return p.frames }

// Frame returns the index of the next frame Next will return.
func (p *Player) Frame() int { return p.frame }

// Reset rewinds to the first frame.
func (p *Player) Reset() {
	p.frame = 0
	p.pos, p.vel = 0, 0
}

// Param returns the path parameter of the next frame.
func (p *Player) Param() float64 {
	switch {
	case p.frames == 1 || p.frame == 0:
		return 0
	case p.frame >= p.frames-1:
		return 1
	case p.smooth:
		return p.pos
	default:
		return float64(p.frame) / float64(p.frames-1)
	}
}

// Next returns the camera for the next frame. ok is false once every frame
// has been played.
func (p *Player) Next() (cam *render.Camera, ok bool) {
	if p.frame >= p.frames {
		return nil, false
	}
	t := p.Param()
	cam, err := p.path.Sample(t)
	if err != nil {
		return nil, false
	}

	p.frame++
	if p.smooth {
		p.pos, p.vel = p.spring.Update(p.pos, p.vel, 1)
		p.pos = min(p.pos, 1)
	}
	return cam, true
}
