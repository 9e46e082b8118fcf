package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
	"github.com/taigrr/pinhole/pkg/scene"
)

var (
	viewFPS   int
	viewSpin  float64
	viewNudge float64
)

var cmdView = &cobra.Command{
	Use:   "view",
	Short: "Orbit a scene in the terminal",
	Long: `Orbit a scene in the terminal.

Controls:
  A/D, left/right  Push the orbit left/right
  W/S, up/down     Push the orbit up/down
  +/-              Move closer/farther
  Space            Toggle auto-spin
  R                Reset the camera
  Q, Esc, Ctrl+C   Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScene(configPath)
		if err != nil {
			return err
		}
		return runView(cmd.Context(), s)
	},
}

func init() {
	f := cmdView.Flags()
	f.StringVarP(&configPath, "config", "c", "", "Scene file (JSON)")
	f.IntVar(&viewFPS, "fps", 30, "Target FPS")
	f.Float64Var(&viewSpin, "spin", 20, "Auto-spin speed in degrees per second")
	f.Float64Var(&viewNudge, "nudge", 2, "Orbit impulse per key press in degrees per frame")
	cmdView.MarkFlagRequired("config")
}

// orbitAxis is an orbit angular velocity that decays toward zero on a
// critically damped spring.
type orbitAxis struct {
	Velocity float64 // Degrees per frame
	spring   harmonica.Spring
	accel    float64 // spring velocity of Velocity
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// step returns this frame's rotation and decays the velocity.
func (a *orbitAxis) step() float64 {
	v := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	return v
}

// viewer is the interactive state of the view command.
type viewer struct {
	scene   *scene.Scene
	surface *render.Surface
	center  math3d.Vec3
	hfov    float64
	home    math3d.Vec3 // Initial eye position
	yaw     orbitAxis
	pitch   orbitAxis
	spin    bool
}

func newViewer(s *scene.Scene) *viewer {
	cam := s.Camera
	hfov := 2 * math3d.Rad2Deg(math.Atan(float64(cam.Width())/2/cam.FocalLength()))
	return &viewer{
		scene:   s,
		surface: render.NewSurface(s.Framebuffer),
		center:  s.Center(),
		hfov:    hfov,
		home:    cam.Position(),
		yaw:     newOrbitAxis(viewFPS),
		pitch:   newOrbitAxis(viewFPS),
		spin:    true,
	}
}

// resize replaces the camera with one matching a cols×rows terminal,
// keeping the eye position.
func (v *viewer) resize(cols, rows int) {
	w, h := render.CellSize(cols, rows)
	v.pose(v.scene.Camera.Position(), w, h)
}

// pose points a fresh w×h camera at the scene center from eye.
func (v *viewer) pose(eye math3d.Vec3, w, h int) {
	cam := render.NewCamera(v.hfov, max(w, 1), max(h, 1))
	if err := cam.Pose(eye, v.center, math3d.Up()); err != nil {
		glog.Warningf("keeping camera: %v", err)
		return
	}
	v.scene.SetCamera(cam)
	v.surface.SetFramebuffer(v.scene.Framebuffer)
}

// handleKey applies a key press. It returns false when the viewer should
// quit.
func (v *viewer) handleKey(ev uv.KeyPressEvent) bool {
	cam := v.scene.Camera
	dist := cam.Position().Distance(v.center)
	switch {
	case ev.MatchString("q", "esc", "escape", "ctrl+c"):
		return false
	case ev.MatchString("a", "left"):
		v.yaw.Velocity -= viewNudge
	case ev.MatchString("d", "right"):
		v.yaw.Velocity += viewNudge
	case ev.MatchString("w", "up"):
		v.pitch.Velocity += viewNudge
	case ev.MatchString("s", "down"):
		v.pitch.Velocity -= viewNudge
	case ev.MatchString("+", "="):
		cam.TranslateForward(dist * 0.05)
	case ev.MatchString("-", "_"):
		cam.TranslateForward(-dist * 0.05)
	case ev.MatchString("space"):
		v.spin = !v.spin
	case ev.MatchString("r"):
		v.yaw, v.pitch = newOrbitAxis(viewFPS), newOrbitAxis(viewFPS)
		v.pose(v.home, cam.Width(), cam.Height())
	}
	return true
}

// step advances the orbit by one frame.
func (v *viewer) step() {
	yaw := v.yaw.step()
	if v.spin {
		yaw += viewSpin / float64(viewFPS)
	}
	cam := v.scene.Camera
	cam.RevolveLeftRight(v.center, yaw)
	cam.RevolveUpDown(v.center, v.pitch.step())
}

func runView(ctx context.Context, s *scene.Scene) error {
	if viewFPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", viewFPS)
	}

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	v := newViewer(s)
	v.resize(cols, rows)

	ticker := time.NewTicker(time.Second / time.Duration(viewFPS))
	defer ticker.Stop()
	events := term.Events()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				v.resize(ev.Width, ev.Height)
			case uv.KeyPressEvent:
				if !v.handleKey(ev) {
					return nil
				}
			}

		case <-ticker.C:
			v.step()
			s.RenderFrame()
			term.Draw(v.surface)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
