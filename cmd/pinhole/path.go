package main

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/taigrr/pinhole/pkg/render"
	"github.com/taigrr/pinhole/pkg/scene"
)

var (
	pathCameras string
	pathOrbit   int
	pathSave    string
	pathFrames  int
	pathOutDir  string
	pathGIF     string
	pathDelay   int
	pathWorkers int
	pathSmooth  bool
)

var cmdPath = &cobra.Command{
	Use:   "path",
	Short: "Render frames along a camera path",
	Long: `Render frames along a camera path. The path is read from --cameras or,
with --orbit N, built from N key cameras revolving the scene camera around
the scene center.`,
	Example: `  pinhole path -c scene.json --cameras path.txt --frames 120 --out frames
  pinhole path -c scene.json --orbit 8 --save-path orbit.txt --gif orbit.gif --smooth`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScene(configPath)
		if err != nil {
			return err
		}

		var path *render.CameraPath
		switch {
		case pathCameras != "":
			if path, err = render.LoadCameraPath(pathCameras); err != nil {
				return err
			}
		case pathOrbit > 0:
			path = orbitPath(s, pathOrbit)
		default:
			return fmt.Errorf("need --cameras or --orbit")
		}
		if pathSave != "" {
			if err := path.SaveFile(pathSave); err != nil {
				return err
			}
			glog.Infof("saved %d key cameras to %s", path.Len(), pathSave)
		}

		return scene.ExportFrames(cmd.Context(), s, path, pathFrames, scene.ExportOptions{
			Dir:     pathOutDir,
			GIF:     pathGIF,
			Delay:   pathDelay,
			Workers: pathWorkers,
			Smooth:  pathSmooth,
		})
	},
}

func init() {
	f := cmdPath.Flags()
	f.StringVarP(&configPath, "config", "c", "", "Scene file (JSON)")
	f.StringVar(&pathCameras, "cameras", "", "Camera path file")
	f.IntVar(&pathOrbit, "orbit", 0, "Build a closed orbit of this many key cameras")
	f.StringVar(&pathSave, "save-path", "", "Write the key cameras to this file")
	f.IntVar(&pathFrames, "frames", 120, "Number of frames")
	f.StringVar(&pathOutDir, "out", "", "Directory for numbered PNG frames")
	f.StringVar(&pathGIF, "gif", "", "Animated GIF output")
	f.IntVar(&pathDelay, "delay", 4, "GIF frame delay in 100ths of a second")
	f.IntVar(&pathWorkers, "workers", 0, "Parallel frame encoders (0 = GOMAXPROCS)")
	f.BoolVar(&pathSmooth, "smooth", false, "Ease in and out along the path")
	cmdPath.MarkFlagRequired("config")
}

// orbitPath revolves the scene camera around the scene center in n equal
// steps, ending where it started.
func orbitPath(s *scene.Scene, n int) *render.CameraPath {
	center := s.Center()
	cam := s.Camera.Clone()
	path := &render.CameraPath{}
	for range n {
		path.Append(cam)
		cam.RevolveLeftRight(center, 360/float64(n))
	}
	path.Append(cam)
	return path
}
