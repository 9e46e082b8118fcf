package main

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/taigrr/pinhole/pkg/render"
)

var (
	envPath   string
	envHFOV   float64
	envWidth  int
	envHeight int
	envPan    float64
	envTilt   float64
	envOut    string
)

var cmdEnv = &cobra.Command{
	Use:     "env",
	Short:   "Render a cube-cross environment map through a camera",
	Example: `  pinhole env -e cross.png --hfov 90 -W 640 -H 480 --pan 45 -o out.png`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := render.LoadCubeMap(envPath)
		if err != nil {
			return err
		}

		cam := render.NewCamera(envHFOV, envWidth, envHeight)
		cam.Pan(envPan)
		cam.Tilt(envTilt)
		cam.SetPosition(env.Center())

		fb := render.NewFramebuffer(envWidth, envHeight)
		env.RenderEnvironment(cam, fb)
		if err := fb.Save(envOut); err != nil {
			return fmt.Errorf("save render: %w", err)
		}
		glog.Infof("wrote %s", envOut)
		return nil
	},
}

func init() {
	f := cmdEnv.Flags()
	f.StringVarP(&envPath, "env", "e", "", "Cube-cross environment image")
	f.Float64Var(&envHFOV, "hfov", 90, "Horizontal field of view in degrees")
	f.IntVarP(&envWidth, "width", "W", 640, "Image width")
	f.IntVarP(&envHeight, "height", "H", 480, "Image height")
	f.Float64Var(&envPan, "pan", 0, "Pan in degrees (positive turns right)")
	f.Float64Var(&envTilt, "tilt", 0, "Tilt in degrees (positive looks up)")
	f.StringVarP(&envOut, "out", "o", "env.png", "Output image")
	cmdEnv.MarkFlagRequired("env")
}
