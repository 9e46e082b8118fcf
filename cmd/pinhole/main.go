// pinhole renders scenes with a software planar pinhole camera.
//
// Commands:
//
//	render  - Render a JSON scene to an image
//	path    - Render a camera path to numbered PNGs and/or an animated GIF
//	env     - Render a cube-cross environment map through a camera
//	view    - Orbit a scene in the terminal
//	info    - Print mesh statistics
//
// glog flags (-v, --logtostderr, --log_dir, ...) apply to every command.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var version = "dev"

var cmdRoot = &cobra.Command{
	Use:   "pinhole",
	Short: "Software pinhole camera renderer",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads its flags from the Go flag set, which cobra already filled.
		return flag.CommandLine.Parse(nil)
	},
}

func init() {
	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func main() {
	cmdRoot.AddCommand(cmdRender, cmdPath, cmdEnv, cmdView, cmdInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fang.Execute(ctx, cmdRoot, fang.WithVersion(version))
	stop()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
