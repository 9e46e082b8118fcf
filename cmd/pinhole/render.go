package main

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/taigrr/pinhole/pkg/scene"
)

var (
	configPath string
	outPath    string
	showLight  bool
)

var cmdRender = &cobra.Command{
	Use:   "render",
	Short: "Render a scene file to an image",
	Example: `  pinhole render -c scene.json -o out.png
  pinhole render -c scene.json -o out.tiff --show-light`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScene(configPath)
		if err != nil {
			return err
		}
		s.ShowLight = s.ShowLight || showLight
		s.RenderFrame()

		if err := s.Framebuffer.Save(outPath); err != nil {
			return fmt.Errorf("save render: %w", err)
		}
		glog.Infof("wrote %s", outPath)
		return nil
	},
}

func init() {
	cmdRender.Flags().StringVarP(&configPath, "config", "c", "", "Scene file (JSON)")
	cmdRender.Flags().StringVarP(&outPath, "out", "o", "out.png", "Output image (.png, .jpg, .tiff, .bmp)")
	cmdRender.Flags().BoolVar(&showLight, "show-light", false, "Mark the point light")
	cmdRender.MarkFlagRequired("config")
}

// loadScene loads and builds a scene file.
func loadScene(path string) (*scene.Scene, error) {
	cfg, err := scene.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}
