package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taigrr/pinhole/pkg/scene"
)

var cmdInfo = &cobra.Command{
	Use:   "info model.bin|model.glb...",
	Short: "Print vertex and triangle counts and bounds of mesh files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, path := range args {
			m, err := scene.LoadMesh(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n", path)
			fmt.Fprintf(out, "  vertices:  %d\n", m.VertexCount())
			fmt.Fprintf(out, "  triangles: %d\n", m.TriangleCount())
			fmt.Fprintf(out, "  bounds:    %v - %v\n", m.BoundsMin, m.BoundsMax)
			fmt.Fprintf(out, "  center:    %v\n", m.Center())
			fmt.Fprintf(out, "  normals: %v  colors: %v  texcoords: %v\n", m.HasNormals, m.HasColors, m.HasTexCoords)
		}
		return nil
	},
}
