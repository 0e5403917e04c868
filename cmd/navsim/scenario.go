package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udisondev/lanenav/internal/scenario"
)

func ScenarioCmd() *cobra.Command {
	var geojsonOut, viewport string
	c := &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "run a scripted scenario and print its report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseViewport(viewport)
			if err != nil {
				return fmt.Errorf("--view: %w", err)
			}
			s, err := scenario.LoadFile(args[0])
			if err != nil {
				return err
			}
			r, err := scenario.Run(s)
			if err != nil {
				return fmt.Errorf("running scenario %s: %w", args[0], err)
			}
			if err := r.Write(cmd.OutOrStdout()); err != nil {
				return err
			}

			if geojsonOut == "" {
				return nil
			}
			g, err := s.Grid()
			if err != nil {
				return err
			}
			return writeGeoJSON(geojsonOut, g, view, r.Snapshots...)
		},
	}
	c.Flags().StringVar(&geojsonOut, "geojson", "", "write the last plan of every agent as GeoJSON")
	c.Flags().StringVar(&viewport, "view", "", "crop the GeoJSON cells to x0,z0:x1,z1")
	return c
}
