package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udisondev/lanenav/internal/movement"
	"github.com/udisondev/lanenav/internal/nav"
)

func PlanCmd() *cobra.Command {
	var (
		gridPath, layoutPath string
		cellSize             float64
		from, to             string
		geojsonOut, viewport string
		maxExpansions        int
		radius               int
	)
	c := &cobra.Command{
		Use:   "plan",
		Short: "plan waypoints between two world points",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parsePoint(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			dest, err := parsePoint(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			view, err := parseViewport(viewport)
			if err != nil {
				return fmt.Errorf("--view: %w", err)
			}
			g, err := loadGrid(gridPath, layoutPath, cellSize)
			if err != nil {
				return err
			}

			opts := nav.DefaultOptions()
			opts.MaxExpansions = maxExpansions
			opts.NearestWalkableRadius = radius
			p := nav.NewPlanner(g, movement.NewExecutor(nil), opts)
			plan := p.PlanPath(start, dest)

			out := cmd.OutOrStdout()
			if !plan.Reachable {
				fmt.Fprintf(out, "unreachable (visited %d cells, truncated %t)\n", len(plan.Visited), plan.Truncated)
			} else {
				fmt.Fprintf(out, "reachable: %d waypoints, %d path cells, %d visited, direct %t\n",
					len(plan.Waypoints), len(plan.Path), len(plan.Visited), plan.Direct)
				for _, w := range plan.Waypoints {
					fmt.Fprintf(out, "%.4f,%.4f\n", w.X(), w.Y())
				}
			}

			if geojsonOut == "" {
				return nil
			}
			return writeGeoJSON(geojsonOut, g, view, nav.Snapshot{
				Visited:   plan.Visited,
				Path:      plan.Path,
				Waypoints: plan.Waypoints,
				Reachable: plan.Reachable,
			})
		},
	}
	c.Flags().StringVar(&gridPath, "grid", "", "grid binary")
	c.Flags().StringVar(&layoutPath, "layout", "", "ASCII layout file (overrides --grid)")
	c.Flags().Float64Var(&cellSize, "cell-size", 1, "cell size for --layout")
	c.Flags().StringVar(&from, "from", "", "start x,z")
	c.Flags().StringVar(&to, "to", "", "destination x,z")
	c.Flags().StringVar(&geojsonOut, "geojson", "", "write the debug overlay as GeoJSON")
	c.Flags().StringVar(&viewport, "view", "", "crop the GeoJSON cells to x0,z0:x1,z1")
	c.Flags().IntVar(&maxExpansions, "max-expansions", 0, "A* expansion cap, 0 = unbounded")
	c.Flags().IntVar(&radius, "nearest-walkable-radius", 3, "fallback search radius in cells")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}
