package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/lanenav/internal/navgrid"
)

func EncodeCmd() *cobra.Command {
	var (
		layoutPath, out string
		cellSize        float64
	)
	c := &cobra.Command{
		Use:   "encode",
		Short: "convert an ASCII layout into a grid binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrid("", layoutPath, cellSize)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			w := bufio.NewWriter(f)
			if err := navgrid.Encode(w, g); err != nil {
				f.Close()
				return fmt.Errorf("encoding grid: %w", err)
			}
			if err := w.Flush(); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}

			slog.Info("grid encoded", "path", out, "x_len", g.XLen(), "z_len", g.ZLen(), "cell_size", g.CellSize())
			return nil
		},
	}
	c.Flags().StringVar(&layoutPath, "layout", "", "ASCII layout file")
	c.Flags().StringVar(&out, "out", "grid.bin", "output grid binary")
	c.Flags().Float64Var(&cellSize, "cell-size", 1, "world size of one cell")
	_ = c.MarkFlagRequired("layout")
	return c
}
