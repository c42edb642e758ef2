package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"csvplot/internal/charts"
	"csvplot/internal/config"
)

const (
	kindAll = "all"
)

type plotOptions struct {
	columns []string
	outDir  string
	kind    string
	seed    int64
	width   int
	height  int
	rowH    int
}

func newPlotCmd(c *cli) *cobra.Command {
	opts := plotOptions{}
	defaults := config.Default().Explorer

	cmd := &cobra.Command{
		Use:   "plot FILE...",
		Short: "Render line charts of the selected columns as SVG files",
		Long: `plot renders the overlay chart (overlay.svg), the stacked subplot grid
(subplots.svg) and one chart per column (NN_<column>.svg) into --out.`,
		Example: `  csvtool plot a.csv b.csv --columns x,z --out charts
  csvtool plot a.csv --kind per-column --seed 42`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validKind(opts.kind) {
				return fmt.Errorf("invalid --kind %q: want overlay, subplots, per-column or all", opts.kind)
			}

			table, err := c.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			selected, err := selection(table, opts.columns)
			if err != nil {
				return err
			}

			seed := opts.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			builder := charts.NewBuilder(rand.New(rand.NewSource(seed)))

			var figures []*charts.Figure
			var names []string
			if opts.wants(charts.KindOverlay) {
				fig, err := builder.Overlay(table, selected)
				if err != nil {
					return err
				}
				figures = append(figures, fig)
				names = append(names, "overlay.svg")
			}
			if opts.wants(charts.KindSubplots) {
				fig, err := builder.SubplotGrid(table, selected)
				if err != nil {
					return err
				}
				figures = append(figures, fig)
				names = append(names, "subplots.svg")
			}
			if opts.wants(charts.KindPerColumn) {
				figs, err := builder.PerColumn(table, selected)
				if err != nil {
					return err
				}
				for i, fig := range figs {
					figures = append(figures, fig)
					names = append(names, fmt.Sprintf("%02d_%s.svg", i+1, sanitize(fig.Title)))
				}
			}

			if err := c.validator.ValidateOutputDirectory(opts.outDir); err != nil {
				return err
			}

			render := charts.RenderOptions{Width: opts.width, Height: opts.height, RowHeight: opts.rowH}
			for i, fig := range figures {
				path := filepath.Join(opts.outDir, names[i])
				if err := writeFigure(fig, path, render); err != nil {
					if errors.Is(err, charts.ErrEmptyFigure) {
						c.logger.Warn("skipping empty chart", slog.String("file", names[i]))
						continue
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opts.columns, "columns", "c", nil, "columns to plot, in order (default: all)")
	f.StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	f.StringVar(&opts.kind, "kind", kindAll, "chart kind: overlay, subplots, per-column or all")
	f.Int64Var(&opts.seed, "seed", 0, "seed for per-column colors (0: random)")
	f.IntVar(&opts.width, "width", defaults.ChartWidth, "chart width in pixels")
	f.IntVar(&opts.height, "height", defaults.ChartHeight, "chart height in pixels")
	f.IntVar(&opts.rowH, "row-height", defaults.RowHeight, "height of each subplot row in pixels")
	return cmd
}

func validKind(kind string) bool {
	switch kind {
	case kindAll, string(charts.KindOverlay), string(charts.KindSubplots), string(charts.KindPerColumn):
		return true
	}
	return false
}

func (o plotOptions) wants(kind charts.Kind) bool {
	return o.kind == kindAll || o.kind == string(kind)
}

func writeFigure(fig *charts.Figure, path string, opts charts.RenderOptions) error {
	svg, err := charts.RenderString(fig, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(svg), 0o644)
}

// sanitize keeps column names usable as file names
func sanitize(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
	if strings.Trim(s, "._") == "" {
		return "column"
	}
	return s
}
