package charts

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
)

// ErrEmptyFigure is returned when a figure has no plottable points
var ErrEmptyFigure = errors.New("charts: figure has no data to render")

// RenderOptions sets the pixel size of rendered charts. RowHeight is the
// height of each subplot row.
type RenderOptions struct {
	Width     int
	Height    int
	RowHeight int
}

// DefaultRenderOptions returns the sizes used when none are configured
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: 1024, Height: 480, RowHeight: 240}
}

func (o RenderOptions) withDefaults() RenderOptions {
	d := DefaultRenderOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.RowHeight <= 0 {
		o.RowHeight = d.RowHeight
	}
	return o
}

// Render draws the figure as SVG
func Render(fig *Figure, w io.Writer, opts RenderOptions) error {
	opts = opts.withDefaults()
	if fig.Kind == KindSubplots {
		return renderGrid(fig, w, opts)
	}

	series := plottable(fig.Series)
	if len(series) == 0 {
		return ErrEmptyFigure
	}
	xr, yr := ranges(series)
	ch := newChart(fig.Style, fig.XTitle, fig.YTitle, xr, yr, opts.Width, opts.Height)
	ch.Title = svgText(fig.Title)
	ch.Series = continuous(series)
	if fig.Legend.Show {
		ch.Background.Padding.Top = 50
		ch.Elements = []chart.Renderable{chart.LegendThin(&ch)}
	}
	return ch.Render(chart.SVG, w)
}

// RenderString is Render into a string
func RenderString(fig *Figure, opts RenderOptions) (string, error) {
	var buf bytes.Buffer
	if err := Render(fig, &buf, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderGrid stacks one chart per panel. Every panel uses the same x range.
func renderGrid(fig *Figure, w io.Writer, opts RenderOptions) error {
	panels := make([][]Series, len(fig.Rows))
	var all []Series
	for i, p := range fig.Rows {
		panels[i] = plottable(p.Series)
		all = append(all, panels[i]...)
	}
	if len(all) == 0 {
		return ErrEmptyFigure
	}
	xr, _ := ranges(all)

	height := opts.RowHeight * len(fig.Rows)
	var body strings.Builder
	for i, p := range fig.Rows {
		fmt.Fprintf(&body, `<g transform="translate(0,%d)">`, i*opts.RowHeight)
		if len(panels[i]) == 0 {
			fmt.Fprintf(&body, `<text x="%d" y="%d" text-anchor="middle">%s: no data</text>`,
				opts.Width/2, opts.RowHeight/2, svgText(p.Title))
		} else {
			_, yr := ranges(panels[i])
			ch := newChart(fig.Style, "", p.YTitle, xr, yr, opts.Width, opts.RowHeight)
			ch.Title = svgText(p.Title)
			ch.Series = continuous(panels[i])

			var panel bytes.Buffer
			if err := ch.Render(chart.SVG, &panel); err != nil {
				return fmt.Errorf("render row %d (%s): %w", i, p.Title, err)
			}
			body.WriteString(stripProlog(panel.String()))
		}
		body.WriteString(`</g>`)
	}

	_, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">%s</svg>`,
		opts.Width, height, body.String())
	return err
}

func newChart(style Style, xTitle, yTitle string, xr, yr *chart.ContinuousRange, width, height int) chart.Chart {
	grid := chart.Style{StrokeColor: colorOf(style.GridColor), StrokeWidth: 1}
	axis := chart.Style{}
	if style.AxisLineColor != "" {
		axis.StrokeColor = colorOf(style.AxisLineColor)
	}

	ch := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding:   chart.Box{Top: 30, Left: 16, Right: 16, Bottom: 12},
			FillColor: colorOf(style.Background),
		},
		Canvas: chart.Style{FillColor: colorOf(style.Background)},
		XAxis: chart.XAxis{
			Name:           svgText(xTitle),
			Style:          axis,
			Range:          xr,
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           svgText(yTitle),
			Style:          axis,
			Range:          yr,
			GridMajorStyle: grid,
		},
	}
	if yr.Min < 0 && yr.Max > 0 {
		ch.YAxis.Zero = chart.GridLine{
			Value: 0,
			Style: chart.Style{StrokeColor: colorOf(style.ZeroLineColor), StrokeWidth: 2},
		}
	}
	return ch
}

// plottable drops NaN and infinite points and series left without any
// point. A single
// point is doubled so the line renderer has a segment to draw.
func plottable(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		x := make(Values, 0, len(s.Y))
		y := make(Values, 0, len(s.Y))
		for i := range s.Y {
			if i >= len(s.X) || !finite(s.X[i]) || !finite(s.Y[i]) {
				continue
			}
			x = append(x, s.X[i])
			y = append(y, s.Y[i])
		}
		if len(y) == 0 {
			continue
		}
		if len(y) == 1 {
			x = append(x, x[0])
			y = append(y, y[0])
		}
		out = append(out, Series{Name: s.Name, Color: s.Color, X: x, Y: y})
	}
	return out
}

// ranges returns padded x and y extents over non-empty series
func ranges(series []Series) (*chart.ContinuousRange, *chart.ContinuousRange) {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for i := range s.Y {
			xmin, xmax = math.Min(xmin, s.X[i]), math.Max(xmax, s.X[i])
			ymin, ymax = math.Min(ymin, s.Y[i]), math.Max(ymax, s.Y[i])
		}
	}
	xmin, xmax = padRange(xmin, xmax)
	ymin, ymax = padRange(ymin, ymax)
	return &chart.ContinuousRange{Min: xmin, Max: xmax}, &chart.ContinuousRange{Min: ymin, Max: ymax}
}

// padRange widens a zero-width range. Ranges that are exactly zero on
// both ends are read as unset by go-chart, so they are widened too.
func padRange(lo, hi float64) (float64, float64) {
	if lo < hi {
		return lo, hi
	}
	pad := math.Abs(lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func continuous(series []Series) []chart.Series {
	out := make([]chart.Series, len(series))
	for i, s := range series {
		out[i] = chart.ContinuousSeries{
			Name:    svgText(s.Name),
			XValues: s.X,
			YValues: s.Y,
			Style: chart.Style{
				StrokeColor: colorOf(s.Color),
				StrokeWidth: 2,
			},
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// svgText escapes text for the SVG body. go-chart writes labels into
// <text> elements verbatim.
func svgText(s string) string {
	return html.EscapeString(s)
}

func stripProlog(svg string) string {
	if strings.HasPrefix(svg, "<?xml") {
		if end := strings.Index(svg, "?>"); end >= 0 {
			return strings.TrimSpace(svg[end+2:])
		}
	}
	return svg
}
