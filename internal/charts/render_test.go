package charts

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvplot/internal/tabular"
)

func TestRender(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		fig  *Figure
	}{
		{
			name: "overlay",
			fig: &Figure{
				Kind:   KindOverlay,
				XTitle: SamplesTitle,
				YTitle: ValuesTitle,
				Legend: Legend{Show: true},
				Style:  Style{Background: "#FFFFFB", GridColor: gridColor, ZeroLineColor: zeroLineColor},
				Series: []Series{
					{Name: "x", Color: "#636EFA", X: Values{0, 1, 2}, Y: Values{1, 2, 3}},
					{Name: "z", Color: "#EF553B", X: Values{0, 1, 2}, Y: Values{-7, 8, 9}},
				},
			},
		},
		{
			name: "single point",
			fig: &Figure{
				Kind:   KindPerColumn,
				Title:  "p",
				Series: []Series{{Name: "p", Color: "#00CC96", X: Values{0}, Y: Values{4}}},
			},
		},
		{
			name: "constant with gaps",
			fig: &Figure{
				Kind:   KindPerColumn,
				Series: []Series{{Name: "c", Color: "#00CC96", X: Values{0, 1, 2, 3}, Y: Values{0, nan, 0, nan}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(tt.fig, &buf, RenderOptions{}))
			assert.Contains(t, buf.String(), "<svg")
			assert.Contains(t, buf.String(), "</svg>")
		})
	}
}

func TestRenderGrid(t *testing.T) {
	fig := &Figure{
		Kind:    KindSubplots,
		SharedX: true,
		Style:   Style{Background: plainBackground, GridColor: gridColor, ZeroLineColor: zeroLineColor},
		Rows: []Panel{
			{Title: "x", YTitle: ValuesTitle, Series: []Series{{Name: "x", Color: "#636EFA", X: Values{0, 1, 2}, Y: Values{1, 2, 3}}}},
			{Title: "gaps", YTitle: ValuesTitle, Series: []Series{{Name: "gaps", X: Values{0, 1}, Y: Values{math.NaN(), math.NaN()}}}},
			{Title: "z", YTitle: ValuesTitle, Series: []Series{{Name: "z", Color: "#EF553B", X: Values{0, 1, 2}, Y: Values{7, 8, 9}}}},
		},
	}

	svg, err := RenderString(fig, RenderOptions{Width: 600, RowHeight: 200})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="600" height="600">`))
	assert.Equal(t, 3, strings.Count(svg, `<g transform="translate(0,`))
	assert.Contains(t, svg, `translate(0,400)`)
	assert.Contains(t, svg, "gaps: no data")
	assert.NotContains(t, svg, "<?xml")
}

func TestRenderEmpty(t *testing.T) {
	tests := []struct {
		name string
		fig  *Figure
	}{
		{"no series", &Figure{Kind: KindOverlay}},
		{"only missing values", &Figure{Kind: KindOverlay, Series: []Series{{Name: "a", X: Values{0}, Y: Values{math.NaN()}}}}},
		{"grid without rows", &Figure{Kind: KindSubplots}},
		{"only infinite values", &Figure{Kind: KindOverlay, Series: []Series{{Name: "a", X: Values{0, 1}, Y: Values{math.Inf(1), math.Inf(-1)}}}}},
		{"grid of infinite values", &Figure{Kind: KindSubplots, Rows: []Panel{{Title: "a", Series: []Series{{Name: "a", X: Values{0}, Y: Values{math.Inf(1)}}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.ErrorIs(t, Render(tt.fig, &buf, RenderOptions{}), ErrEmptyFigure)
		})
	}
}

func TestPadRange(t *testing.T) {
	tests := []struct {
		lo, hi         float64
		wantLo, wantHi float64
	}{
		{0, 5, 0, 5},
		{0, 0, -1, 1},
		{10, 10, 9, 11},
		{-4, -4, -4.4, -3.6},
	}

	for _, tt := range tests {
		lo, hi := padRange(tt.lo, tt.hi)
		assert.InDelta(t, tt.wantLo, lo, 1e-9)
		assert.InDelta(t, tt.wantHi, hi, 1e-9)
	}
}

func TestColorOf(t *testing.T) {
	c := colorOf("#FF0000")
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)

	assert.Equal(t, colorOf("#000000"), colorOf("not a color"))
}

func wellFormed(t *testing.T, svg string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err, "SVG is not well-formed XML")
	}
}

func TestRenderEscapesText(t *testing.T) {
	table, err := tabular.Parse("R&D <q>.csv", strings.NewReader("R&D,<5,\"a \"\"b\"\"\"\n1,2,3\n3,4,5\n"))
	require.NoError(t, err)
	columns := table.Columns()

	b := NewBuilder(nil)
	overlay, err := b.Overlay(table, columns)
	require.NoError(t, err)
	overlay.Title = "P&L <total>"
	grid, err := b.SubplotGrid(table, columns)
	require.NoError(t, err)
	perColumn, err := b.PerColumn(table, columns)
	require.NoError(t, err)

	for _, fig := range append([]*Figure{overlay, grid}, perColumn...) {
		t.Run(string(fig.Kind)+" "+fig.Title, func(t *testing.T) {
			svg, err := RenderString(fig, RenderOptions{})
			require.NoError(t, err)
			wellFormed(t, svg)
			assert.NotContains(t, svg, "R&D")
			assert.NotContains(t, svg, "<5")
			if fig.Kind != KindPerColumn {
				assert.Contains(t, svg, "R&amp;D")
				assert.Contains(t, svg, "&lt;5")
			}
		})
	}
	assert.Equal(t, "R&D", overlay.Series[0].Name, "figure model keeps raw names")
}

func TestRenderSkipsInfinitePoints(t *testing.T) {
	table, err := tabular.Parse("inf.csv", strings.NewReader("x,y\n1,inf\ninf,-inf\n3,2\n"))
	require.NoError(t, err)

	b := NewBuilder(nil)
	overlay, err := b.Overlay(table, []string{"x", "y"})
	require.NoError(t, err)
	grid, err := b.SubplotGrid(table, []string{"x", "y"})
	require.NoError(t, err)

	for _, fig := range []*Figure{overlay, grid} {
		svg, err := RenderString(fig, RenderOptions{})
		require.NoError(t, err, fig.Kind)
		wellFormed(t, svg)
	}

	kept := plottable(overlay.Series)
	require.Len(t, kept, 2)
	assert.Equal(t, Values{0, 2}, kept[0].X)
	assert.Equal(t, Values{1, 3}, kept[0].Y)
	assert.Equal(t, Values{2, 2}, kept[1].X, "a single finite point is doubled")
}
