package charts

import (
	"math/rand"
	"sync"
	"time"

	"csvplot/internal/tabular"
)

// RandomSource picks palette entries for per-column charts. *rand.Rand
// satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Builder turns a table and a column selection into figures. It is safe
// for concurrent use.
type Builder struct {
	mu      sync.Mutex
	rng     RandomSource
	palette []string
}

// NewBuilder creates a builder drawing per-column colors from rng. A nil
// rng is replaced by a time-seeded source.
func NewBuilder(rng RandomSource) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Builder{rng: rng, palette: Plotly}
}

// Palette returns the colors the builder draws from
func (b *Builder) Palette() []string {
	return b.palette
}

func (b *Builder) randomColor() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.palette[b.rng.Intn(len(b.palette))]
}

func (b *Builder) orderedColor(i int) string {
	return b.palette[i%len(b.palette)]
}

// columnSeries reads the selected columns as line series indexed by row
// number. Series carry no color yet.
func columnSeries(t *tabular.Table, columns []string) ([]Series, error) {
	series := make([]Series, 0, len(columns))
	for _, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		y, err := col.Floats()
		if err != nil {
			return nil, err
		}
		x := make(Values, len(y))
		for i := range x {
			x[i] = float64(i)
		}
		series = append(series, Series{Name: name, X: x, Y: y})
	}
	return series, nil
}

// Overlay draws every selected column on one shared y axis
func (b *Builder) Overlay(t *tabular.Table, columns []string) (*Figure, error) {
	series, err := columnSeries(t, columns)
	if err != nil {
		return nil, err
	}
	for i := range series {
		series[i].Color = b.orderedColor(i)
	}

	return &Figure{
		Kind:   KindOverlay,
		XTitle: SamplesTitle,
		YTitle: ValuesTitle,
		Legend: Legend{Show: true, Orientation: "h", Position: "top"},
		Grid:   true,
		Spikes: true,
		Style: Style{
			Background:    overlayBackground,
			GridColor:     gridColor,
			ZeroLineColor: zeroLineColor,
			AxisLineColor: axisLineColor,
			SpikeColor:    spikeColor,
		},
		Series: series,
	}, nil
}

// SubplotGrid draws one row per selected column, in selection order,
// with a shared x axis and no legend.
func (b *Builder) SubplotGrid(t *tabular.Table, columns []string) (*Figure, error) {
	series, err := columnSeries(t, columns)
	if err != nil {
		return nil, err
	}

	rows := make([]Panel, len(series))
	for i, s := range series {
		s.Color = b.orderedColor(i)
		rows[i] = Panel{Title: s.Name, YTitle: ValuesTitle, Series: []Series{s}}
	}

	return &Figure{
		Kind:    KindSubplots,
		Grid:    true,
		SharedX: true,
		Style: Style{
			Background:    plainBackground,
			GridColor:     gridColor,
			ZeroLineColor: zeroLineColor,
		},
		Rows: rows,
	}, nil
}

// PerColumn draws a separate figure for each selected column, colored
// with a random palette entry.
func (b *Builder) PerColumn(t *tabular.Table, columns []string) ([]*Figure, error) {
	series, err := columnSeries(t, columns)
	if err != nil {
		return nil, err
	}

	figures := make([]*Figure, len(series))
	for i, s := range series {
		s.Color = b.randomColor()
		figures[i] = &Figure{
			Kind:   KindPerColumn,
			Title:  s.Name,
			YTitle: ValuesTitle,
			Legend: Legend{Show: true, Orientation: "h", Position: "top"},
			Grid:   true,
			Style: Style{
				Background:    plainBackground,
				GridColor:     gridColor,
				ZeroLineColor: zeroLineColor,
			},
			Series: []Series{s},
		}
	}
	return figures, nil
}
