// Package charts builds line chart models from table columns and renders
// them to SVG.
//
// Builders are pure with respect to the table: the same table and
// selection always produce the same figure, apart from the palette draw
// made for per-column charts.
package charts

import (
	"encoding/json"
	"math"
)

// Kind identifies one of the three chart variants
type Kind string

const (
	KindOverlay   Kind = "overlay"
	KindSubplots  Kind = "subplots"
	KindPerColumn Kind = "per-column"
)

// Axis titles shared by the variants
const (
	SamplesTitle = "Samples"
	ValuesTitle  = "Value counts"
)

// Values is a numeric sequence that encodes NaN as JSON null
type Values []float64

// MarshalJSON implements json.Marshaler
func (v Values) MarshalJSON() ([]byte, error) {
	out := make([]*float64, len(v))
	for i := range v {
		if finite(v[i]) {
			out[i] = &v[i]
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Values) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Values, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *p
	}
	*v = out
	return nil
}

// Series is one line trace
type Series struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	X     Values `json:"x"`
	Y     Values `json:"y"`
}

// Panel is one row of a subplot grid
type Panel struct {
	Title  string   `json:"title"`
	YTitle string   `json:"y_title"`
	Series []Series `json:"series"`
}

// Legend placement. Orientation is "h" or "v".
type Legend struct {
	Show        bool   `json:"show"`
	Orientation string `json:"orientation,omitempty"`
	Position    string `json:"position,omitempty"`
}

// Style holds the colors and axis decorations of a figure
type Style struct {
	Background    string `json:"background"`
	GridColor     string `json:"grid_color"`
	ZeroLineColor string `json:"zero_line_color"`
	AxisLineColor string `json:"axis_line_color,omitempty"`
	SpikeColor    string `json:"spike_color,omitempty"`
}

// Figure is the render model of one chart
type Figure struct {
	Kind    Kind     `json:"kind"`
	Title   string   `json:"title,omitempty"`
	XTitle  string   `json:"x_title,omitempty"`
	YTitle  string   `json:"y_title,omitempty"`
	Legend  Legend   `json:"legend"`
	Grid    bool     `json:"grid"`
	Spikes  bool     `json:"spikes"`
	SharedX bool     `json:"shared_x"`
	Style   Style    `json:"style"`
	Series  []Series `json:"series,omitempty"`
	Rows    []Panel  `json:"rows,omitempty"`
}

// SeriesCount returns the number of traces in the figure, across panels
func (f *Figure) SeriesCount() int {
	n := len(f.Series)
	for _, p := range f.Rows {
		n += len(p.Series)
	}
	return n
}

// Empty reports whether the figure has nothing to draw
func (f *Figure) Empty() bool {
	return f.SeriesCount() == 0
}
