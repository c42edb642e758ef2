package charts

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Plotly is the Plotly qualitative palette, in trace order
var Plotly = []string{
	"#636EFA",
	"#EF553B",
	"#00CC96",
	"#AB63FA",
	"#FFA15A",
	"#19D3F3",
	"#FF6692",
	"#B6E880",
	"#FF97FF",
	"#FECB52",
}

const (
	overlayBackground = "#FFFFFB"
	plainBackground   = "#FFFFFF"
	gridColor         = "#FFB6C1" // LightPink
	zeroLineColor     = "#000000"
	axisLineColor     = "#BCCCDC"
	spikeColor        = "#999999"
)

// colorOf converts a "#RRGGBB" string to a drawing color. Unparseable
// input falls back to black.
func colorOf(hex string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 && len(hex) != 3 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}
