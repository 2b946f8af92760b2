package gradestats

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyChart is returned when there is nothing to draw.
var ErrEmptyChart = errors.New("chart has no bars")

const (
	chartWidth  = 640
	chartHeight = 320
	barWidth    = 60
)

// RenderPNG draws the chart as a PNG bar chart. Each bar takes its slot
// color and shows its value next to the category label.
func RenderPNG(w io.Writer, c Chart) error {
	if c.Len() == 0 {
		return ErrEmptyChart
	}

	maxValue := 0
	bars := make([]chart.Value, 0, c.Len())
	for i, v := range c.Series {
		if v > maxValue {
			maxValue = v
		}
		bars = append(bars, chart.Value{
			Value: float64(v),
			Label: barLabel(c, i),
			Style: barStyle(c, i),
		})
	}

	graph := chart.BarChart{
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: 2,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.Style{
			FontSize: 10,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			// zero-height ranges cannot be drawn, so an all-zero semester still gets one unit
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxValue) + 1},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func barLabel(c Chart, i int) string {
	label := ""
	if i < len(c.Ticks) {
		label = c.Ticks[i]
	}
	if i < len(c.PointLabels) {
		label = fmt.Sprintf("%s (%s)", label, c.PointLabels[i])
	}
	return label
}

func barStyle(c Chart, i int) chart.Style {
	if i >= len(c.Colors) {
		return chart.Style{}
	}
	color := drawing.ColorFromHex(strings.TrimPrefix(c.Colors[i], "#"))
	return chart.Style{
		FillColor:   color,
		StrokeColor: color,
		StrokeWidth: 1,
	}
}
