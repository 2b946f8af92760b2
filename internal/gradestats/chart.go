package gradestats

import (
	"fmt"

	"github.com/dotkom/gradestats/internal/types"
)

var (
	sixCategoryTicks  = []string{"A", "B", "C", "D", "E", "F"}
	sixCategoryColors = []string{"#00CC00", "#00CC33", "#CCFF33", "#FFFF00", "#FF6600", "#CC0000"}

	passFailTicks  = []string{"Bestått", "Ikke bestått"}
	passFailColors = []string{"#00CC00", "#CC0000"}
)

// Chart is the bar chart model for one semester. Ticks, Colors, Series and
// PointLabels always have the same length.
type Chart struct {
	Mode        types.DisplayMode `json:"mode"`
	Ticks       []string          `json:"ticks"`
	Colors      []string          `json:"colors"`
	Series      []int             `json:"series"`
	PointLabels []string          `json:"point_labels"`
}

// ModeOf resolves the display mode of a record. An explicit mode on the
// record wins; otherwise passed == 0 means the six letter grades are charted.
func ModeOf(record types.SemesterGradeRecord) types.DisplayMode {
	switch record.DisplayMode {
	case types.ModeSixCategory, types.ModePassFail:
		return record.DisplayMode
	}

	if record.Passed == 0 {
		return types.ModeSixCategory
	}
	return types.ModePassFail
}

// SeriesOf returns the bar values for a record in tick order.
func SeriesOf(record types.SemesterGradeRecord) []int {
	if ModeOf(record) == types.ModePassFail {
		return []int{record.Passed, record.F}
	}
	return []int{record.A, record.B, record.C, record.D, record.E, record.F}
}

// BuildChart renders the chart model for a single semester.
func BuildChart(record types.SemesterGradeRecord) Chart {
	mode := ModeOf(record)

	chart := Chart{Mode: mode}
	if mode == types.ModePassFail {
		chart.Ticks = append([]string(nil), passFailTicks...)
		chart.Colors = append([]string(nil), passFailColors...)
	} else {
		chart.Ticks = append([]string(nil), sixCategoryTicks...)
		chart.Colors = append([]string(nil), sixCategoryColors...)
	}
	chart.setSeries(SeriesOf(record))

	return chart
}

// Replace swaps the series of the chart for the given record's values. Axes
// and colors are kept when the record has the same mode; a mode change
// rebuilds them so labels never disagree with the data.
func (c *Chart) Replace(record types.SemesterGradeRecord) {
	if ModeOf(record) != c.Mode {
		*c = BuildChart(record)
		return
	}
	c.setSeries(SeriesOf(record))
}

// Len returns the number of bars.
func (c Chart) Len() int {
	return len(c.Series)
}

func (c *Chart) setSeries(series []int) {
	c.Series = series
	c.PointLabels = make([]string, len(series))
	for i, v := range series {
		c.PointLabels[i] = fmt.Sprintf("%d", v)
	}
}
