package gradestats

import (
	"fmt"

	"github.com/dotkom/gradestats/internal/types"
)

// ButtonsPerGroup is how many semester buttons share one visual group.
const ButtonsPerGroup = 4

// Button is a semester selector. Index is the record's position in the payload.
type Button struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// BuildButtons creates one button per record, grouped in runs of
// ButtonsPerGroup, with only the button at active marked.
func BuildButtons(records []types.SemesterGradeRecord, active int) [][]Button {
	if len(records) == 0 {
		return nil
	}

	groups := make([][]Button, 0, (len(records)+ButtonsPerGroup-1)/ButtonsPerGroup)
	var group []Button
	for i, record := range records {
		if i%ButtonsPerGroup == 0 && i != 0 {
			groups = append(groups, group)
			group = nil
		}
		group = append(group, Button{
			Index:  i,
			Label:  record.SemesterCode,
			Active: i == active,
		})
	}
	groups = append(groups, group)

	return groups
}

// FormatAverage formats an average grade the way the label shows it.
func FormatAverage(avg float64) string {
	return fmt.Sprintf("%.2f", avg)
}
