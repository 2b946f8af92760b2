package export

import (
	"fmt"
	"io"

	"github.com/dotkom/gradestats/internal/gradestats"
	"github.com/dotkom/gradestats/internal/types"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the distribution table.
const SheetName = "Grades"

var header = []interface{}{
	"Semester", "Display mode", "Average grade",
	"A", "B", "C", "D", "E", "F",
	"Passed", "Failed", "Attendees",
}

// WriteGrades writes the records of a course as an xlsx workbook, one row per
// semester in payload order.
func WriteGrades(w io.Writer, course string, records []types.SemesterGradeRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: course + " grade distribution"}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := recordRow(record)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s: %w", record.SemesterCode, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func recordRow(record types.SemesterGradeRecord) []interface{} {
	mode := gradestats.ModeOf(record)
	row := []interface{}{record.SemesterCode, mode.String(), record.AverageGrade}
	if mode == types.ModePassFail {
		row = append(row, "", "", "", "", "", "", record.Passed, record.F)
	} else {
		row = append(row, record.A, record.B, record.C, record.D, record.E, record.F, "", "")
	}
	return append(row, gradestats.Attendees(record))
}
