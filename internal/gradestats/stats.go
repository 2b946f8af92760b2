package gradestats

import "github.com/dotkom/gradestats/internal/types"

// Attendees counts the candidates behind a record.
func Attendees(record types.SemesterGradeRecord) int {
	if ModeOf(record) == types.ModePassFail {
		return record.Passed + record.F
	}
	return record.A + record.B + record.C + record.D + record.E + record.F
}

// CourseAverage is the attendee-weighted mean of the semester averages.
// Pass/fail semesters carry no letter average and are left out.
func CourseAverage(records []types.SemesterGradeRecord) float64 {
	var sum float64
	attendees := 0
	for _, record := range records {
		if ModeOf(record) != types.ModeSixCategory {
			continue
		}
		n := Attendees(record)
		attendees += n
		sum += record.AverageGrade * float64(n)
	}

	if attendees == 0 {
		return 0
	}
	return sum / float64(attendees)
}
