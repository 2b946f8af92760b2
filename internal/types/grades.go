package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DisplayMode selects how a semester's distribution is charted.
type DisplayMode string

const (
	// ModeUnset means the record did not say; the legacy passed==0 rule applies.
	ModeUnset       DisplayMode = ""
	ModeSixCategory DisplayMode = "six_category"
	ModePassFail    DisplayMode = "pass_fail"
)

// UnmarshalJSON accepts the mode tag case-insensitively and treats null as unset.
func (m *DisplayMode) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = ModeUnset
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("display_mode must be a string, got: %s", string(data))
	}

	*m = DisplayMode(strings.ToLower(strings.TrimSpace(str)))
	return nil
}

func (m DisplayMode) String() string {
	return string(m)
}

// SemesterGradeRecord holds one semester's aggregated grade statistics for a course.
// When Passed is used (pass/fail courses) F counts the failed candidates.
type SemesterGradeRecord struct {
	SemesterCode    string      `json:"semester_code" validate:"required"`
	SemesterDisplay string      `json:"semester_display,omitempty"`
	Year            int         `json:"year,omitempty" validate:"gte=0"`
	AverageGrade    float64     `json:"average_grade" validate:"gte=0"`
	DigitalExam     bool        `json:"digital_exam,omitempty"`
	DisplayMode     DisplayMode `json:"display_mode,omitempty" validate:"omitempty,oneof=six_category pass_fail"`
	Passed          int         `json:"passed" validate:"gte=0"`
	A               int         `json:"a" validate:"gte=0"`
	B               int         `json:"b" validate:"gte=0"`
	C               int         `json:"c" validate:"gte=0"`
	D               int         `json:"d" validate:"gte=0"`
	E               int         `json:"e" validate:"gte=0"`
	F               int         `json:"f" validate:"gte=0"`
}

// GradesResponse is the payload served by the grades endpoint, ordered for display.
type GradesResponse struct {
	Grades []SemesterGradeRecord `json:"grades" validate:"required,min=1,dive"`
}
