package gradestats

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dotkom/gradestats/internal/types"
)

var (
	ErrNotLoaded          = errors.New("grade statistics not loaded")
	ErrSemesterOutOfRange = errors.New("semester index out of range")
	ErrNoSemesters        = errors.New("no semesters in grades payload")
)

// State is the lifecycle of a view.
type State int

const (
	Unloaded State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unloaded"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "loaded":
		*s = Loaded
	case "unloaded":
		*s = Unloaded
	default:
		return fmt.Errorf("unknown view state %q", string(text))
	}
	return nil
}

// Loader fetches the grade statistics of a course.
type Loader interface {
	LoadGrades(ctx context.Context, course string) (*types.GradesResponse, error)
}

// LoadResult is the outcome of the single load step: either the records or
// the reason they could not be had.
type LoadResult struct {
	Records []types.SemesterGradeRecord
	Err     error
}

// Fetch runs the load step for a course and never panics on a bad payload.
func Fetch(ctx context.Context, loader Loader, course string) LoadResult {
	resp, err := loader.LoadGrades(ctx, course)
	if err != nil {
		return LoadResult{Err: fmt.Errorf("failed to load grades for %s: %w", course, err)}
	}
	if resp == nil || len(resp.Grades) == 0 {
		return LoadResult{Err: fmt.Errorf("failed to load grades for %s: %w", course, ErrNoSemesters)}
	}
	return LoadResult{Records: resp.Grades}
}

// View is the grade statistics view of one course. It owns the chart and the
// active semester; every rendering is derived from its snapshot.
type View struct {
	mu      sync.Mutex
	course  string
	loader  Loader
	state   State
	records []types.SemesterGradeRecord
	active  int
	chart   Chart
}

// NewView creates an unloaded view for a course.
func NewView(course string, loader Loader) *View {
	return &View{
		course: course,
		loader: loader,
	}
}

// Load fetches the records once. A loaded view is left untouched; a failed
// load leaves the view unloaded and returns the reason.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == Loaded {
		return nil
	}

	return v.apply(Fetch(ctx, v.loader, v.course))
}

// Apply moves an unloaded view to loaded from an already fetched result.
func (v *View) Apply(result LoadResult) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == Loaded {
		return nil
	}
	return v.apply(result)
}

func (v *View) apply(result LoadResult) error {
	if result.Err != nil {
		return result.Err
	}
	if len(result.Records) == 0 {
		return ErrNoSemesters
	}

	v.records = append([]types.SemesterGradeRecord(nil), result.Records...)
	v.active = 0
	v.chart = BuildChart(v.records[0])
	v.state = Loaded
	return nil
}

// Select makes the semester at index i the displayed one.
func (v *View) Select(i int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != Loaded {
		return ErrNotLoaded
	}
	if i < 0 || i >= len(v.records) {
		return fmt.Errorf("%w: %d of %d", ErrSemesterOutOfRange, i, len(v.records))
	}

	v.active = i
	v.chart.Replace(v.records[i])
	return nil
}

// State reports whether the view has been loaded.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Records returns a copy of the loaded records.
func (v *View) Records() []types.SemesterGradeRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]types.SemesterGradeRecord(nil), v.records...)
}

// Snapshot is everything a page needs to draw the view.
type Snapshot struct {
	Course        string                     `json:"course"`
	State         State                      `json:"state"`
	Active        int                        `json:"active"`
	Semester      string                     `json:"semester,omitempty"`
	AverageLabel  string                     `json:"average_grade,omitempty"`
	Attendees     int                        `json:"attendees"`
	CourseAverage string                     `json:"course_average,omitempty"`
	Chart         Chart                      `json:"chart"`
	Buttons       [][]Button                 `json:"buttons"`
	Record        *types.SemesterGradeRecord `json:"record,omitempty"`
}

// Snapshot copies the current view state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		Course: v.course,
		State:  v.state,
		Active: v.active,
	}
	if v.state != Loaded {
		return snap
	}

	record := v.records[v.active]
	snap.Semester = record.SemesterCode
	snap.AverageLabel = FormatAverage(record.AverageGrade)
	snap.Attendees = Attendees(record)
	snap.CourseAverage = FormatAverage(CourseAverage(v.records))
	snap.Chart = Chart{
		Mode:        v.chart.Mode,
		Ticks:       append([]string(nil), v.chart.Ticks...),
		Colors:      append([]string(nil), v.chart.Colors...),
		Series:      append([]int(nil), v.chart.Series...),
		PointLabels: append([]string(nil), v.chart.PointLabels...),
	}
	snap.Buttons = BuildButtons(v.records, v.active)
	snap.Record = &record

	return snap
}
