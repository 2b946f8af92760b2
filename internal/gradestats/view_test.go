package gradestats

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dotkom/gradestats/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	resp  *types.GradesResponse
	err   error
	calls int
}

func (s *stubLoader) LoadGrades(ctx context.Context, course string) (*types.GradesResponse, error) {
	s.calls++
	return s.resp, s.err
}

func scenario() *types.GradesResponse {
	return &types.GradesResponse{Grades: []types.SemesterGradeRecord{
		{SemesterCode: "2014V", AverageGrade: 3.857, Passed: 0, A: 1, B: 2, C: 3, D: 1, E: 1, F: 0},
	}}
}

func TestViewLoad(t *testing.T) {
	t.Run("Success: first semester rendered", func(t *testing.T) {
		loader := &stubLoader{resp: scenario()}
		view := NewView("TDT4100", loader)

		require.NoError(t, view.Load(context.Background()))

		snap := view.Snapshot()
		assert.Equal(t, Loaded, snap.State)
		assert.Equal(t, []int{1, 2, 3, 1, 1, 0}, snap.Chart.Series)
		assert.Equal(t, "3.86", snap.AverageLabel)
		require.Len(t, snap.Buttons, 1)
		require.Len(t, snap.Buttons[0], 1)
		assert.Equal(t, "2014V", snap.Buttons[0][0].Label)
		assert.True(t, snap.Buttons[0][0].Active)
	})

	t.Run("Success: load happens once", func(t *testing.T) {
		loader := &stubLoader{resp: scenario()}
		view := NewView("TDT4100", loader)

		require.NoError(t, view.Load(context.Background()))
		require.NoError(t, view.Load(context.Background()))

		assert.Equal(t, 1, loader.calls)
	})

	t.Run("Error: loader failure keeps view unloaded", func(t *testing.T) {
		boom := errors.New("connection refused")
		view := NewView("TDT4100", &stubLoader{err: boom})

		err := view.Load(context.Background())

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, Unloaded, view.State())
		assert.Empty(t, view.Snapshot().Buttons)
	})

	t.Run("Error: empty payload", func(t *testing.T) {
		view := NewView("TDT4100", &stubLoader{resp: &types.GradesResponse{}})

		assert.ErrorIs(t, view.Load(context.Background()), ErrNoSemesters)
		assert.Equal(t, Unloaded, view.State())
	})

	t.Run("Success: retry after failure", func(t *testing.T) {
		loader := &stubLoader{err: errors.New("timeout")}
		view := NewView("TDT4100", loader)
		require.Error(t, view.Load(context.Background()))

		loader.err = nil
		loader.resp = scenario()

		require.NoError(t, view.Load(context.Background()))
		assert.Equal(t, Loaded, view.State())
	})
}

func TestViewSelect(t *testing.T) {
	resp := &types.GradesResponse{Grades: []types.SemesterGradeRecord{
		{SemesterCode: "2014V", AverageGrade: 3.857, A: 1, B: 2, C: 3, D: 1, E: 1},
		{SemesterCode: "2014H", AverageGrade: 2.5, A: 4, F: 9},
		{SemesterCode: "2015V", Passed: 20, F: 2},
		{SemesterCode: "2015H", AverageGrade: 1.111, E: 6},
		{SemesterCode: "2016V", AverageGrade: 4.999, A: 10},
	}}

	t.Run("Error: select before load", func(t *testing.T) {
		view := NewView("TDT4100", &stubLoader{resp: resp})
		assert.ErrorIs(t, view.Select(0), ErrNotLoaded)
	})

	view := NewView("TDT4100", &stubLoader{resp: resp})
	require.NoError(t, view.Load(context.Background()))

	t.Run("Success: each click shows only that semester", func(t *testing.T) {
		for i, record := range resp.Grades {
			require.NoError(t, view.Select(i))

			snap := view.Snapshot()
			assert.Equal(t, i, snap.Active)
			assert.Equal(t, SeriesOf(record), snap.Chart.Series)
			assert.Equal(t, FormatAverage(record.AverageGrade), snap.AverageLabel)
			assert.Len(t, snap.Chart.Ticks, len(snap.Chart.Series))

			active := 0
			for _, group := range snap.Buttons {
				for _, b := range group {
					if b.Active {
						active++
						assert.Equal(t, i, b.Index)
					}
				}
			}
			assert.Equal(t, 1, active)
		}
	})

	t.Run("Success: pass fail semester", func(t *testing.T) {
		require.NoError(t, view.Select(2))

		snap := view.Snapshot()
		assert.Equal(t, []string{"Bestått", "Ikke bestått"}, snap.Chart.Ticks)
		assert.Equal(t, []int{20, 2}, snap.Chart.Series)
	})

	t.Run("Error: out of range keeps selection", func(t *testing.T) {
		require.NoError(t, view.Select(1))

		assert.ErrorIs(t, view.Select(5), ErrSemesterOutOfRange)
		assert.ErrorIs(t, view.Select(-1), ErrSemesterOutOfRange)
		assert.Equal(t, 1, view.Snapshot().Active)
	})

	t.Run("Success: two groups for five semesters", func(t *testing.T) {
		snap := view.Snapshot()
		require.Len(t, snap.Buttons, 2)
		assert.Len(t, snap.Buttons[0], 4)
		assert.Len(t, snap.Buttons[1], 1)
	})
}

func TestViewSnapshotIsCopy(t *testing.T) {
	view := NewView("TDT4100", &stubLoader{resp: scenario()})
	require.NoError(t, view.Load(context.Background()))

	snap := view.Snapshot()
	snap.Chart.Series[0] = 99

	assert.Equal(t, 1, view.Snapshot().Chart.Series[0])
}

func TestApply(t *testing.T) {
	view := NewView("TDT4100", nil)

	require.NoError(t, view.Apply(LoadResult{Records: scenario().Grades}))
	assert.NoError(t, view.Apply(LoadResult{Err: errors.New("ignored once loaded")}))
	assert.Equal(t, Loaded, view.State())
}

func TestRenderPNG(t *testing.T) {
	t.Run("Success: six categories", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderPNG(&buf, BuildChart(scenario().Grades[0])))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
	})

	t.Run("Success: all zero semester", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderPNG(&buf, BuildChart(types.SemesterGradeRecord{})))
		assert.NotZero(t, buf.Len())
	})

	t.Run("Error: empty chart", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, RenderPNG(&buf, Chart{}), ErrEmptyChart)
	})
}
