package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyDisplay struct {
	updates  []Snapshot
	redraws  int
	finished int
}

func (s *spyDisplay) Update(snap Snapshot) { s.updates = append(s.updates, snap) }
func (s *spyDisplay) Redraw(Snapshot)      { s.redraws++ }
func (s *spyDisplay) Finish(Snapshot)      { s.finished++ }

func TestModel_Set_NonDecreasingValues_DisplayTracksEachRequest(t *testing.T) {
	spy := &spyDisplay{}
	m := NewModel(20, 11, spy)

	steps := []struct {
		value float64
		page  int
	}{
		{1, 1}, {2, 2}, {7.5, 7}, {10, 10}, {20, 11},
	}
	for _, step := range steps {
		m.Set(step.value, step.page)
		assert.Equal(t, step.value, m.Value())
		assert.Equal(t, step.page, m.Page())
	}

	require.Len(t, spy.updates, len(steps))
	for i, step := range steps {
		assert.Equal(t, step.value, spy.updates[i].Value)
		assert.Equal(t, step.page, spy.updates[i].Page)
	}
}

func TestModel_Set_OutOfRange_LeavesStateUntouched(t *testing.T) {
	spy := &spyDisplay{}
	m := NewModel(20, 11, spy)
	m.Set(5, 3)
	require.Len(t, spy.updates, 1)

	// negative, beyond the weighted total, beyond the page total
	m.Set(-0.5, 3)
	m.Set(20.01, 3)
	m.Set(5, 12)
	m.Set(5, -1)

	assert.Equal(t, 5.0, m.Value())
	assert.Equal(t, 3, m.Page())
	assert.Len(t, spy.updates, 1, "ignored requests must not reach the display")
}

func TestModel_Set_ExactTotals_AreInRange(t *testing.T) {
	spy := &spyDisplay{}
	m := NewModel(20, 11, spy)

	m.Set(20, 11)

	assert.Equal(t, 20.0, m.Value())
	assert.Equal(t, 11, m.Page())
	require.Len(t, spy.updates, 1)
	assert.True(t, spy.updates[0].Done())
}

func TestModel_RedrawAndFinish_DelegateToDisplay(t *testing.T) {
	spy := &spyDisplay{}
	m := NewModel(10, 5, spy)
	m.Set(4, 2)

	m.Redraw()
	m.Finish()

	assert.Equal(t, 1, spy.redraws)
	assert.Equal(t, 1, spy.finished)
}

func TestModel_NilDisplay_IsSilent(t *testing.T) {
	m := NewModel(10, 5, nil)
	m.Set(4, 2)
	m.Redraw()
	m.Finish()
	assert.Equal(t, 4.0, m.Value())
}

func TestSnapshot_Elapsed_GrowsFromConstruction(t *testing.T) {
	spy := &spyDisplay{}
	m := NewModel(10, 5, spy)
	time.Sleep(5 * time.Millisecond)
	m.Set(1, 1)
	require.Len(t, spy.updates, 1)
	assert.Greater(t, spy.updates[0].Elapsed, time.Duration(0))
}
