package roster

import (
	"testing"

	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Overtime(t *testing.T) {
	e := newTestEngine()
	row := map[int]string{}
	for d := 1; d <= 22; d++ {
		row[d] = "S"
	}
	row[23] = "N"
	row[24] = "N"
	row[25] = "휴"
	grid := models.Grid{"s1": row}

	sum := e.Summarize(grid, "s1")
	assert.Equal(t, 24, sum.WorkDays)
	assert.Equal(t, 222.0, sum.TotalHours)
	assert.Equal(t, 2, sum.NightCount)
	assert.Equal(t, 22, sum.DayCount)
	assert.Equal(t, 0, sum.AfternoonCount)
	assert.Equal(t, 13.0, sum.OvertimeHours)

	// unchanged grid, same result
	assert.Equal(t, sum, e.Summarize(grid, "s1"))
}

func TestSummarize_NoNegativeOvertime(t *testing.T) {
	e := newTestEngine()
	grid := models.Grid{"s1": {1: "D", 2: "A", 3: "연", 4: "교", 5: "??"}}

	sum := e.Summarize(grid, "s1")
	assert.Equal(t, 3, sum.WorkDays)
	assert.Equal(t, 25.0, sum.TotalHours)
	assert.Equal(t, 1, sum.DayCount)
	assert.Equal(t, 1, sum.AfternoonCount)
	assert.Equal(t, 0.0, sum.OvertimeHours)
}

func TestSummarize_CustomStandard(t *testing.T) {
	e := NewEngine(newTestEngine().Codes, Options{StandardMonthlyHours: 20})
	grid := models.Grid{"s1": {1: "N", 2: "N"}}
	assert.Equal(t, 4.0, e.Summarize(grid, "s1").OvertimeHours)
}

func TestSummarizeAll_InputOrder(t *testing.T) {
	e := newTestEngine()
	staff := []models.StaffMember{{ID: "b"}, {ID: "a"}}
	grid := models.Grid{"a": {1: "S"}, "b": {1: "N"}}

	out := e.SummarizeAll(grid, staff)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].StaffID)
	assert.Equal(t, 12.0, out[0].TotalHours)
	assert.Equal(t, "a", out[1].StaffID)
}

func TestFairnessScore(t *testing.T) {
	assert.Equal(t, 100.0, FairnessScore(nil))
	assert.Equal(t, 100.0, FairnessScore([]models.StaffSummary{{TotalHours: 0}, {TotalHours: 0}}))
	assert.Equal(t, 100.0, FairnessScore([]models.StaffSummary{{TotalHours: 40}, {TotalHours: 40}}))
	// mean 20, sd 20
	assert.Equal(t, 0.0, FairnessScore([]models.StaffSummary{{TotalHours: 40}, {TotalHours: 0}}))
	// mean 40, sd 10
	assert.InDelta(t, 75.0, FairnessScore([]models.StaffSummary{{TotalHours: 50}, {TotalHours: 30}}), 1e-9)
}

func TestCoverage(t *testing.T) {
	e := newTestEngine()
	staff := []models.StaffMember{
		{ID: "cw1", Role: models.RoleRotating},
		{ID: "cw2", Role: models.RoleRotating},
		{ID: "cw3", Role: models.RoleRotating},
	}
	g, err := e.GenerateMonth(staff, jan2024)
	require.NoError(t, err)

	cov, err := e.Coverage(g, jan2024)
	require.NoError(t, err)
	require.Len(t, cov, 31)

	// offsets 0, 2, 4 land on S,휴,휴 on odd days and S,N,휴 on even days
	assert.Equal(t, 1, cov[0].Day)
	for _, c := range cov {
		assert.Equal(t, 3, c.DayShift+c.Night+c.Off, "day %d", c.Day)
		assert.Equal(t, 1, c.DayShift, "day %d", c.Day)
		if c.Day%2 == 0 {
			assert.Equal(t, 1, c.Night, "day %d", c.Day)
		} else {
			assert.Equal(t, 0, c.Night, "day %d", c.Day)
		}
	}
}

func TestValidateGrid(t *testing.T) {
	e := newTestEngine()
	grid := models.Grid{
		"b": {30: "S", 1: "S"},
		"a": {2: "XX"},
	}

	issues, err := e.ValidateGrid(grid, feb2024)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "a", issues[0].StaffID)
	assert.Equal(t, "unknown shift code", issues[0].Reason)
	assert.Equal(t, "b", issues[1].StaffID)
	assert.Equal(t, 30, issues[1].Day)

	_, err = e.ValidateGrid(grid, models.MonthKey{})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
