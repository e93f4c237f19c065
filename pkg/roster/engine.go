package roster

import (
	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/carefacility/roster-api-go/pkg/shiftcodes"
)

// ClearCode removes a cell when passed to AssignCell
const ClearCode = ""

// DefaultStandardMonthlyHours is the 40-hour-week monthly standard
const DefaultStandardMonthlyHours = 209.0

// Options tunes generation and aggregation
type Options struct {
	StandardMonthlyHours float64
	RotationPattern      []string
	RotationStride       int
	FixedDayCode         string
}

// DefaultOptions returns the settings used by the facility
func DefaultOptions() Options {
	return Options{
		StandardMonthlyHours: DefaultStandardMonthlyHours,
		RotationPattern:      []string{"S", "S", "휴", "N", "휴", "휴"},
		RotationStride:       2,
		FixedDayCode:         "D",
	}
}

// Engine applies roster rules to grids. It keeps no state between calls.
type Engine struct {
	Codes *shiftcodes.Registry
	Opts  Options
}

// NewEngine creates a new engine, filling unset options from DefaultOptions
func NewEngine(codes *shiftcodes.Registry, opts Options) *Engine {
	def := DefaultOptions()
	if opts.StandardMonthlyHours <= 0 {
		opts.StandardMonthlyHours = def.StandardMonthlyHours
	}
	if len(opts.RotationPattern) == 0 {
		opts.RotationPattern = def.RotationPattern
	}
	if opts.RotationStride <= 0 {
		opts.RotationStride = def.RotationStride
	}
	if opts.FixedDayCode == "" {
		opts.FixedDayCode = def.FixedDayCode
	}
	return &Engine{Codes: codes, Opts: opts}
}

// AssignCell writes one cell and returns the updated grid; the input grid is not modified.
//
// A night code with autoNightRest set also forces the following day to the
// rest code, overwriting whatever was there. Both writes land in the same
// returned grid. On the last day of the month there is no following day and
// only the night cell is written.
func (e *Engine) AssignCell(grid models.Grid, month models.MonthKey, staffID string, day int, code string, autoNightRest bool) (models.Grid, error) {
	n, err := checkDay(month, day)
	if err != nil {
		return nil, err
	}

	out := grid.Clone()
	if code == ClearCode {
		if row, ok := out[staffID]; ok {
			delete(row, day)
			if len(row) == 0 {
				delete(out, staffID)
			}
		}
		return out, nil
	}

	row, ok := out[staffID]
	if !ok {
		row = make(map[int]string)
		out[staffID] = row
	}
	row[day] = code

	if autoNightRest && code == e.Codes.NightCode() && day+1 <= n {
		row[day+1] = e.Codes.RestCode()
	}
	return out, nil
}

// ClearMonth returns an empty grid
func (e *Engine) ClearMonth(staff []models.StaffMember) models.Grid {
	return models.Grid{}
}
