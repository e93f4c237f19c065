package roster

import (
	"time"

	"github.com/carefacility/roster-api-go/pkg/models"
)

// patternFunc fills one staff member's row. position is the member's index
// among staff sharing the same role category, in input order.
type patternFunc func(e *Engine, month models.MonthKey, days, position int) map[int]string

// patterns maps each role category to its generation rule.
// fixed_day and other currently share the weekday rule.
var patterns = map[models.RoleCategory]patternFunc{
	models.RoleRotating: rotatingPattern,
	models.RoleFixedDay: weekdayPattern,
	models.RoleOther:    weekdayPattern,
}

// GenerateMonth builds a full month for every staff member passed in.
// Callers filter to active staff; existing assignments are not consulted.
func (e *Engine) GenerateMonth(staff []models.StaffMember, month models.MonthKey) (models.Grid, error) {
	days, err := DaysInMonth(month)
	if err != nil {
		return nil, err
	}

	grid := make(models.Grid, len(staff))
	positions := make(map[models.RoleCategory]int)
	for _, member := range staff {
		role := member.Role
		if role == "" {
			role = models.ResolveRole(member.Position)
		}
		fill, ok := patterns[role]
		if !ok {
			role = models.RoleOther
			fill = patterns[role]
		}
		grid[member.ID] = fill(e, month, days, positions[role])
		positions[role]++
	}
	return grid, nil
}

// RotationOffset is where a rotating member starts in the pattern.
// Staggering by stride keeps members from sharing one cycle.
func (e *Engine) RotationOffset(position int) int {
	return (position * e.Opts.RotationStride) % len(e.Opts.RotationPattern)
}

func rotatingPattern(e *Engine, month models.MonthKey, days, position int) map[int]string {
	pattern := e.Opts.RotationPattern
	offset := e.RotationOffset(position)
	row := make(map[int]string, days)
	for d := 1; d <= days; d++ {
		row[d] = pattern[(d-1+offset)%len(pattern)]
	}
	return row
}

func weekdayPattern(e *Engine, month models.MonthKey, days, _ int) map[int]string {
	row := make(map[int]string, days)
	for d := 1; d <= days; d++ {
		switch weekday(month, d) {
		case time.Saturday, time.Sunday:
			row[d] = e.Codes.RestCode()
		default:
			row[d] = e.Opts.FixedDayCode
		}
	}
	return row
}
