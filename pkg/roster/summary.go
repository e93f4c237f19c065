package roster

import (
	"fmt"
	"math"
	"sort"

	"github.com/carefacility/roster-api-go/pkg/models"
)

// Summarize aggregates one staff member's row. Codes missing from the
// registry contribute nothing.
func (e *Engine) Summarize(grid models.Grid, staffID string) models.StaffSummary {
	sum := models.StaffSummary{StaffID: staffID}
	night := e.Codes.NightCode()

	for _, code := range grid[staffID] {
		sc, ok := e.Codes.Lookup(code)
		if !ok {
			continue
		}
		if sc.Working() {
			sum.WorkDays++
		}
		sum.TotalHours += sc.Hours
		if code == night {
			sum.NightCount++
		}
		if e.Codes.IsDayPattern(code) {
			sum.DayCount++
		}
		if e.Codes.IsAfternoon(code) {
			sum.AfternoonCount++
		}
	}

	sum.OvertimeHours = math.Max(0, sum.TotalHours-e.Opts.StandardMonthlyHours)
	return sum
}

// SummarizeAll summarizes every staff member in input order
func (e *Engine) SummarizeAll(grid models.Grid, staff []models.StaffMember) []models.StaffSummary {
	out := make([]models.StaffSummary, 0, len(staff))
	for _, m := range staff {
		out = append(out, e.Summarize(grid, m.ID))
	}
	return out
}

// FairnessScore rates how evenly hours are spread over the summarized staff,
// from 0 to 100. It is 100 minus the coefficient of variation of total hours
// as a percentage, floored at 0. No staff or no hours scores 100.
func FairnessScore(summaries []models.StaffSummary) float64 {
	n := float64(len(summaries))
	var total float64
	for _, s := range summaries {
		total += s.TotalHours
	}
	if n == 0 || total == 0 {
		return 100
	}

	mean := total / n
	var sq float64
	for _, s := range summaries {
		d := s.TotalHours - mean
		sq += d * d
	}
	cv := math.Sqrt(sq/n) / mean
	return math.Max(0, 100*(1-cv))
}

// Coverage counts, for each day of the month, how many staff hold each kind of shift
func (e *Engine) Coverage(grid models.Grid, month models.MonthKey) ([]models.CoverageDay, error) {
	days, err := DaysInMonth(month)
	if err != nil {
		return nil, err
	}

	out := make([]models.CoverageDay, days)
	for i := range out {
		out[i].Day = i + 1
	}
	for _, row := range grid {
		for day, code := range row {
			if day < 1 || day > days {
				continue
			}
			sc, ok := e.Codes.Lookup(code)
			if !ok {
				continue
			}
			c := &out[day-1]
			switch sc.Kind {
			case models.KindDay:
				c.DayShift++
			case models.KindAfternoon:
				c.Afternoon++
			case models.KindNight:
				c.Night++
			case models.KindOff:
				c.Off++
			case models.KindLeave:
				c.Leave++
			default:
				c.Other++
			}
		}
	}
	return out, nil
}

// ValidateGrid lists cells outside the month or holding codes missing from the registry.
// Issues are ordered by staff ID then day.
func (e *Engine) ValidateGrid(grid models.Grid, month models.MonthKey) ([]models.GridIssue, error) {
	days, err := DaysInMonth(month)
	if err != nil {
		return nil, err
	}

	issues := []models.GridIssue{}
	for staffID, row := range grid {
		for day, code := range row {
			if day < 1 || day > days {
				issues = append(issues, models.GridIssue{
					StaffID: staffID,
					Day:     day,
					Code:    code,
					Reason:  fmt.Sprintf("day outside 1..%d", days),
				})
				continue
			}
			if _, ok := e.Codes.Lookup(code); !ok {
				issues = append(issues, models.GridIssue{
					StaffID: staffID,
					Day:     day,
					Code:    code,
					Reason:  "unknown shift code",
				})
			}
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].StaffID != issues[j].StaffID {
			return issues[i].StaffID < issues[j].StaffID
		}
		return issues[i].Day < issues[j].Day
	})
	return issues, nil
}
