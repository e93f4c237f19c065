package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/carefacility/roster-api-go/pkg/roster"
)

// WriteRosterCSV writes one row per staff member: name, role, the code for
// every day of the month, then work days, total hours and night count.
// Totals come from Engine.Summarize.
func WriteRosterCSV(w io.Writer, e *roster.Engine, staff []models.StaffMember, grid models.Grid, month models.MonthKey) error {
	days, err := roster.DaysInMonth(month)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{"name", "role"}
	for d := 1; d <= days; d++ {
		header = append(header, strconv.Itoa(d))
	}
	header = append(header, "work_days", "total_hours", "night_count")
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, m := range staff {
		row := grid[m.ID]
		sum := e.Summarize(grid, m.ID)

		record := make([]string, 0, len(header))
		record = append(record, m.Name, m.Position)
		for d := 1; d <= days; d++ {
			record = append(record, row[d])
		}
		record = append(record,
			strconv.Itoa(sum.WorkDays),
			strconv.FormatFloat(sum.TotalHours, 'f', -1, 64),
			strconv.Itoa(sum.NightCount),
		)
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Filename is the download name for a month's roster
func Filename(month models.MonthKey) string {
	return "roster-" + month.String() + ".csv"
}
