package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carefacility/roster-api-go/pkg/models"
)

var (
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidDay   = errors.New("invalid day")
)

// IsLeapYear applies the Gregorian leap year rule
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the month identified by key
func DaysInMonth(key models.MonthKey) (int, error) {
	if key.Year < 1 || key.Month < 1 || key.Month > 12 {
		return 0, fmt.Errorf("%w: %d-%d", ErrInvalidMonth, key.Year, key.Month)
	}
	switch time.Month(key.Month) {
	case time.February:
		if IsLeapYear(key.Year) {
			return 29, nil
		}
		return 28, nil
	case time.April, time.June, time.September, time.November:
		return 30, nil
	default:
		return 31, nil
	}
}

// ParseMonthKey parses a YYYY-MM string
func ParseMonthKey(s string) (models.MonthKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return models.MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return models.MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return models.MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	key := models.MonthKey{Year: year, Month: month}
	if _, err := DaysInMonth(key); err != nil {
		return models.MonthKey{}, err
	}
	return key, nil
}

// weekday returns the calendar weekday of a day in the month
func weekday(key models.MonthKey, day int) time.Weekday {
	return time.Date(key.Year, time.Month(key.Month), day, 0, 0, 0, 0, time.UTC).Weekday()
}

func checkDay(key models.MonthKey, day int) (int, error) {
	n, err := DaysInMonth(key)
	if err != nil {
		return 0, err
	}
	if day < 1 || day > n {
		return 0, fmt.Errorf("%w: day %d outside 1..%d for %s", ErrInvalidDay, day, n, key)
	}
	return n, nil
}
