package models

import (
	"fmt"
	"strings"
	"time"
)

// ShiftKind classifies a shift code for aggregation
type ShiftKind string

const (
	KindDay       ShiftKind = "day"
	KindAfternoon ShiftKind = "afternoon"
	KindNight     ShiftKind = "night"
	KindOff       ShiftKind = "off"
	KindLeave     ShiftKind = "leave"
	KindOther     ShiftKind = "other"
)

// ShiftCode is one entry of the shift code catalog
type ShiftCode struct {
	Code      string    `json:"code" yaml:"code"`
	Name      string    `json:"name" yaml:"name"`
	TimeRange string    `json:"time_range,omitempty" yaml:"time_range"`
	Hours     float64   `json:"hours" yaml:"hours"`
	Kind      ShiftKind `json:"kind" yaml:"kind"`
}

// Working reports whether the code credits any hours
func (c ShiftCode) Working() bool {
	return c.Hours > 0
}

// RoleCategory selects the generation pattern for a staff member
type RoleCategory string

const (
	RoleRotating RoleCategory = "rotating"
	RoleFixedDay RoleCategory = "fixed_day"
	RoleOther    RoleCategory = "other"
)

// roleAliases maps position titles to a role category.
// Positions not listed here fall into RoleOther.
var roleAliases = map[string]RoleCategory{
	"요양보호사":         RoleRotating,
	"care_worker":   RoleRotating,
	"caregiver":     RoleRotating,
	"rotating":      RoleRotating,
	"사회복지사":         RoleFixedDay,
	"간호사":           RoleFixedDay,
	"간호조무사":         RoleFixedDay,
	"물리치료사":         RoleFixedDay,
	"사무원":           RoleFixedDay,
	"조리원":           RoleFixedDay,
	"nurse":         RoleFixedDay,
	"social_worker": RoleFixedDay,
	"fixed_day":     RoleFixedDay,
}

// ResolveRole maps a free-text position to its role category
func ResolveRole(position string) RoleCategory {
	if role, ok := roleAliases[strings.ToLower(strings.TrimSpace(position))]; ok {
		return role
	}
	return RoleOther
}

// Staff statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusLeave    = "leave"
)

// StaffMember is a person who can appear on the roster
type StaffMember struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Position string       `json:"position"`
	Role     RoleCategory `json:"role"`
	Status   string       `json:"status"`
}

// Active reports whether the member takes part in generation and aggregation
func (s StaffMember) Active() bool {
	return s.Status == StatusActive
}

// MonthKey identifies the roster being edited
type MonthKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// String renders the key as YYYY-MM
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// Grid maps staff ID -> day of month -> shift code.
// A missing day means unassigned.
type Grid map[string]map[int]string

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for staffID, days := range g {
		row := make(map[int]string, len(days))
		for day, code := range days {
			row[day] = code
		}
		out[staffID] = row
	}
	return out
}

// StaffSummary holds the derived labor totals of one staff member
type StaffSummary struct {
	StaffID        string  `json:"staff_id"`
	WorkDays       int     `json:"work_days"`
	TotalHours     float64 `json:"total_hours"`
	NightCount     int     `json:"night_count"`
	DayCount       int     `json:"day_count"`
	AfternoonCount int     `json:"afternoon_count"`
	OvertimeHours  float64 `json:"overtime_hours"`
}

// CoverageDay counts how many staff hold each kind of shift on one day
type CoverageDay struct {
	Day       int `json:"day"`
	DayShift  int `json:"day_shift"`
	Afternoon int `json:"afternoon"`
	Night     int `json:"night"`
	Off       int `json:"off"`
	Leave     int `json:"leave"`
	Other     int `json:"other"`
}

// GridIssue describes a cell that does not fit the month or the catalog
type GridIssue struct {
	StaffID string `json:"staff_id"`
	Day     int    `json:"day"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason"`
}

// AssignCellRequest is the body of the single cell endpoint
type AssignCellRequest struct {
	StaffID       string `json:"staff_id" binding:"required"`
	Day           int    `json:"day" binding:"required"`
	Code          string `json:"code"`
	AutoNightRest *bool  `json:"auto_night_rest,omitempty"`
}

// RosterActivity describes one saved month of a facility
type RosterActivity struct {
	Month     string    `json:"month"`
	Staff     int       `json:"staff"`
	Cells     int       `json:"cells"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RosterResponse is the data structure returned for a month's grid
type RosterResponse struct {
	Month       string `json:"month"`
	DaysInMonth int    `json:"days_in_month"`
	Grid        Grid   `json:"grid"`
}

// SummaryResponse is the data structure for the summary endpoint
type SummaryResponse struct {
	Month                string         `json:"month"`
	StandardMonthlyHours float64        `json:"standard_monthly_hours"`
	FairnessScore        float64        `json:"fairness_score"`
	Summaries            []StaffSummary `json:"summaries"`
}
