package handlers

import (
	"errors"
	"net/http"

	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/carefacility/roster-api-go/pkg/roster"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// monthParam parses :month and writes a 400 on failure
func monthParam(c *gin.Context) (models.MonthKey, bool) {
	month, err := roster.ParseMonthKey(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.MonthKey{}, false
	}
	return month, true
}

// rosterError maps engine and store errors to responses
func (h *Handler) rosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roster.ErrInvalidMonth), errors.Is(err, roster.ErrInvalidDay):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("roster operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Roster operation failed"})
	}
}

// mutateGrid loads the month under its write lock, applies fn, saves and returns the new grid
func (h *Handler) mutateGrid(c *gin.Context, month models.MonthKey, fn func(models.Grid) (models.Grid, error)) (models.Grid, bool) {
	facility := facilityID(c)
	release, err := h.locks.acquire(c.Request.Context(), facility+"/"+month.String())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Roster is busy, try again"})
		return nil, false
	}
	defer release()

	grid, err := h.Grids.LoadGrid(c.Request.Context(), facility, month)
	if err != nil {
		h.rosterError(c, err)
		return nil, false
	}
	grid, err = fn(grid)
	if err != nil {
		h.rosterError(c, err)
		return nil, false
	}
	if err := h.Grids.SaveGrid(c.Request.Context(), facility, month, grid); err != nil {
		h.rosterError(c, err)
		return nil, false
	}
	return grid, true
}

func rosterResponse(month models.MonthKey, grid models.Grid) models.RosterResponse {
	days, _ := roster.DaysInMonth(month)
	return models.RosterResponse{Month: month.String(), DaysInMonth: days, Grid: grid}
}

func cellCount(grid models.Grid) int {
	n := 0
	for _, row := range grid {
		n += len(row)
	}
	return n
}

// ListCodes returns the shift code legend
func (h *Handler) ListCodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"codes":      h.Engine.Codes.AllCodes(),
		"night_code": h.Engine.Codes.NightCode(),
		"rest_code":  h.Engine.Codes.RestCode(),
	})
}

// GetRoster returns the stored grid for a month
func (h *Handler) GetRoster(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	grid, err := h.Grids.LoadGrid(c.Request.Context(), facilityID(c), month)
	if err != nil {
		h.rosterError(c, err)
		return
	}
	c.JSON(http.StatusOK, rosterResponse(month, grid))
}

// AssignCell sets or clears one cell, applying the night-rest rule
func (h *Handler) AssignCell(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	var req models.AssignCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	autoRest := h.AutoNightRest
	if req.AutoNightRest != nil {
		autoRest = *req.AutoNightRest
	}

	grid, ok := h.mutateGrid(c, month, func(g models.Grid) (models.Grid, error) {
		return h.Engine.AssignCell(g, month, req.StaffID, req.Day, req.Code, autoRest)
	})
	if !ok {
		return
	}

	h.Logger.Debug("cell assigned",
		zap.String("facility", facilityID(c)),
		zap.String("month", month.String()),
		zap.String("staff_id", req.StaffID),
		zap.Int("day", req.Day),
		zap.String("code", req.Code))
	h.RecordUsage(c, 1, 1)
	c.JSON(http.StatusOK, rosterResponse(month, grid))
}

// GenerateRoster overwrites the month with generated patterns for all active staff
func (h *Handler) GenerateRoster(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	staff, err := h.Staff.ListStaff(c.Request.Context(), facilityID(c), true)
	if err != nil {
		h.rosterError(c, err)
		return
	}

	grid, ok := h.mutateGrid(c, month, func(models.Grid) (models.Grid, error) {
		return h.Engine.GenerateMonth(staff, month)
	})
	if !ok {
		return
	}

	h.Logger.Info("roster generated",
		zap.String("facility", facilityID(c)),
		zap.String("month", month.String()),
		zap.Int("staff", len(staff)))
	h.RecordUsage(c, len(staff), cellCount(grid))
	c.JSON(http.StatusOK, rosterResponse(month, grid))
}

// ClearRoster empties the month
func (h *Handler) ClearRoster(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	grid, ok := h.mutateGrid(c, month, func(models.Grid) (models.Grid, error) {
		return h.Engine.ClearMonth(nil), nil
	})
	if !ok {
		return
	}

	h.Logger.Info("roster cleared", zap.String("facility", facilityID(c)), zap.String("month", month.String()))
	c.JSON(http.StatusOK, rosterResponse(month, grid))
}

// GetSummary returns per-staff totals for active staff
func (h *Handler) GetSummary(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	staff, err := h.Staff.ListStaff(c.Request.Context(), facilityID(c), true)
	if err != nil {
		h.rosterError(c, err)
		return
	}
	grid, err := h.Grids.LoadGrid(c.Request.Context(), facilityID(c), month)
	if err != nil {
		h.rosterError(c, err)
		return
	}

	summaries := h.Engine.SummarizeAll(grid, staff)
	h.RecordUsage(c, len(staff), 0)
	c.JSON(http.StatusOK, models.SummaryResponse{
		Month:                month.String(),
		StandardMonthlyHours: h.Engine.Opts.StandardMonthlyHours,
		FairnessScore:        roster.FairnessScore(summaries),
		Summaries:            summaries,
	})
}

// GetCoverage returns per-day staffing counts
func (h *Handler) GetCoverage(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	grid, err := h.Grids.LoadGrid(c.Request.Context(), facilityID(c), month)
	if err != nil {
		h.rosterError(c, err)
		return
	}
	coverage, err := h.Engine.Coverage(grid, month)
	if err != nil {
		h.rosterError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month.String(), "coverage": coverage})
}
