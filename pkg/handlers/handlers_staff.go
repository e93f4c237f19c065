package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/carefacility/roster-api-go/pkg/export"
	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/carefacility/roster-api-go/pkg/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) staffError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrStaffNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("staff operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Staff operation failed"})
	}
}

// ListStaff returns the facility's staff; ?status= limits the list to one status
func (h *Handler) ListStaff(c *gin.Context) {
	var staff []models.StaffMember
	var err error
	if status := c.Query("status"); status != "" {
		staff, err = h.Staff.ListStaffByStatus(c.Request.Context(), facilityID(c), status)
	} else {
		staff, err = h.Staff.ListStaff(c.Request.Context(), facilityID(c), false)
	}
	if err != nil {
		h.staffError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// UpsertStaff creates or updates one staff member
func (h *Handler) UpsertStaff(c *gin.Context) {
	var req models.StaffMember
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	member, err := h.Staff.UpsertStaff(c.Request.Context(), facilityID(c), req)
	if err != nil {
		h.staffError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// UpdateStaffStatus changes a member's employment status
func (h *Handler) UpdateStaffStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Staff.UpdateStatus(c.Request.Context(), facilityID(c), c.Param("id"), req.Status); err != nil {
		h.staffError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// ImportStaffCSV upserts staff from a CSV upload with columns id,name,position,status
func (h *Handler) ImportStaffCSV(c *gin.Context) {
	staffFile, _ := c.FormFile("staff_file")
	if staffFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff_file is required"})
		return
	}

	f, err := staffFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open staff file"})
		return
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read staff header"})
		return
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["name"]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff file needs a name column"})
		return
	}
	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	imported := 0
	var skipped []string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		member := models.StaffMember{
			ID:       field(record, "id"),
			Name:     field(record, "name"),
			Position: field(record, "position"),
			Status:   field(record, "status"),
		}
		if member.Name == "" {
			skipped = append(skipped, fmt.Sprintf("line %d: name is empty", line))
			continue
		}
		if _, err := h.Staff.UpsertStaff(c.Request.Context(), facilityID(c), member); err != nil {
			if errors.Is(err, store.ErrInvalidStatus) {
				skipped = append(skipped, fmt.Sprintf("line %d: %v", line, err))
				continue
			}
			h.staffError(c, err)
			return
		}
		imported++
	}

	h.RecordUsage(c, imported, 0)
	c.JSON(http.StatusOK, gin.H{"imported": imported, "skipped": skipped})
}

// ExportRoster downloads the month as CSV for active staff
func (h *Handler) ExportRoster(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	staff, err := h.Staff.ListStaff(c.Request.Context(), facilityID(c), true)
	if err != nil {
		h.staffError(c, err)
		return
	}
	grid, err := h.Grids.LoadGrid(c.Request.Context(), facilityID(c), month)
	if err != nil {
		h.rosterError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRosterCSV(&buf, h.Engine, staff, grid, month); err != nil {
		h.rosterError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(month)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
