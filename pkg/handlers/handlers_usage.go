package handlers

import (
	"net/http"
	"sort"

	"github.com/carefacility/roster-api-go/pkg/database"
	"github.com/gin-gonic/gin"
)

const (
	usageDays     = 90
	recentRosters = 12
)

type monthUsage struct {
	Month    string `json:"month"`
	Requests int    `json:"requests"`
	Staff    int    `json:"staff"`
	Cells    int    `json:"cells"`
}

// GetMyUsage reports the facility's API activity grouped by calendar month
// next to the rosters it has saved recently
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	var daily []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(usageDays).Find(&daily).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	byMonth := make(map[string]*monthUsage)
	var totals monthUsage
	for _, u := range daily {
		// dates are YYYY-MM-DD
		key := u.Date[:7]
		m, ok := byMonth[key]
		if !ok {
			m = &monthUsage{Month: key}
			byMonth[key] = m
		}
		m.Requests += u.RequestCount
		m.Staff += u.TotalStaff
		m.Cells += u.TotalCells
		totals.Requests += u.RequestCount
		totals.Staff += u.TotalStaff
		totals.Cells += u.TotalCells
	}
	months := make([]monthUsage, 0, len(byMonth))
	for _, m := range byMonth {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month > months[j].Month })

	rosters, err := h.Grids.ListMonths(c.Request.Context(), facilityID(c), recentRosters)
	if err != nil {
		h.rosterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facility":   apiKey.Name,
		"rate_limit": apiKey.RateLimit,
		"months":     months,
		"rosters":    rosters,
		"totals": gin.H{
			"requests": totals.Requests,
			"staff":    totals.Staff,
			"cells":    totals.Cells,
		},
	})
}
