package handlers

import (
	"net/http"

	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateRoster checks a grid against the month and the code catalog.
// The grid comes from the request body when one is posted, otherwise from storage.
func (h *Handler) ValidateRoster(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}

	var body struct {
		Grid models.Grid `json:"grid"`
	}
	grid := models.Grid(nil)
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"valid": false,
				"error": err.Error(),
			})
			return
		}
		grid = body.Grid
	}
	if grid == nil {
		stored, err := h.Grids.LoadGrid(c.Request.Context(), facilityID(c), month)
		if err != nil {
			h.rosterError(c, err)
			return
		}
		grid = stored
	}

	issues, err := h.Engine.ValidateGrid(grid, month)
	if err != nil {
		h.rosterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":  len(issues) == 0,
		"issues": issues,
		"stats": gin.H{
			"staff_count": len(grid),
			"cell_count":  cellCount(grid),
		},
	})
}
