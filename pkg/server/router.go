package server

import (
	"fmt"
	"net/http"

	"github.com/carefacility/roster-api-go/internal/config"
	"github.com/carefacility/roster-api-go/internal/logging"
	"github.com/carefacility/roster-api-go/pkg/auth"
	"github.com/carefacility/roster-api-go/pkg/database"
	"github.com/carefacility/roster-api-go/pkg/handlers"
	"github.com/carefacility/roster-api-go/pkg/roster"
	"github.com/carefacility/roster-api-go/pkg/shiftcodes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const Version = "3.0.0"

// Bootstrap opens the database, loads the code catalog and builds the handler
func Bootstrap(cfg *config.Config, logger *zap.Logger) (*handlers.Handler, error) {
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	engine, err := NewEngine(cfg.Roster)
	if err != nil {
		return nil, err
	}

	a := auth.New(cfg.Auth.JWTSecret, cfg.Auth.MasterSecret)
	if err := a.EnsureAdminExists(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, logger); err != nil {
		logger.Warn("could not ensure admin user", zap.Error(err))
	}

	return handlers.New(db, engine, a, logger, cfg.Roster.AutoNightRest), nil
}

// NewEngine builds the roster engine from config, using the YAML catalog when one is set
func NewEngine(cfg config.RosterConfig) (*roster.Engine, error) {
	codes := shiftcodes.Default()
	if cfg.ShiftCodesFile != "" {
		loaded, err := shiftcodes.LoadFile(cfg.ShiftCodesFile)
		if err != nil {
			return nil, fmt.Errorf("load shift codes: %w", err)
		}
		codes = loaded
	}
	return roster.NewEngine(codes, roster.Options{StandardMonthlyHours: cfg.StandardMonthlyHours}), nil
}

// NewRouter registers every route on a fresh gin engine
func NewRouter(h *handlers.Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinLogger(logger), logging.GinRecovery(logger))

	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shift Roster API",
			"version": Version,
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.GET("/codes", h.ListCodes)
		api.GET("/usage", h.GetMyUsage)

		api.GET("/staff", h.ListStaff)
		api.POST("/staff", h.UpsertStaff)
		api.POST("/staff/csv", h.ImportStaffCSV)
		api.PUT("/staff/:id/status", h.UpdateStaffStatus)

		api.GET("/rosters/:month", h.GetRoster)
		api.DELETE("/rosters/:month", h.ClearRoster)
		api.PUT("/rosters/:month/cells", h.AssignCell)
		api.POST("/rosters/:month/generate", h.GenerateRoster)
		api.GET("/rosters/:month/summary", h.GetSummary)
		api.GET("/rosters/:month/coverage", h.GetCoverage)
		api.GET("/rosters/:month/export", h.ExportRoster)
		api.POST("/rosters/:month/validate", h.ValidateRoster)
	}

	return r
}
