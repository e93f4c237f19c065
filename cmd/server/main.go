package main

import (
	"log"

	"github.com/carefacility/roster-api-go/internal/config"
	"github.com/carefacility/roster-api-go/internal/logging"
	"github.com/carefacility/roster-api-go/pkg/server"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.App.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	h, err := server.Bootstrap(cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	r := server.NewRouter(h, logger)

	logger.Info("server starting", zap.String("port", cfg.App.Port), zap.String("version", server.Version))
	if err := r.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
