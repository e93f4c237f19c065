package handler

import (
	"net/http"

	"github.com/carefacility/roster-api-go/internal/config"
	"github.com/carefacility/roster-api-go/pkg/server"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	gin.SetMode(gin.ReleaseMode)
	h, err := server.Bootstrap(cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	r = server.NewRouter(h, logger)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
