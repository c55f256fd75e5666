// Package server exposes the dither pipeline over HTTP.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bitmapkit/ditherd/internal/config"
)

// NewRouter builds the gin router with CORS, request IDs, and rate
// limiting, mirroring the service's environment configuration:
// DITHERD_RATE_LIMIT (requests/second) and DITHERD_RATE_BURST.
func NewRouter() *gin.Engine {
	if mode := config.Get("GIN_MODE", ""); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	perSecond := float64(config.GetInt("DITHERD_RATE_LIMIT", 5))
	burst := config.GetInt("DITHERD_RATE_BURST", 10)
	limiter := NewRateLimiter(perSecond, burst)

	api := router.Group("/api/v1")
	{
		api.GET("/healthz", HealthHandler)
		api.GET("/palettes", PalettesHandler)
		api.POST("/dither", limiter.Middleware(), DitherHandler)
	}

	return router
}
