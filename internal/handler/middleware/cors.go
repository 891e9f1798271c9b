package middleware

import (
	"slices"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the cors handler from config. An origin of "*" allows any origin.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if slices.Contains(cfg.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = cfg.AllowedMethods
	corsConfig.AllowHeaders = cfg.AllowedHeaders
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	corsConfig.MaxAge = cfg.MaxAge
	return cors.New(corsConfig)
}
