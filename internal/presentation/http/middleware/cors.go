package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salepilot-api/internal/config"
)

var (
	devOrigins = []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000"}

	defaultMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID"}

	// headers the till clients read back: replay markers and rate limit state
	exposedHeaders = []string{
		"Content-Length",
		"X-Request-ID",
		"X-Idempotency-Replayed",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"Retry-After",
	}
)

// CORSMiddleware creates a CORS middleware with the provided configuration.
// Idempotency-Key is always allowed since sale, payment and return posts require it.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, devOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders:     orDefault(cfg.AllowedHeaders, defaultHeaders),
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if !slices.Contains(corsConfig.AllowHeaders, IdempotencyKeyHeader) {
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, IdempotencyKeyHeader)
	}

	return cors.New(corsConfig)
}

func orDefault(configured, fallback []string) []string {
	if len(configured) == 0 {
		return slices.Clone(fallback)
	}
	return slices.Clone(configured)
}
