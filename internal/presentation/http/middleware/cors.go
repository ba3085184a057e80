package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/orderdesk-api/internal/config"
)

var (
	devOrigins     = []string{"http://localhost:3000", "http://localhost:3001", "http://127.0.0.1:3000"}
	defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin"}

	// the API depends on these whatever the configuration says
	requiredHeaders = []string{RequestIDHeader, IdempotencyKeyHeader}
	exposedHeaders  = []string{
		"Content-Length", "Content-Type", "Content-Disposition",
		RequestIDHeader, "X-Total-Count", "X-Idempotency-Replayed", "Retry-After",
	}
)

// CORSMiddleware builds the CORS policy, falling back to local dev origins
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, devOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders:     withRequired(orDefault(cfg.AllowedHeaders, defaultHeaders)),
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func orDefault(values, def []string) []string {
	if len(values) == 0 {
		return def
	}
	return values
}

func withRequired(headers []string) []string {
	out := slices.Clone(headers)
	for _, h := range requiredHeaders {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}
