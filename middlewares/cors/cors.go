package cors

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/config"
)

// CorsMiddleware allows the site front-end origins. ALLOWED_ORIGINS is a
// comma-separated list; defaults cover local development and production.
func CorsMiddleware() gin.HandlerFunc {
	origins := strings.Split(
		config.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000,https://riaddisiena.com"),
		",",
	)
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
