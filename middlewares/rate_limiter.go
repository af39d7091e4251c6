package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	redisclient "github.com/riaddisiena/backend/config/redis"
	"github.com/riaddisiena/backend/logger"
)

// ParseCustomRate parses formats like "10-2m", "5-1h", "20-30s".
func ParseCustomRate(rateStr string) (limiter.Rate, error) {
	parts := strings.SplitN(rateStr, "-", 2)
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %s", rateStr)
	}

	limit, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return limiter.Rate{}, fmt.Errorf("invalid limit %q: %w", parts[0], err)
	}

	period, err := time.ParseDuration(parts[1])
	if err != nil {
		return limiter.Rate{}, fmt.Errorf("invalid period %q: %w", parts[1], err)
	}

	return limiter.Rate{Period: period, Limit: limit}, nil
}

// NewRateLimiter limits a route by client IP, e.g. "10-2m" for 10 requests
// per 2 minutes. The limiter is built once at route registration; when Redis
// is unavailable the middleware is a no-op so the site keeps working
// without it.
func NewRateLimiter(rateStr, routeID string) gin.HandlerFunc {
	passthrough := func(c *gin.Context) { c.Next() }

	rate, err := ParseCustomRate(rateStr)
	if err != nil {
		logger.ErrorLogger.Errorf("Invalid rate %q for route %s: %v", rateStr, routeID, err)
		return passthrough
	}

	rdb, err := redisclient.GetRedisClient(context.Background())
	if err != nil {
		logger.WarnLogger.Warnf("Rate limiting disabled for route %s: %v", routeID, err)
		return passthrough
	}

	store, err := redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:          fmt.Sprintf("rate_limiter:%s", routeID),
		MaxRetry:        3,
		CleanUpInterval: rate.Period,
	})
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to create redis store for route %s: %v", routeID, err)
		return passthrough
	}

	return ginmiddleware.NewMiddleware(limiter.New(store, rate))
}
