package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/enigma-dining/reservation-backend/internal/config"
	"github.com/enigma-dining/reservation-backend/internal/handler"
	"github.com/enigma-dining/reservation-backend/internal/middleware"
)

// RegisterPublic registers the unauthenticated booking endpoints. The
// availability query sits behind the Redis response cache; the tokenized
// self-service routes sit behind the token-bucket rate limiter so the
// token namespace cannot be probed at speed. Both middlewares degrade to
// pass-through when Redis is unavailable.
func RegisterPublic(e *echo.Echo, avail *handler.AvailabilityHandler, pub *handler.PublicReservationHandler, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	limit := middleware.NewTokenBucket(rlCfg, rdb)

	e.GET("/v1/availability", avail.Get, limit, cache)

	g := e.Group("/v1/my-reservation", limit)
	g.GET("", pub.Get)
	g.PATCH("", pub.Update)
	g.POST("/cancel", pub.Cancel)
}
