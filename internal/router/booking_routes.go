package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-booking/internal/config"
	"github.com/iliyamo/event-booking/internal/handler"
	"github.com/iliyamo/event-booking/internal/middleware"
	"github.com/iliyamo/event-booking/internal/model"
)

// RegisterBookings registers the booking lifecycle. Every route needs
// an authenticated user; creation additionally passes the token-bucket
// limiter so a single client cannot hammer the seat ledger.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string,
	rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	g.POST("", h.Create, middleware.NewTokenBucket(rlCfg, rdb))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Cancel)
}
