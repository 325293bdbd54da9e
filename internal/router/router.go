// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kelompok/venuehub/internal/config"
	"github.com/kelompok/venuehub/internal/handler"
	"github.com/kelompok/venuehub/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and orchestrators probe this endpoint.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid token of
// either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout takes either a bearer token (revoke all sessions) or a
	// refresh_token body (revoke one), so it stays outside the JWT
	// middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "STUDENT"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints so
// guests can explore rooms and check availability before logging in.
// Redis-backed rate limiting and response caching wrap these routes;
// both degrade to no-ops when Redis is down.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
	g := e.Group("/v1",
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	g.GET("/rooms", p.ListRooms)
	g.GET("/rooms/:id", p.GetRoom)
	g.GET("/rooms/:id/availability", p.RoomAvailability)
}
