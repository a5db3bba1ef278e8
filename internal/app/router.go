package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tourbook/internal/auth"
	"tourbook/internal/domain"
	"tourbook/internal/handler"
	"tourbook/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler *handler.BookingHandler
	DriverHandler  *handler.DriverHandler
	AdminHandler   *handler.AdminHandler
	Tokens         *auth.TokenManager
	Users          middleware.UserLookup
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	CORSOrigins    []string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware(deps.CORSOrigins))

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.NewRelicAttributes())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.GET("/vehicle-categories", deps.BookingHandler.Categories)

	// Everything below needs a token. Idempotency keys are scoped per user,
	// so replay runs after authentication.
	authed := v1.Group("")
	authed.Use(middleware.Authenticate(deps.Tokens, deps.Users))
	authed.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	{
		authed.POST("/quotes", deps.BookingHandler.Quote)

		bookings := authed.Group("/bookings", middleware.RequireRole(domain.RoleTourist))
		{
			bookings.POST("", deps.BookingHandler.Create)
			bookings.GET("/mine", deps.BookingHandler.ListMine)
		}

		driver := authed.Group("/driver", middleware.RequireRole(domain.RoleDriver))
		{
			driver.POST("/vehicles", deps.DriverHandler.AddVehicle)
			driver.GET("/vehicles", deps.DriverHandler.ListVehicles)
			driver.GET("/bookings", deps.DriverHandler.MyBookings)
			driver.GET("/bookings/available", deps.DriverHandler.AvailableBookings)
			driver.POST("/bookings/:id/accept", deps.DriverHandler.AcceptBooking)
		}

		admin := authed.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/stats", deps.AdminHandler.Stats)
			admin.GET("/users", deps.AdminHandler.ListUsers)
			admin.PUT("/users/:id/toggle-status", deps.AdminHandler.ToggleUserStatus)
			admin.GET("/drivers", deps.AdminHandler.ListDrivers)
			admin.PUT("/drivers/:id/status", deps.AdminHandler.UpdateDriverStatus)
			admin.GET("/bookings", deps.AdminHandler.ListBookings)
			admin.GET("/logs", deps.AdminHandler.Logs)
		}
	}

	return router
}
