package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"netflix-catalog-backend/internal/shared/middleware"
	"netflix-catalog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	router.GET("/health", healthCheckHandler(c))

	setupUserRoutes(router, c)
	setupTitleRoutes(router, c)

	return router
}

func setupUserRoutes(r *gin.Engine, c *container.Container) {
	users := r.Group("/users")
	{
		users.POST("/", c.UserHandler.Register)
		users.GET("/", c.UserHandler.List)
		// "me" is matched by the :user_id wildcard and dispatched inside
		// the handler.
		users.GET("/:user_id", c.UserHandler.Get)
	}

	r.POST("/token", c.UserHandler.Token)
}

func setupTitleRoutes(r *gin.Engine, c *container.Container) {
	titles := r.Group("/netflix/titles")
	{
		titles.GET("/",
			middleware.AuthOrAPIKey(c.JWTManager, c.Config.Auth.GeneralAPIKey),
			c.TitleHandler.List)
		titles.GET("/:show_id", c.TitleHandler.Get)
		titles.POST("/", c.TitleHandler.Create)
		titles.PUT("/:show_id", c.TitleHandler.Put)
		titles.PATCH("/:show_id", c.TitleHandler.Patch)
	}
}

// healthCheckHandler reports liveness plus the state of the database and
// cache connections.
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		if err := c.DB.Ping(checkCtx); err != nil {
			dbStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			// The API keeps serving without Redis, so a dead cache does
			// not fail the check.
			cacheStatus = "unreachable"
		}

		ctx.JSON(status, gin.H{
			"status":    "up",
			"database":  dbStatus,
			"cache":     cacheStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
