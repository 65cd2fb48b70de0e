package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storerating-backend/config"
	"github.com/ikkim/storerating-backend/internal/app/controller"
	"github.com/ikkim/storerating-backend/internal/app/model"
	"github.com/ikkim/storerating-backend/internal/errors"
	"github.com/ikkim/storerating-backend/internal/metrics"
	"github.com/ikkim/storerating-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	adminController      *controller.AdminController
	storeOwnerController *controller.StoreOwnerController
	userController       *controller.UserController
	authMiddleware       *middleware.AuthMiddleware
	rateLimiter          *middleware.RateLimiter
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	adminController *controller.AdminController,
	storeOwnerController *controller.StoreOwnerController,
	userController *controller.UserController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		adminController:      adminController,
		storeOwnerController: storeOwnerController,
		userController:       userController,
		authMiddleware:       authMiddleware,
		rateLimiter:          rateLimiter,
		config:               cfg,
	}
}

// RoleArea maps each role to the route group reserved for it.
func RoleArea(role model.UserRole) (string, error) {
	switch role {
	case model.RoleAdmin:
		return "/admin", nil
	case model.RoleStoreOwner:
		return "/store-owner", nil
	case model.RoleUser:
		return "/user", nil
	default:
		return "", fmt.Errorf("no route area for role %q", role)
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.Recovery())
	router.Use(metrics.Middleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		errors.NotFound(c, errors.ResourceNotFound, "Route not found")
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Server is running!",
			})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", r.rateLimiter.Handler(), r.authController.Register)
			auth.POST("/login", r.rateLimiter.Handler(), r.authController.Login)
			auth.PUT("/update-password", r.authMiddleware.Authenticate(), r.authController.UpdatePassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		for _, role := range model.Roles {
			path, err := RoleArea(role)
			if err != nil {
				panic(err)
			}
			group := api.Group(path, r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(role))
			r.registerArea(role, group)
		}
	}

	return router
}

func (r *Router) registerArea(role model.UserRole, group *gin.RouterGroup) {
	switch role {
	case model.RoleAdmin:
		group.GET("/dashboard", r.adminController.Dashboard)
		group.POST("/users", r.adminController.CreateUser)
		group.GET("/users", r.adminController.ListUsers)
		group.POST("/stores", r.adminController.CreateStore)
		group.GET("/stores", r.adminController.ListStores)
	case model.RoleStoreOwner:
		group.GET("/dashboard", r.storeOwnerController.Dashboard)
	case model.RoleUser:
		group.GET("/stores", r.userController.BrowseStores)
		group.POST("/ratings", r.userController.SubmitRating)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
