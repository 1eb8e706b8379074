// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"biopass/internal/delivery/http/middleware"
	"biopass/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	IdentityHandler *handler.IdentityHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	identityHandler *handler.IdentityHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		identityHandler: params.IdentityHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.identityHandler.Register)
		authGroup.POST("/register/biometric", r.identityHandler.RegisterBiometric)
		authGroup.POST("/login", r.identityHandler.Login)
		authGroup.POST("/login/biometric", r.identityHandler.LoginBiometric)
	}

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate) // Apply session token authentication middleware
	{
		userGroup.GET("/profile", r.identityHandler.GetProfile)
		userGroup.POST("/biometric", r.identityHandler.EnrollBiometric)
	}
}
