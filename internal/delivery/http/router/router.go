// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"hotellee/internal/delivery/http/middleware"
	"hotellee/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	MenuHandler    *handler.MenuHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	menuHandler    *handler.MenuHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		cartHandler:    params.CartHandler,
		orderHandler:   params.OrderHandler,
		menuHandler:    params.MenuHandler,
		adminHandler:   params.AdminHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.SignUp)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/google", r.authHandler.GoogleLogin)
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate)
	}

	// Public menu browsing requires no authentication
	e.GET("/menu", r.menuHandler.ListMenu)
	e.GET("/categories", r.menuHandler.ListCategories)

	// Profile routes
	profileGroup := e.Group("/profile")
	profileGroup.Use(r.authMiddleware.Authenticate)
	{
		profileGroup.GET("", r.authHandler.GetProfile)
		profileGroup.PUT("", r.authHandler.UpdateProfile)
	}

	// Cart routes
	cartGroup := e.Group("/cart")
	cartGroup.Use(r.authMiddleware.Authenticate)
	{
		cartGroup.GET("", r.cartHandler.Get)
		cartGroup.DELETE("", r.cartHandler.Clear)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PUT("/items/:id", r.cartHandler.SetQuantity)
		cartGroup.DELETE("/items/:id", r.cartHandler.RemoveItem)
	}

	// Order routes
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.Checkout)
		orderGroup.GET("", r.orderHandler.ListMine)
		orderGroup.GET("/:id/qr", r.orderHandler.TrackingQR)
	}

	// Administrator routes require authentication and the admin role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireAdmin)
	{
		adminGroup.GET("/orders", r.adminHandler.Board)
		adminGroup.GET("/orders/stream", r.adminHandler.StreamBoard)
		adminGroup.PUT("/orders/:id/status", r.adminHandler.UpdateStatus)

		adminGroup.POST("/categories", r.adminHandler.CreateCategory)
		adminGroup.PUT("/categories/:id", r.adminHandler.UpdateCategory)
		adminGroup.DELETE("/categories/:id", r.adminHandler.DeleteCategory)

		adminGroup.POST("/menu", r.adminHandler.CreateMenuItem)
		adminGroup.PUT("/menu/:id", r.adminHandler.UpdateMenuItem)
		adminGroup.DELETE("/menu/:id", r.adminHandler.DeleteMenuItem)
		adminGroup.POST("/menu/:id/image", r.adminHandler.UploadImage)
	}
}
