// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"library/internal/delivery/api/middleware"
	"library/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	MemberHandler  *handler.MemberHandler
	BookHandler    *handler.BookHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	memberHandler  *handler.MemberHandler
	bookHandler    *handler.BookHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		memberHandler:  params.MemberHandler,
		bookHandler:    params.BookHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Membership routes
	e.POST("/register", r.memberHandler.Register)
	e.POST("/login", r.memberHandler.Login)

	// Catalog routes require a session token
	booksGroup := e.Group("/books")
	booksGroup.Use(r.authMiddleware.Authenticate)
	{
		booksGroup.POST("", r.bookHandler.AddBook)
		booksGroup.GET("", r.bookHandler.ListBooks)
		booksGroup.GET("/:id", r.bookHandler.GetBook)
		booksGroup.PUT("/:id", r.bookHandler.UpdateBook)
		booksGroup.DELETE("/:id", r.bookHandler.DeleteBook)
	}
}
