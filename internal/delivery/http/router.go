package http

import (
	"github.com/gin-gonic/gin"

	"github.com/qingping857/Blind-date-platform/internal/delivery/http/handler"
	"github.com/qingping857/Blind-date-platform/internal/delivery/http/middleware"
)

type Router struct {
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	squareHandler  *handler.SquareHandler
	contactHandler *handler.ContactHandler
	uploadHandler  *handler.UploadHandler
	authMiddleware *middleware.AuthMiddleware
	staticDir      string
	staticURL      string
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	squareHandler *handler.SquareHandler,
	contactHandler *handler.ContactHandler,
	uploadHandler *handler.UploadHandler,
	authMiddleware *middleware.AuthMiddleware,
	staticDir, staticURL string,
) *Router {
	return &Router{
		authHandler:    authHandler,
		profileHandler: profileHandler,
		squareHandler:  squareHandler,
		contactHandler: contactHandler,
		uploadHandler:  uploadHandler,
		authMiddleware: authMiddleware,
		staticDir:      staticDir,
		staticURL:      staticURL,
	}
}

func (r *Router) Setup() *gin.Engine {
	handler.RegisterValidators()

	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// Uploaded photos
	if r.staticDir != "" && r.staticURL != "" {
		router.Static(r.staticURL, r.staticDir)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/send-code", r.authHandler.SendCode)
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Profile routes
			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.PUT("/me", r.profileHandler.UpdateMyProfile)
			}

			// Square (browse) routes
			square := protected.Group("/square")
			{
				square.GET("/users", r.squareHandler.List)
				square.GET("/users/:id", r.squareHandler.Get)
			}

			// Contact request routes. :id is the target user for create and
			// status, the request id otherwise.
			requests := protected.Group("/contact-requests")
			{
				requests.GET("/incoming", r.contactHandler.Incoming)
				requests.GET("/outgoing", r.contactHandler.Outgoing)
				requests.POST("/:id", r.contactHandler.Create)
				requests.GET("/:id", r.contactHandler.Get)
				requests.PUT("/:id", r.contactHandler.Respond)
				requests.GET("/:id/status", r.contactHandler.Status)
			}

			// Upload
			protected.POST("/upload", r.uploadHandler.Upload)
		}
	}

	return router
}
