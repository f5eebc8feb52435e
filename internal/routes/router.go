package routes

import (
	"todo-app/internal/controller"
	"todo-app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Options configures the router.
type Options struct {
	JWTSecret     string
	AllowedOrigin string
}

// Router builds the HTTP surface. All /todos routes require a bearer token.
func Router(h *controller.TodoHandler, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// Health for load balancers and readiness probes
	router.GET("/health", controller.Health)
	router.GET("/ready", h.Ready)

	api := router.Group("/todos", middleware.CORS(opts.AllowedOrigin))
	// Preflight is answered by the CORS middleware.
	api.OPTIONS("", func(*gin.Context) {})
	api.OPTIONS("/:id", func(*gin.Context) {})

	// Protected: JWT required
	protected := api.Group("", middleware.AuthMiddleware(opts.JWTSecret))
	{
		protected.POST("", h.CreateTodo)
		protected.GET("", h.GetTodos)
		protected.PUT("/:id", h.UpdateTodo)
		protected.DELETE("/:id", h.DeleteTodo)
	}

	return router
}
