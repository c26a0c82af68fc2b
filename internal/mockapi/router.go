package mockapi

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

func newRouter(h *handler, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, wrapList bool) *router.Router {
	r := router.New()

	r.GET("/health", h.Health)

	// Auth routes
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)

	// Protected routes
	if wrapList {
		r.GET("/api/tasks", authMiddleware(h.ListTasksWrapped))
	} else {
		r.GET("/api/tasks", authMiddleware(h.ListTasks))
	}
	r.POST("/api/tasks", authMiddleware(h.CreateTask))
	r.PUT("/api/tasks/{id}", authMiddleware(h.UpdateTask))
	r.DELETE("/api/tasks/{id}", authMiddleware(h.DeleteTask))

	return r
}
