// Package api registers the directory's HTTP endpoints.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/groupdir/groupdir/internal/http/api/handlers"
	"github.com/groupdir/groupdir/internal/service"
)

// RegisterRoutes mounts the user and group endpoints on the engine.
func RegisterRoutes(r *gin.Engine, svc service.Directory) {
	if r == nil || svc == nil {
		return
	}

	userHandler := handlers.NewUserHandler(svc)
	users := r.Group("/api/userapi")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/count", userHandler.Count)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	groupHandler := handlers.NewGroupHandler(svc)
	groups := r.Group("/api/groupapi")
	groups.GET("", groupHandler.List)
	groups.GET("/:id", groupHandler.Get)
	groups.GET("/:id/usercount", groupHandler.UserCount)
}
