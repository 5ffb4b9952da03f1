package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func registerTaskRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewTaskHandler(d.tasks)

	tasks := api.Group("/workspaces/:workspaceID/tasks")
	{
		tasks.POST("",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionTaskCreate), h.Create)
		tasks.GET("", h.List)
		tasks.GET("/:taskID", h.Get)
		tasks.PATCH("/:taskID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionTaskUpdate), h.Update)
		tasks.DELETE("/:taskID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionTaskDelete), h.Delete)
	}
}
