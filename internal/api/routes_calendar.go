package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func registerCalendarRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewCalendarHandler(d.calendar)

	events := api.Group("/workspaces/:workspaceID/events")
	{
		events.POST("",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionEventCreate), h.Create)
		events.GET("", h.List)
		events.PATCH("/:eventID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionEventUpdate), h.Update)
		events.DELETE("/:eventID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionEventDelete), h.Delete)
	}
}
