package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func registerWorkspaceRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewWorkspaceHandler(d.workspaces)

	api.POST("/workspaces", h.Create)
	api.GET("/workspaces", h.List)

	ws := api.Group("/workspaces/:workspaceID")
	{
		ws.GET("", h.Get)
		ws.PATCH("",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionWorkspaceUpdate), h.Update)
		ws.DELETE("",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionWorkspaceDelete), h.Delete)

		ws.GET("/members", h.ListMembers)
		ws.DELETE("/members/:userID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionWorkspaceRemove), h.RemoveMember)
		ws.PATCH("/members/:userID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionWorkspaceUpdateRole), h.UpdateMemberRole)
	}
}
