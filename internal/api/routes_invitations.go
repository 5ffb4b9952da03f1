package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func registerInvitationRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewInvitationHandler(d.invitations)

	ws := api.Group("/workspaces/:workspaceID")
	{
		ws.POST("/invitations",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionWorkspaceInvite), h.Create)
		ws.GET("/invitations",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionWorkspaceInvite), h.ListPending)
	}

	// Token lookup and acceptance are not workspace-scoped: the caller is not
	// a member yet.
	api.GET("/invitations/:token", h.Get)
	api.POST("/invitations/accept", h.Accept)
}
