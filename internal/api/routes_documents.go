package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func registerDocumentRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewDocumentHandler(d.documents)

	docs := api.Group("/workspaces/:workspaceID/documents")
	{
		docs.POST("",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionDocCreate), h.Create)
		docs.GET("", h.List)
		docs.GET("/:documentID", h.Get)
		docs.PATCH("/:documentID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionDocUpdate), h.Update)
		docs.DELETE("/:documentID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionDocDelete), h.Delete)
	}
}
