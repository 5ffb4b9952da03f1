package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func registerFileRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewFileHandler(d.files)

	files := api.Group("/workspaces/:workspaceID/files")
	{
		files.POST("",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionFileUpload), h.Create)
		files.GET("", h.List)
		files.DELETE("/:fileID",
			middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionFileDelete), h.Delete)
	}
}
