package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func registerAuditRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewAuditHandler(d.audit)

	api.GET("/workspaces/:workspaceID/audit",
		middleware.RequireWorkspacePermission(d.workspaces, rbac.ActionAuditView), h.List)
}
