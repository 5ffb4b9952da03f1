package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/rbac"
	"github.com/uniworkhq/uniwork/internal/services"
	apperrors "github.com/uniworkhq/uniwork/pkg/errors"
	"github.com/uniworkhq/uniwork/pkg/metrics"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// RequireWorkspacePermission resolves the caller's role in the workspace named
// by the :workspaceID route parameter and checks it against the permission
// table. Unknown members and unknown actions are both denied.
func RequireWorkspacePermission(workspaces *services.WorkspaceService, action rbac.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserIDKey)
		if userID == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		workspaceID := c.Param("workspaceID")
		if workspaceID == "" {
			response.Error(c, apperrors.NewBadRequest("workspace id is required"))
			c.Abort()
			return
		}

		role, err := workspaces.MemberRole(c.Request.Context(), workspaceID, userID)
		if err != nil {
			metrics.PermissionChecks.WithLabelValues(string(action), "denied").Inc()
			if errors.Is(err, services.ErrNotAMember) {
				response.Error(c, services.ErrNotAMember)
			} else {
				response.Error(c, err)
			}
			c.Abort()
			return
		}

		if !rbac.HasPermission(role, action) {
			metrics.PermissionChecks.WithLabelValues(string(action), "denied").Inc()
			response.Error(c, services.ErrInsufficientPermission)
			c.Abort()
			return
		}

		metrics.PermissionChecks.WithLabelValues(string(action), "allowed").Inc()
		c.Next()
	}
}

// RequireWorkspaceMember admits any member of the workspace, regardless of role.
func RequireWorkspaceMember(workspaces *services.WorkspaceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserIDKey)
		if userID == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		workspaceID := c.Param("workspaceID")
		if workspaceID == "" {
			response.Error(c, apperrors.NewBadRequest("workspace id is required"))
			c.Abort()
			return
		}

		if _, err := workspaces.MemberRole(c.Request.Context(), workspaceID, userID); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
