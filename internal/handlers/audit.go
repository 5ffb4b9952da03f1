package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// AuditHandler serves workspace audit log queries. Access is gated by the
// audit:view permission in the route wiring.
type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// GET /api/workspaces/:workspaceID/audit
func (h *AuditHandler) List(c *gin.Context) {
	filters := services.AuditFilters{
		WorkspaceID: c.Param("workspaceID"),
		UserID:      c.Query("user_id"),
		Action:      c.Query("action"),
	}
	if since := parseTimeQuery(c, "since"); !since.IsZero() {
		filters.Since = &since
	}
	if until := parseTimeQuery(c, "until"); !until.IsZero() {
		filters.Until = &until
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	logs, total, err := h.audit.List(requestContext(c), services.AuditListOptions{
		Page:     page,
		PageSize: perPage,
		Filters:  filters,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	response.SuccessWithMeta(c, http.StatusOK, gin.H{"logs": logs}, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      int(total),
		TotalPages: totalPages,
	})
}
