package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// InvitationHandler serves the invitation lifecycle endpoints.
type InvitationHandler struct {
	invitations *services.InvitationService
}

func NewInvitationHandler(invitations *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

type createInvitationRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type acceptInvitationRequest struct {
	Token string `json:"token" validate:"required,len=64"`
}

type invitationDTO struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	InvitedBy  string     `json:"invited_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

func toInvitationDTO(inv *models.Invitation) invitationDTO {
	dto := invitationDTO{
		ID:         inv.ID,
		Email:      inv.Email,
		Role:       inv.Role,
		Status:     inv.Status,
		CreatedAt:  inv.CreatedAt,
		ExpiresAt:  inv.ExpiresAt,
		AcceptedAt: inv.AcceptedAt,
	}
	if inv.InvitedBy != nil {
		dto.InvitedBy = inv.InvitedBy.Name
	}
	return dto
}

// POST /api/workspaces/:workspaceID/invitations
func (h *InvitationHandler) Create(c *gin.Context) {
	var req createInvitationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	invitation, err := h.invitations.Create(requestContext(c), services.CreateInvitationInput{
		WorkspaceID: c.Param("workspaceID"),
		Email:       req.Email,
		Role:        rbac.Role(req.Role),
		InvitedByID: c.GetString(middleware.CtxUserIDKey),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"invitation": toInvitationDTO(invitation),
		"token":      invitation.Token,
		"link":       h.invitations.InviteLink(invitation.Token),
	})
}

// GET /api/workspaces/:workspaceID/invitations
func (h *InvitationHandler) ListPending(c *gin.Context) {
	invitations, err := h.invitations.ListPending(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	dtos := make([]invitationDTO, 0, len(invitations))
	for i := range invitations {
		dtos = append(dtos, toInvitationDTO(&invitations[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"invitations": dtos})
}

// GET /api/invitations/:token
func (h *InvitationHandler) Get(c *gin.Context) {
	invitation, err := h.invitations.GetByToken(requestContext(c), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := gin.H{
		"email":      invitation.Email,
		"role":       invitation.Role,
		"status":     invitation.Status,
		"expires_at": invitation.ExpiresAt,
	}
	if invitation.Workspace != nil {
		payload["workspace_name"] = invitation.Workspace.Name
	}
	response.Success(c, http.StatusOK, payload)
}

// POST /api/invitations/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req acceptInvitationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	workspaceID, err := h.invitations.Accept(requestContext(c), req.Token, c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workspace_id": workspaceID})
}
