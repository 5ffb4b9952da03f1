package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/drive"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/crypto"
	appErrors "github.com/uniworkhq/uniwork/pkg/errors"
	"github.com/uniworkhq/uniwork/pkg/response"
)

const linkStateTTL = 10 * time.Minute

// IntegrationHandler serves the drive provider link flow and file listings.
type IntegrationHandler struct {
	providers *drive.Registry
	tokens    *services.DriveTokenService
	client    *drive.Client
	audit     *services.AuditService

	// Pending link states, keyed by the opaque state value handed to the
	// provider. Single-instance only, like the rate limiter.
	mu     sync.Mutex
	states map[string]linkState
}

type linkState struct {
	userID    string
	provider  string
	expiresAt time.Time
}

func NewIntegrationHandler(providers *drive.Registry, tokens *services.DriveTokenService, client *drive.Client, audit *services.AuditService) *IntegrationHandler {
	return &IntegrationHandler{
		providers: providers,
		tokens:    tokens,
		client:    client,
		audit:     audit,
		states:    make(map[string]linkState),
	}
}

// GET /api/integrations/providers
func (h *IntegrationHandler) ListProviders(c *gin.Context) {
	type providerDTO struct {
		Name       string `json:"name"`
		Configured bool   `json:"configured"`
		Linked     bool   `json:"linked"`
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	dtos := make([]providerDTO, 0, 3)
	for _, name := range h.providers.Names() {
		p, _ := h.providers.Get(name)
		linked := false
		if _, err := h.tokens.GetAccount(requestContext(c), userID, name); err == nil {
			linked = true
		}
		dtos = append(dtos, providerDTO{Name: name, Configured: p.Configured(), Linked: linked})
	}
	response.Success(c, http.StatusOK, gin.H{"providers": dtos})
}

// GET /api/integrations/:provider/link
func (h *IntegrationHandler) Link(c *gin.Context) {
	name := c.Param("provider")
	p, ok := h.providers.Get(name)
	if !ok {
		response.Error(c, services.ErrUnknownProvider)
		return
	}
	if !p.Configured() {
		response.Error(c, appErrors.NewBadRequest("provider is not configured"))
		return
	}

	state, err := crypto.GenerateToken(16)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	h.mu.Lock()
	h.pruneStatesLocked()
	h.states[state] = linkState{
		userID:    c.GetString(middleware.CtxUserIDKey),
		provider:  name,
		expiresAt: time.Now().Add(linkStateTTL),
	}
	h.mu.Unlock()

	url := p.OAuthConfig().AuthCodeURL(state)
	response.Success(c, http.StatusOK, gin.H{"url": url, "state": state})
}

type linkCallbackRequest struct {
	State string `json:"state" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// POST /api/integrations/callback
func (h *IntegrationHandler) Callback(c *gin.Context) {
	var req linkCallbackRequest
	if !bindAndValidate(c, &req) {
		return
	}

	h.mu.Lock()
	pending, ok := h.states[req.State]
	delete(h.states, req.State)
	h.mu.Unlock()

	if !ok || time.Now().After(pending.expiresAt) {
		response.Error(c, appErrors.NewBadRequest("unknown or expired link state"))
		return
	}
	if pending.userID != c.GetString(middleware.CtxUserIDKey) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	p, ok := h.providers.Get(pending.provider)
	if !ok {
		response.Error(c, services.ErrUnknownProvider)
		return
	}

	token, err := p.OAuthConfig().Exchange(requestContext(c), req.Code)
	if err != nil {
		response.Error(c, appErrors.NewBadRequest("authorization code exchange failed"))
		return
	}

	expiresIn := int64(time.Until(token.Expiry).Seconds())
	account, err := h.tokens.SaveExternalAccount(requestContext(c), services.SaveExternalAccountInput{
		UserID:       pending.userID,
		Provider:     pending.provider,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    expiresIn,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(requestContext(c), services.AuditEntry{
		Action:  services.AuditDriveLinked,
		UserID:  pending.userID,
		Details: map[string]any{"provider": pending.provider},
	})

	response.Success(c, http.StatusOK, gin.H{
		"provider":   account.Provider,
		"expires_at": account.ExpiresAt,
	})
}

// GET /api/integrations/:provider/files
func (h *IntegrationHandler) ListFiles(c *gin.Context) {
	name := c.Param("provider")
	p, ok := h.providers.Get(name)
	if !ok {
		response.Error(c, services.ErrUnknownProvider)
		return
	}

	accessToken, err := h.tokens.GetValidAccessToken(requestContext(c),
		c.GetString(middleware.CtxUserIDKey), name)
	if err != nil {
		response.Error(c, err)
		return
	}

	files, err := h.client.ListFiles(requestContext(c), p, accessToken)
	if err != nil {
		response.Error(c, appErrors.New("DRIVE_LISTING_FAILED", "Could not list drive files", http.StatusBadGateway))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"files": files})
}

// DELETE /api/integrations/:provider
func (h *IntegrationHandler) Unlink(c *gin.Context) {
	name := c.Param("provider")
	if _, ok := h.providers.Get(name); !ok {
		response.Error(c, services.ErrUnknownProvider)
		return
	}

	err := h.tokens.DeleteAccount(requestContext(c), c.GetString(middleware.CtxUserIDKey), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unlinked": true})
}

func (h *IntegrationHandler) pruneStatesLocked() {
	now := time.Now()
	for state, pending := range h.states {
		if now.After(pending.expiresAt) {
			delete(h.states, state)
		}
	}
}
