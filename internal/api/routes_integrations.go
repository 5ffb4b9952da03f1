package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/drive"
	"github.com/uniworkhq/uniwork/internal/handlers"
)

func registerIntegrationRoutes(api *gin.RouterGroup, d *deps) {
	h := handlers.NewIntegrationHandler(d.providers, d.driveTokens, drive.NewClient(nil), d.audit)

	// Drive links belong to the user, not a workspace.
	integrations := api.Group("/integrations")
	{
		integrations.GET("/providers", h.ListProviders)
		integrations.GET("/:provider/link", h.Link)
		integrations.POST("/callback", h.Callback)
		integrations.GET("/:provider/files", h.ListFiles)
		integrations.DELETE("/:provider", h.Unlink)
	}
}
