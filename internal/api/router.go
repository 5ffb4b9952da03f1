package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/app"
	iauth "github.com/uniworkhq/uniwork/internal/auth"
	"github.com/uniworkhq/uniwork/internal/drive"
	"github.com/uniworkhq/uniwork/internal/handlers"
	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/mail"
)

// deps bundles the constructed services shared by the route registrars.
type deps struct {
	users       *services.UserService
	workspaces  *services.WorkspaceService
	invitations *services.InvitationService
	tasks       *services.TaskService
	documents   *services.DocumentService
	chat        *services.ChatService
	files       *services.FileService
	calendar    *services.CalendarService
	assistant   *services.AssistantService
	driveTokens *services.DriveTokenService
	audit       *services.AuditService
	providers   *drive.Registry
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	d, err := buildServices(db, cfg)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	// Basic rate limiting: 100 requests/minute per IP+path
	r.Use(middleware.RateLimit(100, time.Minute))

	// Health endpoint (public)
	r.GET("/health", handlers.Health(db))

	authHandler := handlers.NewAuthHandler(d.users, jwt)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	api.GET("/auth/me", authHandler.Me)

	registerWorkspaceRoutes(api, d)
	registerInvitationRoutes(api, d)
	registerTaskRoutes(api, d)
	registerDocumentRoutes(api, d)
	registerChatRoutes(api, d)
	registerFileRoutes(api, d)
	registerCalendarRoutes(api, d)
	registerAssistantRoutes(api, d)
	registerIntegrationRoutes(api, d)
	registerAuditRoutes(api, d)

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}

func buildServices(db *gorm.DB, cfg *app.Config) (*deps, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}

	users, err := services.NewUserService(db, audit)
	if err != nil {
		return nil, err
	}
	workspaces, err := services.NewWorkspaceService(db, audit)
	if err != nil {
		return nil, err
	}

	mailer, err := mail.NewSMTPMailer(cfg.Email.MailSettings())
	if err != nil {
		return nil, err
	}
	invitations, err := services.NewInvitationService(db, mailer, audit,
		services.WithInvitationBaseURL(cfg.Server.BaseURL))
	if err != nil {
		return nil, err
	}

	tasks, err := services.NewTaskService(db, audit)
	if err != nil {
		return nil, err
	}
	documents, err := services.NewDocumentService(db)
	if err != nil {
		return nil, err
	}
	chat, err := services.NewChatService(db)
	if err != nil {
		return nil, err
	}
	files, err := services.NewFileService(db, audit)
	if err != nil {
		return nil, err
	}
	calendar, err := services.NewCalendarService(db, audit)
	if err != nil {
		return nil, err
	}
	assistant, err := services.NewAssistantService(db, cfg.Assistant)
	if err != nil {
		return nil, err
	}

	providers := drive.NewRegistry(cfg.Drive)
	driveTokens, err := services.NewDriveTokenService(db, providers)
	if err != nil {
		return nil, err
	}

	return &deps{
		users:       users,
		workspaces:  workspaces,
		invitations: invitations,
		tasks:       tasks,
		documents:   documents,
		chat:        chat,
		files:       files,
		calendar:    calendar,
		assistant:   assistant,
		driveTokens: driveTokens,
		audit:       audit,
		providers:   providers,
	}, nil
}
