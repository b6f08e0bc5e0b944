// Package server assembles the HTTP surface from the domain packages.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"racefinder/internal/config"
	"racefinder/internal/database"
	"racefinder/internal/domain/admin"
	"racefinder/internal/domain/authz"
	"racefinder/internal/domain/event"
	"racefinder/internal/domain/interaction"
	"racefinder/internal/domain/like"
	"racefinder/internal/domain/proposal"
	"racefinder/internal/domain/settings"
	"racefinder/internal/live"
	"racefinder/internal/middleware"
	"racefinder/internal/pkg/jwt"
	"racefinder/internal/pkg/response"
	"racefinder/internal/ratelimit"
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&settings.SystemSettings{},
		&admin.Administrator{},
		&proposal.Proposal{},
		&event.Event{},
		&like.Record{},
		&interaction.Interaction{},
	}
}

func Migrate(db *gorm.DB) error {
	return database.Migrate(db, Models()...)
}

type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Keys    jwt.KeySet
	Limiter ratelimit.Limiter

	// optional
	Notifier proposal.Notifier
	Enricher proposal.Enricher
}

type Server struct {
	Engine *gin.Engine
	Hub    *live.Hub

	Admins   *admin.Service
	Settings *settings.Service
	Likes    *like.Service
	Gate     *authz.Gate
}

func New(d Deps) *Server {
	cfg := d.Config

	settingsService := settings.NewService(settings.NewRepository(d.DB), settings.Defaults{
		RequireApproval: true,
		LikeRateLimit:   cfg.LikeRateLimit,
		LikeRateWindow:  cfg.LikeRateWindow,
	})
	adminService := admin.NewService(admin.NewRepository(d.DB), settingsService)

	verifier := jwt.NewVerifier(d.Keys, jwt.Options{
		Audience: cfg.IDPProjectID,
		Issuer:   cfg.IDPIssuer,
		Leeway:   30 * time.Second,
	})
	gate := authz.NewGate(verifier, adminService, cfg.LastLoginTimeout)

	hub := live.NewHub(cfg.CORSAllowedOrigins)

	eventService := event.NewService(event.NewRepository(d.DB, like.Table, interaction.Table))
	likeService := like.NewService(like.NewRepository(d.DB), d.Limiter, settingsService, hub)
	interactionService := interaction.NewService(interaction.NewRepository(d.DB))
	proposalService := proposal.NewService(proposal.NewRepository(d.DB), settingsService, d.Notifier, d.Enricher)

	settingsHandler := settings.NewHandler(settingsService)
	adminHandler := admin.NewHandler(adminService)
	eventHandler := event.NewHandler(eventService)
	likeHandler := like.NewHandler(likeService)
	interactionHandler := interaction.NewHandler(interactionService)
	proposalHandler := proposal.NewHandler(proposalService)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "not_found", "Route not found")
	})

	// websocket connections outlive the request timeout
	hub.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Timeout(cfg.RequestTimeout))
	{
		eventHandler.RegisterPublicRoutes(v1)
		likeHandler.RegisterPublicRoutes(v1)
		proposalHandler.RegisterPublicRoutes(v1, middleware.SubmissionThrottle(cfg.SubmissionRPS, cfg.SubmissionBurst))

		user := v1.Group("")
		user.Use(middleware.RequireAuth(gate))
		{
			likeHandler.RegisterUserRoutes(user)
			interactionHandler.RegisterUserRoutes(user)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.RequireAdmin(gate))
		{
			adminHandler.RegisterAdminRoutes(adminGroup)
			settingsHandler.RegisterAdminRoutes(adminGroup)
			eventHandler.RegisterAdminRoutes(adminGroup)
			proposalHandler.RegisterAdminRoutes(adminGroup)
			likeHandler.RegisterAdminRoutes(adminGroup)
		}
	}

	return &Server{
		Engine:   r,
		Hub:      hub,
		Admins:   adminService,
		Settings: settingsService,
		Likes:    likeService,
		Gate:     gate,
	}
}

// Bootstrap seeds the designated super admin and the settings singleton.
func (s *Server) Bootstrap(ctx context.Context, superAdminEmail string) error {
	return s.Admins.EnsureBootstrap(ctx, superAdminEmail)
}
