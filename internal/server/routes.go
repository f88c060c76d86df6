package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"supportbot/internal/chat"
	"supportbot/internal/config"
	"supportbot/internal/db"
	"supportbot/internal/handlers"
	"supportbot/internal/handlers/api"
	"supportbot/internal/jobs"
	"supportbot/internal/middleware"
)

// RegisterRoutes registers all application routes. database and links may be
// nil when analytics or link checking are disabled.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, svc *chat.Service, links *jobs.LinkChecker, chatCfg *config.YAMLConfig) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(svc, s.Cfg, chatCfg)
	var linkChecker handlers.LinkChecker
	if links != nil {
		linkChecker = links
	}
	adminHandler := handlers.NewAdminHandler(database, svc, linkChecker, s.Cfg)
	probeHandler := handlers.NewProbeHandler(database)
	apiChatHandler := api.NewChatHandler(svc, s.Cfg, chatCfg)
	apiStatsHandler := api.NewStatsHandler(database)

	// Probes
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)

	// Metrics
	if s.Cfg.MetricsEnabled {
		s.App.Get(s.Cfg.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
		log.Printf("Metrics exposed at %s", s.Cfg.MetricsPath)
	}

	// Chat routes - public
	s.App.Get("/", authMiddleware.OptionalAuth, chatHandler.Index)
	s.App.Post("/chat", chatHandler.Ask)
	s.App.Post("/chat/sample/:n", chatHandler.Sample)
	s.App.Post("/chat/clear", chatHandler.Clear)

	// JSON API
	v1 := s.App.Group("/api/v1")
	v1.Post("/ask", apiChatHandler.Ask)
	v1.Get("/topics", apiChatHandler.Topics)
	v1.Get("/samples", apiChatHandler.Samples)
	v1.Get("/health", apiChatHandler.Health)
	v1.Get("/stats", authMiddleware.OptionalAuth, apiStatsHandler.Stats)

	// Staff routes - only when OIDC is configured
	if !s.Cfg.IsAuthEnabled() {
		log.Println("OIDC authentication is disabled. Set OIDC_ISSUER and OIDC_CLIENT_ID to enable the admin dashboard.")
		return nil
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	s.App.Get("/admin", authMiddleware.RequireAdmin, adminHandler.Dashboard)
	s.App.Delete("/admin/unanswered/:id", authMiddleware.RequireAdmin, adminHandler.DismissQuestion)
	s.App.Post("/admin/links/check", authMiddleware.RequireAdmin, adminHandler.CheckLinks)

	if len(s.Cfg.AdminEmails) == 0 {
		log.Println("Warning: ADMIN_EMAILS is empty, nobody can open the admin dashboard")
	}

	return nil
}
