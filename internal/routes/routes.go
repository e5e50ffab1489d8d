package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/config"
	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/features/notifications"
	"github.com/xyz-asif/strayrescue/internal/features/reports"
	"github.com/xyz-asif/strayrescue/internal/features/rescue"
	"github.com/xyz-asif/strayrescue/internal/middleware"
	"github.com/xyz-asif/strayrescue/internal/pkg/logger"
	"github.com/xyz-asif/strayrescue/internal/pkg/ratelimit"
	"github.com/xyz-asif/strayrescue/internal/store"
)

// Services are the long-lived components main has to start and drain.
type Services struct {
	Sessions *rescue.Sessions
	Limiter  *ratelimit.RateLimiter
}

// SetupRoutes mounts every feature under /api/v1. uploader may be nil when
// Cloudinary is not configured; report images are then rejected.
func SetupRoutes(router *gin.Engine, gw store.Gateway, cfg *config.Config, verifier identity.Verifier, uploader reports.ImageUploader) *Services {
	api := router.Group("/api/v1")

	profiles := identity.NewRepository(gw)
	resolver := identity.NewResolver(verifier, profiles)
	authMiddleware := middleware.Identity(resolver, cfg.AllowDebugAuth())

	var limiter *ratelimit.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = ratelimit.New(cfg.RateLimitPerMinute, time.Minute)
	}

	reportRepo := reports.NewRepository(gw, profiles)
	dispatcher := notifications.GetDispatcher(gw)
	opts := rescue.Options{
		StoreTimeout: cfg.StoreTimeout,
		Location:     cfg.PickupLocation(),
		Logger:       logger.Default(),
	}
	sessions := rescue.NewSessions(func(actor identity.Actor) *rescue.Controller {
		return rescue.NewController(actor, reportRepo, dispatcher, opts)
	}, cfg.SessionIdleTTL)

	identity.RegisterRoutes(api, gw, cfg, authMiddleware)
	reports.RegisterRoutes(api, reportRepo, profiles, authMiddleware, uploader)
	notifications.RegisterRoutes(api, gw, authMiddleware)
	rescue.RegisterRoutes(api, sessions, authMiddleware, limiter)

	return &Services{Sessions: sessions, Limiter: limiter}
}
