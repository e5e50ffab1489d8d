// @title Stray Rescue API
// @version 1.0
// @description Report stray animals and coordinate their rescue
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xyz-asif/strayrescue/internal/config"
	"github.com/xyz-asif/strayrescue/internal/database"
	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/features/reports"
	"github.com/xyz-asif/strayrescue/internal/middleware"
	"github.com/xyz-asif/strayrescue/internal/pkg/cloudinary"
	"github.com/xyz-asif/strayrescue/internal/pkg/logger"
	"github.com/xyz-asif/strayrescue/internal/pkg/response"
	"github.com/xyz-asif/strayrescue/internal/routes"
	"github.com/xyz-asif/strayrescue/internal/store"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	docs "github.com/xyz-asif/strayrescue/docs"
)

func main() {
	cfg := config.Load()
	logger.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))

	docs.SwaggerInfo.Title = "Stray Rescue API"
	docs.SwaggerInfo.Description = "Report stray animals and coordinate their rescue"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var gw store.Gateway
	var db *database.MongoDB
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart")
		gw = store.NewMemoryGateway()
	default:
		var err error
		db, err = database.Connect(cfg.MongoURI, cfg.MongoDB, database.Options{Timeout: cfg.StoreTimeout})
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB: %v", err)
		}
		defer db.Disconnect(context.Background())
		gw = store.NewMongoGateway(db.Database)
	}

	verifier := buildVerifier(ctx, cfg)

	// A nil *cloudinary.Service must not reach the handler as a non-nil interface.
	var uploader reports.ImageUploader
	if cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder); err != nil {
		logger.Warn("Cloudinary disabled: %v", err)
	} else {
		uploader = cld
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/health", func(c *gin.Context) {
		if db != nil {
			pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(pingCtx); err != nil {
				response.ServiceUnavailable(c, "Store unreachable", "STORE_UNAVAILABLE")
				return
			}
		}
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"store":  cfg.StoreDriver,
			"time":   time.Now().Unix(),
		})
	})

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	services := routes.SetupRoutes(router, gw, cfg, verifier, uploader)
	services.Sessions.StartCleanup(ctx, time.Minute)
	if services.Limiter != nil {
		services.Limiter.StartCleanup(ctx, 5*time.Minute)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		logger.Info("Server starting on port %s", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	// Pending reporter notifications finish before the store goes away.
	services.Sessions.Wait()

	logger.Info("Server exited")
}

func buildVerifier(ctx context.Context, cfg *config.Config) identity.Verifier {
	switch cfg.AuthMode {
	case "firebase":
		client, err := identity.InitFirebase(ctx, cfg.FirebaseServiceAccountPath)
		if err != nil {
			logger.Fatal("Failed to initialize Firebase: %v", err)
		}
		return identity.NewFirebaseVerifier(client)
	case "debug":
		if !cfg.AllowDebugAuth() {
			logger.Warn("AUTH_MODE=debug ignored outside development, debug headers are rejected")
		} else {
			logger.Warn("Debug identity headers are accepted")
		}
		return identity.NewJWTVerifier(cfg.JWTSecret)
	default:
		if cfg.JWTSecret == "secret" && !cfg.IsDevelopment() {
			logger.Warn("JWT_SECRET is the default value outside development")
		}
		return identity.NewJWTVerifier(cfg.JWTSecret)
	}
}
