// Command preflight checks the external services the API depends on before a deploy.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xyz-asif/strayrescue/internal/config"
	"github.com/xyz-asif/strayrescue/internal/database"
	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/pkg/cloudinary"
	"github.com/xyz-asif/strayrescue/internal/pkg/logger"
)

type check struct {
	name string
	skip string
	run  func(ctx context.Context) error
}

func main() {
	cfg := config.Load()

	checks := []check{
		{
			name: "MongoDB",
			skip: skipUnless(cfg.StoreDriver != "memory", "STORE_DRIVER=memory"),
			run: func(ctx context.Context) error {
				db, err := database.Connect(cfg.MongoURI, cfg.MongoDB, database.Options{Timeout: cfg.StoreTimeout})
				if err != nil {
					return err
				}
				defer db.Disconnect(context.Background())
				return db.Ping(ctx)
			},
		},
		{
			name: "Firebase Auth",
			skip: skipUnless(cfg.AuthMode == "firebase", "AUTH_MODE is not firebase"),
			run: func(ctx context.Context) error {
				_, err := identity.InitFirebase(ctx, cfg.FirebaseServiceAccountPath)
				return err
			},
		},
		{
			name: "Cloudinary",
			skip: skipUnless(cfg.CloudinaryCloudName != "", "CLOUDINARY_CLOUD_NAME not set"),
			run: func(ctx context.Context) error {
				cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
				if err != nil {
					return err
				}
				return cld.Ping(ctx)
			},
		},
	}

	failed := 0
	for _, c := range checks {
		if c.skip != "" {
			logger.Info("%s: skipped (%s)", c.name, c.skip)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := c.run(ctx)
		cancel()

		if err != nil {
			logger.Error("%s: %v", c.name, err)
			failed++
			continue
		}
		logger.Info("%s: ok", c.name)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d check(s) failed\n", failed)
		os.Exit(1)
	}
	fmt.Printf("All systems ready. Pickup zone: %s\n", cfg.PickupLocation())
}

func skipUnless(enabled bool, reason string) string {
	if enabled {
		return ""
	}
	return reason
}
