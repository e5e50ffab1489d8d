package routes

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/strayrescue/internal/config"
	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/features/reports"
	"github.com/xyz-asif/strayrescue/internal/store"
)

// indexCounter records EnsureIndex calls per entity.
type indexCounter struct {
	*store.MemoryGateway
	mu    sync.Mutex
	calls map[string]int
}

func newIndexCounter() *indexCounter {
	return &indexCounter{MemoryGateway: store.NewMemoryGateway(), calls: map[string]int{}}
}

func (g *indexCounter) EnsureIndex(_ context.Context, entity string, _ ...store.Order) error {
	g.mu.Lock()
	g.calls[entity]++
	g.mu.Unlock()
	return nil
}

func (g *indexCounter) count(entity string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[entity]
}

func TestSetupRoutes_SingleReportRepository(t *testing.T) {
	gin.SetMode(gin.TestMode)

	single := newIndexCounter()
	reports.NewRepository(single, identity.NewRepository(single))
	perRepository := single.count(reports.EntityReports)
	require.Positive(t, perRepository)

	gw := newIndexCounter()
	cfg := &config.Config{
		AppEnv:         "test",
		AuthMode:       "jwt",
		JWTSecret:      "test-secret",
		StoreTimeout:   time.Second,
		PickupTimezone: "UTC",
		SessionIdleTTL: time.Minute,
	}
	services := SetupRoutes(gin.New(), gw, cfg, identity.NewJWTVerifier(cfg.JWTSecret), nil)

	require.NotNil(t, services.Sessions)
	assert.Nil(t, services.Limiter)
	assert.Equal(t, perRepository, gw.count(reports.EntityReports))
}
