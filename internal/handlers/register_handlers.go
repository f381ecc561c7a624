package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
	"github.com/opsledger/ops_ledger_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	remoteStore store.RemoteStore,
) {
	// Health reports the synchronized store's connection state so terminals
	// can tell a dead backend from a disconnected one. The subscription
	// lives for the process lifetime.
	var storeConnected atomic.Bool
	remoteStore.Connected(func(connected bool) {
		storeConnected.Store(connected)
	})
	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		if !storeConnected.Load() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"storeConnected": storeConnected.Load()})
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services.User)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerUserRoutes(v1, services.User)
	registerSalesRoutes(v1, services.Sales)
	registerInventoryRoutes(v1, services.Inventory)
	registerCompetitorRoutes(v1, services.Competitor)
	registerLeaveRoutes(v1, services.Leave)
	registerCatalogRoutes(v1, services.Catalog)
	registerSettingsRoutes(v1, services.Settings)
}
